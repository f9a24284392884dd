package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/recipevault/backend/internal/models"
	"github.com/pageza/recipevault/backend/internal/types"
)

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// TokenTTL is how long an issued bearer token stays valid. There is no
// refresh mechanism; expiry forces re-login.
const TokenTTL = 24 * time.Hour

type AuthService struct {
	db        *gorm.DB
	jwtSecret string
}

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: jwtSecret,
	}
}

// Register creates a user with a salted bcrypt hash and returns it together
// with a fresh token.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	if err := validateRegistration(name, email, password); err != nil {
		return nil, "", err
	}

	var existing models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, "", ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := s.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// Login authenticates by email and password. Unknown email and wrong
// password produce the same error so accounts cannot be enumerated.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.GenerateToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// GetUserByID resolves the authenticated user for /auth/me.
func (s *AuthService) GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) GenerateToken(userID uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID.String(),
		"exp":     time.Now().Add(TokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		userIDStr, ok := claims["user_id"].(string)
		if !ok {
			return nil, ErrInvalidToken
		}

		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			return nil, ErrInvalidToken
		}

		return &types.TokenClaims{UserID: userID}, nil
	}

	return nil, ErrInvalidToken
}

func validateRegistration(name, email, password string) error {
	var msgs []string
	if name == "" {
		msgs = append(msgs, "please enter your name")
	} else if len(name) < 3 {
		msgs = append(msgs, "Username must be at least 3 characters long")
	} else if len(name) > 30 {
		msgs = append(msgs, "Username cannot exceed 30 characters")
	}

	if email == "" {
		msgs = append(msgs, "Please enter your email")
	} else if !emailPattern.MatchString(email) {
		msgs = append(msgs, "Please provide a valid email")
	}

	if password == "" {
		msgs = append(msgs, "Please enter your password")
	} else if len(password) < 6 {
		msgs = append(msgs, "Password must be at least 6 characters long")
	}

	return NewValidationError(msgs)
}
