package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/pageza/recipevault/backend/config"
)

// MaxImageSize caps recipe image uploads at 5 MB.
const MaxImageSize = 5 << 20

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageService stores recipe images in S3 and hands back public URLs.
type ImageService struct {
	s3Config *config.S3Config
}

func NewImageService(s3Config *config.S3Config) *ImageService {
	return &ImageService{s3Config: s3Config}
}

// UploadRecipeImage uploads image data under a fresh key and returns the
// public URL to store on the recipe.
func (s *ImageService) UploadRecipeImage(ctx context.Context, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", &ValidationError{Errors: []string{"image data is empty"}}
	}
	if len(data) > MaxImageSize {
		return "", &ValidationError{Errors: []string{"image exceeds the 5MB limit"}}
	}

	ext, ok := allowedImageTypes[strings.ToLower(contentType)]
	if !ok {
		return "", &ValidationError{Errors: []string{"image must be JPEG, PNG or WebP"}}
	}

	fileName := fmt.Sprintf("recipe-images/%s%s", uuid.New().String(), ext)

	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, fileName)
	log.Printf("[ImageService] uploaded recipe image: %s", publicURL)

	return publicURL, nil
}

// GetImageURL returns a short-lived presigned URL for a stored image, for
// buckets that are not publicly readable.
func (s *ImageService) GetImageURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", &ValidationError{Errors: []string{"image key is required"}}
	}
	return s.s3Config.GeneratePresignedURL(ctx, key, 15*time.Minute)
}
