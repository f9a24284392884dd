package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultMealDBURL is the public TheMealDB endpoint.
const DefaultMealDBURL = "https://www.themealdb.com/api/json/v1/1"

const mealCacheTTL = 15 * time.Minute

// Meal is a raw upstream recipe. Results keep the external API's native
// shape; callers must treat them as a distinct variant from internally-owned
// recipes and never assign ownership to them.
type Meal = json.RawMessage

type mealsEnvelope struct {
	Meals []Meal `json:"meals"`
}

// MealDBService is a read-only pass-through to the external recipe API.
// When a Redis client is supplied, responses are cached under a short TTL so
// repeated searches do not hammer the upstream.
type MealDBService struct {
	baseURL string
	client  *http.Client
	redis   *redis.Client
}

func NewMealDBService(baseURL string, redisClient *redis.Client) *MealDBService {
	if baseURL == "" {
		baseURL = DefaultMealDBURL
	}
	return &MealDBService{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		redis: redisClient,
	}
}

// SearchMeals returns every match for the term. No match is an empty list,
// not an error.
func (s *MealDBService) SearchMeals(ctx context.Context, term string) ([]Meal, error) {
	endpoint := fmt.Sprintf("%s/search.php?s=%s", s.baseURL, url.QueryEscape(term))
	meals, err := s.fetchMeals(ctx, endpoint, "mealdb:search:"+term)
	if err != nil {
		return nil, err
	}
	if meals == nil {
		meals = []Meal{}
	}
	return meals, nil
}

// RandomMeal returns exactly one recipe.
func (s *MealDBService) RandomMeal(ctx context.Context) (Meal, error) {
	// Random responses are never cached.
	meals, err := s.fetchMeals(ctx, s.baseURL+"/random.php", "")
	if err != nil {
		return nil, err
	}
	if len(meals) == 0 {
		return nil, fmt.Errorf("upstream returned no meal")
	}
	return meals[0], nil
}

// MealByID looks up a single recipe in the upstream id scheme.
func (s *MealDBService) MealByID(ctx context.Context, id string) (Meal, error) {
	endpoint := fmt.Sprintf("%s/lookup.php?i=%s", s.baseURL, url.QueryEscape(id))
	meals, err := s.fetchMeals(ctx, endpoint, "mealdb:lookup:"+id)
	if err != nil {
		return nil, err
	}
	if len(meals) == 0 {
		return nil, ErrNotFound
	}
	return meals[0], nil
}

func (s *MealDBService) fetchMeals(ctx context.Context, endpoint, cacheKey string) ([]Meal, error) {
	if body, ok := s.cacheGet(ctx, cacheKey); ok {
		return decodeMeals(body)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recipe API request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("recipe API returned status %d", resp.StatusCode)
	}

	s.cacheSet(ctx, cacheKey, body)
	return decodeMeals(body)
}

func (s *MealDBService) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if s.redis == nil || key == "" {
		return nil, false
	}
	body, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return body, true
}

func (s *MealDBService) cacheSet(ctx context.Context, key string, body []byte) {
	if s.redis == nil || key == "" {
		return
	}
	if err := s.redis.Set(ctx, key, body, mealCacheTTL).Err(); err != nil {
		log.Printf("failed to cache recipe API response: %v", err)
	}
}

func decodeMeals(body []byte) ([]Meal, error) {
	var envelope mealsEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode recipe API response: %w", err)
	}
	return envelope.Meals, nil
}
