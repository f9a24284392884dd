package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Store keys for the persisted session.
const (
	tokenKey = "token"
	userKey  = "user"
)

// ErrUnauthorized is returned after any 401; the client has already forced a
// logout by the time the caller sees it.
var ErrUnauthorized = errors.New("unauthorized")

// APIError carries the server's error payload for non-2xx responses.
type APIError struct {
	StatusCode int
	Message    string
	Errors     []string
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("%s (%d): %v", e.Message, e.StatusCode, e.Errors)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.StatusCode)
}

// User mirrors the API's user payload.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Recipe mirrors the API's recipe payload.
type Recipe struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Difficulty   string   `json:"difficulty"`
	CookingTime  int      `json:"cookingTime"`
	Servings     int      `json:"servings"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	Image        string   `json:"image"`
}

// Favorite mirrors the API's favorite payload.
type Favorite struct {
	ID        string `json:"id"`
	RecipeRef string `json:"recipe_ref"`
	Name      string `json:"name"`
	Source    string `json:"source"`
}

// Client is a REST client for the Recipe Vault API. It persists the session
// token and user through the Store, attaches the Bearer header to every
// authenticated call, and treats any 401 as a forced logout: credentials and
// the in-memory favorites cache are cleared before the error is returned.
type Client struct {
	baseURL string
	http    *http.Client
	store   Store
	cache   *FavoritesCache
}

func New(baseURL string, store Store) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		store:   store,
		cache:   NewFavoritesCache(store),
	}
}

// Cache exposes the client-side favorites cache.
func (c *Client) Cache() *FavoritesCache {
	return c.cache
}

// Token returns the persisted session token, empty when logged out.
func (c *Client) Token() string {
	data, err := c.store.Get(tokenKey)
	if err != nil {
		return ""
	}
	var token string
	if err := json.Unmarshal(data, &token); err != nil {
		return ""
	}
	return token
}

// CurrentUser returns the persisted user, nil when logged out.
func (c *Client) CurrentUser() *User {
	data, err := c.store.Get(userKey)
	if err != nil {
		return nil
	}
	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil
	}
	return &user
}

type authResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Register creates an account, stores the session and loads the user's cache.
func (c *Client) Register(ctx context.Context, name, email, password string) (*User, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/register", body, &resp); err != nil {
		return nil, err
	}
	if err := c.startSession(resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Login authenticates, stores the session and loads the user's cache.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	body := map[string]string{"email": email, "password": password}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", body, &resp); err != nil {
		return nil, err
	}
	if err := c.startSession(resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Me fetches the authenticated user's profile.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var resp struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Logout clears the persisted credentials and the in-memory cache. Persisted
// favorites stay on disk for the next login.
func (c *Client) Logout() {
	_ = c.store.Delete(tokenKey)
	_ = c.store.Delete(userKey)
	c.cache.Logout()
}

// ListRecipes lists the user's recipes, optionally filtered.
func (c *Client) ListRecipes(ctx context.Context, query, category string) ([]Recipe, error) {
	params := url.Values{}
	if query != "" {
		params.Set("q", query)
	}
	if category != "" {
		params.Set("category", category)
	}
	path := "/api/v1/recipes"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var resp struct {
		Count   int      `json:"count"`
		Recipes []Recipe `json:"recipes"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Recipes, nil
}

// GetRecipe fetches one recipe by id.
func (c *Client) GetRecipe(ctx context.Context, id string) (*Recipe, error) {
	var resp struct {
		Recipe Recipe `json:"recipe"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/recipes/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Recipe, nil
}

// CreateRecipe creates a recipe.
func (c *Client) CreateRecipe(ctx context.Context, recipe Recipe) (*Recipe, error) {
	var resp struct {
		Recipe Recipe `json:"recipe"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/recipes", recipe, &resp); err != nil {
		return nil, err
	}
	return &resp.Recipe, nil
}

// UpdateRecipe applies a partial update; nil map values are not supported,
// include only the fields to change.
func (c *Client) UpdateRecipe(ctx context.Context, id string, fields map[string]interface{}) (*Recipe, error) {
	var resp struct {
		Recipe Recipe `json:"recipe"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/v1/recipes/"+url.PathEscape(id), fields, &resp); err != nil {
		return nil, err
	}
	return &resp.Recipe, nil
}

// DeleteRecipe deletes a recipe by id.
func (c *Client) DeleteRecipe(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/recipes/"+url.PathEscape(id), nil, nil)
}

// ListFavorites returns the server-side favorites newest-first.
func (c *Client) ListFavorites(ctx context.Context) ([]Favorite, error) {
	var resp struct {
		Count     int        `json:"count"`
		Favorites []Favorite `json:"favorites"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/favorites", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Favorites, nil
}

// ToggleFavorite toggles the recipe server-side and mirrors the outcome into
// the local cache so both sides agree without a refetch.
func (c *Client) ToggleFavorite(ctx context.Context, raw json.RawMessage) (added bool, err error) {
	entry, err := Ingest(raw)
	if err != nil {
		return false, err
	}

	body := map[string]json.RawMessage{"recipe": normalizeSnapshot(entry)}
	var resp struct {
		Action string `json:"action"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/favorites/toggle", body, &resp); err != nil {
		return false, err
	}

	added = resp.Action == "added"
	if c.cache.UserID() != "" {
		if c.cache.Contains(entry.ID) != added {
			if _, err := c.cache.Toggle(entry); err != nil {
				return added, err
			}
		}
	}
	return added, nil
}

// RemoveFavorite removes a favorite by recipe ref, mirroring the removal into
// the local cache.
func (c *Client) RemoveFavorite(ctx context.Context, recipeRef string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/v1/favorites/"+url.PathEscape(recipeRef), nil, nil); err != nil {
		return err
	}
	if c.cache.UserID() != "" && c.cache.Contains(recipeRef) {
		if _, err := c.cache.Toggle(Entry{ID: recipeRef}); err != nil {
			return err
		}
	}
	return nil
}

// CheckFavorite asks the server whether the recipe is favorited.
func (c *Client) CheckFavorite(ctx context.Context, recipeRef string) (bool, error) {
	var resp struct {
		IsFavorited bool `json:"isFavorited"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/favorites/check/"+url.PathEscape(recipeRef), nil, &resp); err != nil {
		return false, err
	}
	return resp.IsFavorited, nil
}

// ClearFavorites clears server-side and cached favorites.
func (c *Client) ClearFavorites(ctx context.Context) error {
	if err := c.do(ctx, http.MethodDelete, "/api/v1/favorites", nil, nil); err != nil {
		return err
	}
	if c.cache.UserID() != "" {
		return c.cache.Clear()
	}
	return nil
}

// SearchMeals queries the external lookup proxy.
func (c *Client) SearchMeals(ctx context.Context, term string) ([]json.RawMessage, error) {
	params := url.Values{}
	params.Set("q", term)
	var resp struct {
		Count int               `json:"count"`
		Meals []json.RawMessage `json:"meals"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/lookup/search?"+params.Encode(), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Meals, nil
}

// startSession persists the credentials and loads the user's cache.
func (c *Client) startSession(resp authResponse) error {
	tokenJSON, err := json.Marshal(resp.Token)
	if err != nil {
		return err
	}
	userJSON, err := json.Marshal(resp.User)
	if err != nil {
		return err
	}
	if err := c.store.Set(tokenKey, tokenJSON); err != nil {
		return err
	}
	if err := c.store.Set(userKey, userJSON); err != nil {
		return err
	}
	c.cache.Logout()
	return c.cache.Load(resp.User.ID)
}

// normalizeSnapshot reshapes an ingested entry into the server's snapshot
// contract: resolved id plus the original fields.
func normalizeSnapshot(entry Entry) json.RawMessage {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(entry.Snapshot, &fields); err != nil || fields == nil {
		fields = map[string]json.RawMessage{}
	}
	idJSON, _ := json.Marshal(entry.ID)
	fields["id"] = idJSON
	sourceJSON, _ := json.Marshal(entry.Source)
	fields["source"] = sourceJSON
	// External meals use strMeal for the name.
	if _, ok := fields["name"]; !ok {
		if strMeal, ok := fields["strMeal"]; ok {
			fields["name"] = strMeal
		}
	}
	out, _ := json.Marshal(fields)
	return out
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.Logout()
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: "request failed"}
		var payload struct {
			Error  string   `json:"error"`
			Errors []string `json:"errors"`
		}
		if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
			apiErr.Message = payload.Error
			apiErr.Errors = payload.Errors
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
