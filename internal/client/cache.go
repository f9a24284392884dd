package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// Entry sources, matching the server-side favorite source tags.
const (
	SourceUser = "user"
	SourceAPI  = "api"
)

// Entry is one cached favorite: the recipe's resolved identity, the source it
// was resolved from, and the raw snapshot for display.
type Entry struct {
	ID       string          `json:"id"`
	Source   string          `json:"source"`
	Snapshot json.RawMessage `json:"snapshot"`
}

// Ingest resolves a recipe payload into a tagged Entry. Identity is resolved
// exactly once, here: internal recipes carry "id", external lookup results
// carry "idMeal", persisted favorites carry "_id" or "recipe_ref". Everything
// downstream compares only Entry.ID.
func Ingest(raw json.RawMessage) (Entry, error) {
	var probe struct {
		ID        string `json:"id"`
		IDMeal    string `json:"idMeal"`
		MongoID   string `json:"_id"`
		RecipeRef string `json:"recipe_ref"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return Entry{}, fmt.Errorf("failed to parse recipe payload: %w", err)
	}

	switch {
	case probe.ID != "":
		return Entry{ID: probe.ID, Source: SourceUser, Snapshot: raw}, nil
	case probe.IDMeal != "":
		return Entry{ID: probe.IDMeal, Source: SourceAPI, Snapshot: raw}, nil
	case probe.RecipeRef != "":
		return Entry{ID: probe.RecipeRef, Source: SourceUser, Snapshot: raw}, nil
	case probe.MongoID != "":
		return Entry{ID: probe.MongoID, Source: SourceUser, Snapshot: raw}, nil
	}
	return Entry{}, errors.New("recipe payload has no recognizable id")
}

// FavoritesCache is the client-side favorites state for one logged-in user.
// Lifecycle: Unloaded -> Loaded(user) -> Unloaded. Every mutation is persisted
// through the Store under a per-user key, so switching users can never show
// another user's favorites.
type FavoritesCache struct {
	store Store

	mu      sync.Mutex
	userID  string
	entries []Entry
}

func NewFavoritesCache(store Store) *FavoritesCache {
	return &FavoritesCache{store: store}
}

func favoritesKey(userID string) string {
	return "favorites:" + userID
}

// Load attaches the cache to a user and restores their persisted entries.
// Loading while another user is loaded is an error; Logout first.
func (c *FavoritesCache) Load(userID string) error {
	if userID == "" {
		return errors.New("user id is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.userID != "" && c.userID != userID {
		return fmt.Errorf("cache already loaded for another user")
	}

	data, err := c.store.Get(favoritesKey(userID))
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			c.userID = userID
			c.entries = nil
			return nil
		}
		return err
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		// Corrupt persisted state starts the user over rather than wedging.
		c.userID = userID
		c.entries = nil
		return nil
	}

	c.userID = userID
	c.entries = entries
	return nil
}

// Entries returns a copy of the loaded entries.
func (c *FavoritesCache) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Contains reports whether the resolved id is favorited.
func (c *FavoritesCache) Contains(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.indexOf(id) >= 0
}

// Toggle adds the entry when absent and removes it when present, persisting
// either way. It reports true when the entry ended up added.
func (c *FavoritesCache) Toggle(entry Entry) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.userID == "" {
		return false, errors.New("cache is not loaded")
	}
	if entry.ID == "" {
		return false, errors.New("entry has no id")
	}

	if i := c.indexOf(entry.ID); i >= 0 {
		c.entries = append(c.entries[:i], c.entries[i+1:]...)
		return false, c.persist()
	}

	c.entries = append(c.entries, entry)
	return true, c.persist()
}

// Clear empties the loaded user's favorites and persists the empty set.
func (c *FavoritesCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.userID == "" {
		return errors.New("cache is not loaded")
	}
	c.entries = nil
	return c.persist()
}

// Logout drops the in-memory state only. Persisted favorites survive for the
// next Load of the same user.
func (c *FavoritesCache) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userID = ""
	c.entries = nil
}

// UserID returns the loaded user id, empty when unloaded.
func (c *FavoritesCache) UserID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID
}

func (c *FavoritesCache) indexOf(id string) int {
	for i, entry := range c.entries {
		if entry.ID == id {
			return i
		}
	}
	return -1
}

func (c *FavoritesCache) persist() error {
	entries := c.entries
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.store.Set(favoritesKey(c.userID), data)
}
