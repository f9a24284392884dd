package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipevault/backend/internal/service"
)

func newMealDBStub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/search.php", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("s") == "arrabiata" {
			_, _ = w.Write([]byte(`{"meals":[{"idMeal":"52771","strMeal":"Spicy Arrabiata Penne"}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"meals":null}`))
	})
	mux.HandleFunc("/random.php", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"meals":[{"idMeal":"52772","strMeal":"Teriyaki Chicken Casserole"}]}`))
	})
	mux.HandleFunc("/lookup.php", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("i") == "52772" {
			_, _ = w.Write([]byte(`{"meals":[{"idMeal":"52772","strMeal":"Teriyaki Chicken Casserole"}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"meals":null}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestSearchMeals(t *testing.T) {
	stub := newMealDBStub(t)
	mealDB := service.NewMealDBService(stub.URL, nil)

	meals, err := mealDB.SearchMeals(context.Background(), "arrabiata")
	require.NoError(t, err)
	require.Len(t, meals, 1)

	var meal struct {
		IDMeal  string `json:"idMeal"`
		StrMeal string `json:"strMeal"`
	}
	require.NoError(t, json.Unmarshal(meals[0], &meal))
	assert.Equal(t, "52771", meal.IDMeal)
	assert.Equal(t, "Spicy Arrabiata Penne", meal.StrMeal)
}

func TestSearchMealsNoMatch(t *testing.T) {
	stub := newMealDBStub(t)
	mealDB := service.NewMealDBService(stub.URL, nil)

	// Upstream signals no match with a null meals field; that is an empty
	// result, not an error.
	meals, err := mealDB.SearchMeals(context.Background(), "zzzzz")
	require.NoError(t, err)
	assert.NotNil(t, meals)
	assert.Empty(t, meals)
}

func TestRandomMeal(t *testing.T) {
	stub := newMealDBStub(t)
	mealDB := service.NewMealDBService(stub.URL, nil)

	meal, err := mealDB.RandomMeal(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, meal)
}

func TestMealByID(t *testing.T) {
	stub := newMealDBStub(t)
	mealDB := service.NewMealDBService(stub.URL, nil)

	meal, err := mealDB.MealByID(context.Background(), "52772")
	require.NoError(t, err)
	assert.NotEmpty(t, meal)

	_, err = mealDB.MealByID(context.Background(), "99999")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestMealDBUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	mealDB := service.NewMealDBService(server.URL, nil)
	_, err := mealDB.SearchMeals(context.Background(), "anything")
	assert.Error(t, err)
}
