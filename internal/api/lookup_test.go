package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLookupStub(t *testing.T) *httptest.Server {
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

func TestLookupSearchEndpoint(t *testing.T) {
	stub := newLookupStub(t)
	router, _ := setupTestRouter(t, stub.URL)

	code, payload := doRequest(t, router, http.MethodGet, "/api/v1/lookup/search?q=arrabiata", "", nil)
	require.Equal(t, http.StatusOK, code)

	var count int
	require.NoError(t, json.Unmarshal(payload["count"], &count))
	assert.Equal(t, 1, count)
	assert.Contains(t, string(payload["meals"]), "Spicy Arrabiata Penne")
}

func TestLookupSearchEndpointNoMatch(t *testing.T) {
	stub := newLookupStub(t)
	router, _ := setupTestRouter(t, stub.URL)

	code, payload := doRequest(t, router, http.MethodGet, "/api/v1/lookup/search?q=zzzzz", "", nil)
	require.Equal(t, http.StatusOK, code)

	var count int
	require.NoError(t, json.Unmarshal(payload["count"], &count))
	assert.Equal(t, 0, count)
	assert.Equal(t, "[]", string(payload["meals"]))
}

func TestLookupRandomEndpoint(t *testing.T) {
	stub := newLookupStub(t)
	router, _ := setupTestRouter(t, stub.URL)

	code, payload := doRequest(t, router, http.MethodGet, "/api/v1/lookup/random", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(payload["meal"]), "52772")
}

func TestLookupMealByIDEndpoint(t *testing.T) {
	stub := newLookupStub(t)
	router, _ := setupTestRouter(t, stub.URL)

	code, payload := doRequest(t, router, http.MethodGet, "/api/v1/lookup/meals/52772", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(payload["meal"]), "Teriyaki Chicken Casserole")

	code, payload = doRequest(t, router, http.MethodGet, "/api/v1/lookup/meals/99999", "", nil)
	require.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Not found", rawString(t, payload["error"]))
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t, "")

	code, payload := doRequest(t, router, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", rawString(t, payload["status"]))
}
