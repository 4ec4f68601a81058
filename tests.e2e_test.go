package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/julienschmidt/httprouter"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestServer serves the whole routing tree with the real middlewares
// stacks on top of an in-memory storage.
func newTestServer(t *testing.T, config *Config) (*httptest.Server, *APIHandler) {
	t.Helper()
	storage, err := NewMemoryBookStorage(zap.NewNop())
	require.NoError(t, err)
	api := newTestAPIHandler(config, storage)
	api.idsHandler = NewIDsHandler(RequestIDPrefix)
	public, ops := api.MiddlewaresStacks()
	router := api.SetupRoutes(httprouter.New(), &MiddlewareMap{public: public.Chain, ops: ops.Chain})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, api
}

func doRequest(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, data
}

func decodeBook(t *testing.T, data []byte) Book {
	t.Helper()
	var book Book
	require.NoError(t, json.Unmarshal(data, &book))
	return book
}

// TestBooksAPI_Lifecycle drives a book through create, read, update and delete over http.
//
//nolint:funlen
func TestBooksAPI_Lifecycle(t *testing.T) {
	srv, api := newTestServer(t, &Config{OpsEndpointsEnable: true})

	var created Book
	t.Run("create then get returns same fields", func(t *testing.T) {
		res, data := doRequest(t, http.MethodPost, srv.URL+"/api.books", `{"title":"Go","author":"Rob","price":9.99}`)
		require.Equal(t, http.StatusOK, res.StatusCode)
		assert.NotEmpty(t, res.Header.Get(RequestIDHeader))
		created = decodeBook(t, data)
		assert.Greater(t, created.ID, int64(0))

		res, data = doRequest(t, http.MethodGet, srv.URL+"/api.books/"+strconv.FormatInt(created.ID, 10), "")
		require.Equal(t, http.StatusOK, res.StatusCode)
		got := decodeBook(t, data)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "Go", got.Title)
		assert.Equal(t, "Rob", got.Author)
		assert.True(t, decimal.RequireFromString("9.99").Equal(got.Price))
	})

	t.Run("list contains created books", func(t *testing.T) {
		res, _ := doRequest(t, http.MethodPost, srv.URL+"/api.books", `{"title":"C","author":"Dennis","price":15}`)
		require.Equal(t, http.StatusOK, res.StatusCode)

		res, data := doRequest(t, http.MethodGet, srv.URL+"/api.books", "")
		require.Equal(t, http.StatusOK, res.StatusCode)
		var books []Book
		require.NoError(t, json.Unmarshal(data, &books))
		require.Len(t, books, 2)
		assert.Equal(t, "Go", books[0].Title)
		assert.Equal(t, "C", books[1].Title)
	})

	t.Run("update keeps the id", func(t *testing.T) {
		url := srv.URL + "/api.books/" + strconv.FormatInt(created.ID, 10)
		res, data := doRequest(t, http.MethodPut, url, `{"id":500,"title":"Go 2","author":"Rob P.","price":"11.50"}`)
		require.Equal(t, http.StatusOK, res.StatusCode)
		updated := decodeBook(t, data)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "Go 2", updated.Title)

		res, data = doRequest(t, http.MethodGet, url, "")
		require.Equal(t, http.StatusOK, res.StatusCode)
		got := decodeBook(t, data)
		assert.Equal(t, "Rob P.", got.Author)
		assert.True(t, decimal.RequireFromString("11.5").Equal(got.Price))
	})

	t.Run("update missing book answers 404", func(t *testing.T) {
		res, data := doRequest(t, http.MethodPut, srv.URL+"/api.books/9999", `{"title":"ghost"}`)
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
		assert.Contains(t, string(data), "book does not exist")

		_, data = doRequest(t, http.MethodGet, srv.URL+"/api.books", "")
		assert.NotContains(t, string(data), "ghost")
	})

	t.Run("delete then get answers 404", func(t *testing.T) {
		url := srv.URL + "/api.books/" + strconv.FormatInt(created.ID, 10)
		res, data := doRequest(t, http.MethodDelete, url, "")
		require.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "Book deleted successfully!", string(data))
		assert.Equal(t, "true", res.Header.Get(BookExistedHeader))

		res, _ = doRequest(t, http.MethodGet, url, "")
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		url := srv.URL + "/api.books/" + strconv.FormatInt(created.ID, 10)
		res, data := doRequest(t, http.MethodDelete, url, "")
		require.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "Book deleted successfully!", string(data))
		assert.Equal(t, "false", res.Header.Get(BookExistedHeader))
	})

	t.Run("invalid inputs answer 400", func(t *testing.T) {
		res, _ := doRequest(t, http.MethodGet, srv.URL+"/api.books/abc", "")
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)

		res, _ = doRequest(t, http.MethodPost, srv.URL+"/api.books", `not json`)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	})

	t.Run("maintenance mode blocks public routes only", func(t *testing.T) {
		res, _ := doRequest(t, http.MethodGet, srv.URL+"/ops/maintenance?status=enable&msg=upgrade", "")
		require.Equal(t, http.StatusOK, res.StatusCode)

		res, data := doRequest(t, http.MethodGet, srv.URL+"/api.books", "")
		assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
		assert.Contains(t, string(data), "upgrade")

		res, _ = doRequest(t, http.MethodGet, srv.URL+"/ops/stats", "")
		assert.Equal(t, http.StatusOK, res.StatusCode)

		res, _ = doRequest(t, http.MethodGet, srv.URL+"/ops/maintenance?status=disable", "")
		require.Equal(t, http.StatusOK, res.StatusCode)

		res, _ = doRequest(t, http.MethodGet, srv.URL+"/api.books", "")
		assert.Equal(t, http.StatusOK, res.StatusCode)
	})

	t.Run("stats are recorded", func(t *testing.T) {
		api.stats.mu.RLock()
		defer api.stats.mu.RUnlock()
		assert.Greater(t, api.stats.status[http.StatusOK], uint64(0))
		assert.Greater(t, api.stats.status[http.StatusNotFound], uint64(0))
		assert.Greater(t, api.stats.status[http.StatusServiceUnavailable], uint64(0))
	})
}

// TestBooksAPI_NullOnMissing ensures missing books are answered with null when configured so.
func TestBooksAPI_NullOnMissing(t *testing.T) {
	srv, _ := newTestServer(t, &Config{API: APIConfig{NullOnMissing: true}})

	res, data := doRequest(t, http.MethodGet, srv.URL+"/api.books/9999", "")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "null", strings.TrimSpace(string(data)))

	res, data = doRequest(t, http.MethodPut, srv.URL+"/api.books/9999", `{"title":"ghost"}`)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "null", strings.TrimSpace(string(data)))

	res, data = doRequest(t, http.MethodGet, srv.URL+"/api.books", "")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "[]", strings.TrimSpace(string(data)))
}
