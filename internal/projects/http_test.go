package projects

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahan-dev/portfolio-backend/internal/sitecache"
)

type fakeStore struct {
	items  []Project
	nextID int64
}

func (f *fakeStore) List(_ context.Context, featuredOnly bool) ([]Project, error) {
	if !featuredOnly {
		return f.items, nil
	}
	var out []Project
	for _, p := range f.items {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) Get(_ context.Context, id int64) (*Project, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			return &f.items[i], nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) Create(_ context.Context, in ProjectInput) (*Project, error) {
	f.nextID++
	p := Project{ID: f.nextID, Title: in.Title, Description: in.Description, Tags: in.Tags, Featured: in.Featured}
	f.items = append(f.items, p)
	return &p, nil
}

func (f *fakeStore) Update(_ context.Context, id int64, in ProjectInput) (*Project, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Title = in.Title
			f.items[i].Description = in.Description
			return &f.items[i], nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) Delete(_ context.Context, id int64) (bool, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// fakeCache records operations; Get always misses unless primed.
type fakeCache struct {
	data        map[string][]byte
	invalidated []string
}

func (f *fakeCache) Get(_ context.Context, key string, dest any) (bool, error) {
	raw, ok := f.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (f *fakeCache) Set(_ context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if f.data == nil {
		f.data = make(map[string][]byte)
	}
	f.data[key] = raw
	return nil
}

func (f *fakeCache) Invalidate(_ context.Context, keys ...string) {
	f.invalidated = append(f.invalidated, keys...)
	for _, k := range keys {
		delete(f.data, k)
	}
}

func setupRouter(s store, cache pageCache) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	Register(router.Group("/api/projects"), router.Group("/api/projects"), s, cache)
	return router
}

func TestList_PopulatesCache(t *testing.T) {
	f := &fakeStore{items: []Project{{ID: 1, Title: "peep", Tags: []string{"go"}}}}
	cache := &fakeCache{}
	router := setupRouter(f, cache)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/projects", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, cache.data, sitecache.KeyProjects)
}

func TestList_ServesFromCache(t *testing.T) {
	cache := &fakeCache{}
	require.NoError(t, cache.Set(context.Background(), sitecache.KeyProjects, []Project{{ID: 9, Title: "cached"}}))

	// empty store: a hit proves the cache answered
	router := setupRouter(&fakeStore{}, cache)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/projects", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "cached")
}

func TestList_FeaturedFilter(t *testing.T) {
	f := &fakeStore{items: []Project{
		{ID: 1, Title: "plain"},
		{ID: 2, Title: "starred", Featured: true},
	}}
	router := setupRouter(f, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/projects?featured=true", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "starred")
	assert.NotContains(t, rr.Body.String(), "plain")
}

func TestCreate_ValidationErrors(t *testing.T) {
	f := &fakeStore{}
	router := setupRouter(f, nil)

	body := `{"title":"","description":"","github_url":"not-a-url"}`
	req := httptest.NewRequest("POST", "/api/projects", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, f.items)

	var resp struct {
		Errors []fieldError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	fields := make([]string, 0, len(resp.Errors))
	for _, e := range resp.Errors {
		fields = append(fields, e.Field)
	}
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "description")
	assert.Contains(t, fields, "github_url")
}

func TestCreate_InvalidatesCache(t *testing.T) {
	f := &fakeStore{}
	cache := &fakeCache{}
	router := setupRouter(f, cache)

	body := `{"title":"peep","description":"a deploy tool","tags":["go"]}`
	req := httptest.NewRequest("POST", "/api/projects", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Contains(t, cache.invalidated, sitecache.KeyProjects)
	assert.Contains(t, cache.invalidated, sitecache.KeyProjectsFeatured)
}

func TestGet_NotFound(t *testing.T) {
	router := setupRouter(&fakeStore{}, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/projects/42", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/projects/not-a-number", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDelete(t *testing.T) {
	f := &fakeStore{items: []Project{{ID: 5, Title: "old"}}}
	router := setupRouter(f, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("DELETE", "/api/projects/5", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, f.items)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("DELETE", "/api/projects/5", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
