package admins

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahan-dev/portfolio-backend/internal/auth"
)

type fakeStore struct {
	byUID  map[string]*Admin
	logins []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{byUID: make(map[string]*Admin)}
}

func (f *fakeStore) Ensure(_ context.Context, u UpsertAdmin) (*Admin, error) {
	a, ok := f.byUID[u.ProviderUID]
	if !ok {
		a = &Admin{ID: "row-" + u.ProviderUID, ProviderUID: u.ProviderUID}
		f.byUID[u.ProviderUID] = a
	}
	a.Email = u.Email
	return a, nil
}

func (f *fakeStore) GetByProviderUID(_ context.Context, uid string) (*Admin, error) {
	a, ok := f.byUID[uid]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

func (f *fakeStore) RecordLogin(_ context.Context, uid string) error {
	f.logins = append(f.logins, uid)
	return nil
}

// setupRouter mounts the sync/me routes behind a stub that plays the part of
// RequireAuth by seeding the verified identity into the request context.
func setupRouter(f *fakeStore, allowedEmails, uid, email string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	h := NewHandler(f, allowedEmails)
	grp := router.Group("/api/admin", func(c *gin.Context) {
		c.Set(auth.CtxProviderUID, uid)
		c.Set(auth.CtxEmail, email)
	})
	h.Register(grp)
	h.RegisterProtected(grp)
	return router
}

func postSync(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/admin/sync", strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestSync_AllowListedEmailProvisionsAdmin(t *testing.T) {
	f := newFakeStore()
	router := setupRouter(f, "sahan@example.com, other@example.com", "uid-1", "sahan@example.com")

	rr := postSync(router, "")

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, f.byUID, "uid-1")
	assert.Equal(t, "sahan@example.com", f.byUID["uid-1"].Email)
	assert.Equal(t, []string{"uid-1"}, f.logins)
}

func TestSync_AllowListIsCaseInsensitive(t *testing.T) {
	f := newFakeStore()
	router := setupRouter(f, "sahan@example.com", "uid-1", "Sahan@Example.com")

	rr := postSync(router, "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestSync_UnlistedEmailRejected(t *testing.T) {
	f := newFakeStore()
	router := setupRouter(f, "sahan@example.com", "uid-2", "intruder@example.com")

	rr := postSync(router, "")

	require.Equal(t, http.StatusForbidden, rr.Code)
	assert.Empty(t, f.byUID)
	assert.Empty(t, f.logins)
}

func TestSync_ExistingAdminSurvivesAllowListRemoval(t *testing.T) {
	f := newFakeStore()
	f.byUID["uid-3"] = &Admin{ID: "row-uid-3", ProviderUID: "uid-3", Email: "former@example.com"}

	// allow-list no longer contains the account
	router := setupRouter(f, "someone-else@example.com", "uid-3", "former@example.com")

	rr := postSync(router, "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestSync_ProfileBody(t *testing.T) {
	f := newFakeStore()
	router := setupRouter(f, "sahan@example.com", "uid-4", "sahan@example.com")

	rr := postSync(router, `{"display_name":"Sahan","photo_url":"https://example.com/p.png"}`)
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestMe(t *testing.T) {
	f := newFakeStore()
	f.byUID["uid-5"] = &Admin{ID: "row-uid-5", ProviderUID: "uid-5", Email: "sahan@example.com"}
	router := setupRouter(f, "sahan@example.com", "uid-5", "sahan@example.com")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/admin/me", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "row-uid-5")
}

func TestMe_NotProvisioned(t *testing.T) {
	f := newFakeStore()
	router := setupRouter(f, "sahan@example.com", "uid-6", "sahan@example.com")

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/api/admin/me", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
