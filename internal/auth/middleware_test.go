package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	token *fbauth.Token
	err   error
}

func (f *fakeVerifier) VerifyIDToken(context.Context, string) (*fbauth.Token, error) {
	return f.token, f.err
}

type fakeChecker struct {
	adminID string
	err     error
}

func (f *fakeChecker) AdminIDByProviderUID(context.Context, string) (string, error) {
	return f.adminID, f.err
}

func setupRouter(verifier TokenVerifier, checker AdminChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	grp := router.Group("/secure", RequireAuth(verifier))
	if checker != nil {
		grp.Use(RequireAdmin(checker))
	}
	grp.GET("", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": ProviderUID(c), "email": Email(c), "admin_id": AdminID(c)})
	})
	return router
}

func do(router *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/secure", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	router := setupRouter(&fakeVerifier{}, nil)
	rr := do(router, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	router := setupRouter(&fakeVerifier{}, nil)
	rr := do(router, "Token abc123")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	router := setupRouter(&fakeVerifier{err: errors.New("expired")}, nil)
	rr := do(router, "Bearer bad-token")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireAuth_Valid(t *testing.T) {
	verifier := &fakeVerifier{token: &fbauth.Token{
		UID:    "uid-1",
		Claims: map[string]any{"email": "sahan@example.com"},
	}}
	router := setupRouter(verifier, nil)

	rr := do(router, "Bearer good-token")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "uid-1")
	assert.Contains(t, rr.Body.String(), "sahan@example.com")
}

func TestRequireAdmin_NotAnAdmin(t *testing.T) {
	verifier := &fakeVerifier{token: &fbauth.Token{UID: "uid-2"}}
	router := setupRouter(verifier, &fakeChecker{err: errors.New("not found")})

	rr := do(router, "Bearer good-token")
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRequireAdmin_Allowed(t *testing.T) {
	verifier := &fakeVerifier{token: &fbauth.Token{UID: "uid-3"}}
	router := setupRouter(verifier, &fakeChecker{adminID: "row-uuid"})

	rr := do(router, "Bearer good-token")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "row-uuid")
}
