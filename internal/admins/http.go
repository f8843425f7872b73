package admins

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/sahan-dev/portfolio-backend/internal/auth"
)

// store is what the handlers need from the repository.
type store interface {
	Ensure(ctx context.Context, u UpsertAdmin) (*Admin, error)
	GetByProviderUID(ctx context.Context, uid string) (*Admin, error)
	RecordLogin(ctx context.Context, uid string) error
}

type Handler struct {
	store store
	// allowed holds lowercased emails permitted to provision an admin row.
	allowed map[string]bool
}

func NewHandler(s store, allowedEmails string) *Handler {
	allowed := make(map[string]bool)
	for _, e := range strings.Split(allowedEmails, ",") {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			allowed[e] = true
		}
	}
	return &Handler{store: s, allowed: allowed}
}

// Register mounts the sync/profile routes. The group must already run
// RequireAuth; Sync deliberately sits outside RequireAdmin because it is the
// call that creates the admin row in the first place.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/sync", h.sync)
}

func (h *Handler) RegisterProtected(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
}

// sync provisions or refreshes the admin row from the verified token.
// Replaces the identity provider's webhook delivery in the original system.
func (h *Handler) sync(c *gin.Context) {
	uid := auth.ProviderUID(c)
	email := auth.Email(c)
	if uid == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "user not authenticated"})
		return
	}

	var body struct {
		DisplayName string `json:"display_name,omitempty"`
		PhotoURL    string `json:"photo_url,omitempty"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid JSON body"})
			return
		}
	}

	if !h.allowed[strings.ToLower(email)] {
		// Existing admins keep access even if the allow-list changed.
		if _, err := h.store.GetByProviderUID(c.Request.Context(), uid); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "account is not an admin"})
			return
		}
	}

	admin, err := h.store.Ensure(c.Request.Context(), UpsertAdmin{
		ProviderUID: uid,
		Email:       email,
		DisplayName: body.DisplayName,
		PhotoURL:    body.PhotoURL,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to sync admin"})
		return
	}

	if err := h.store.RecordLogin(c.Request.Context(), uid); err != nil {
		log.Warn().Err(err).Str("provider_uid", uid).Msg("record login")
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": admin})
}

func (h *Handler) me(c *gin.Context) {
	admin, err := h.store.GetByProviderUID(c.Request.Context(), auth.ProviderUID(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "admin not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": admin})
}
