package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CtxProviderUID = "provider_uid"
	CtxEmail       = "email"
	CtxAdminID     = "admin_id"
)

// ProviderUID returns the identity-provider UID set by RequireAuth.
func ProviderUID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxProviderUID))
}

// Email returns the token email set by RequireAuth, if any.
func Email(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxEmail))
}

// AdminID returns the admins-table row id set by RequireAdmin.
func AdminID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxAdminID))
}
