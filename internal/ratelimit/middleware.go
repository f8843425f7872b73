package ratelimit

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// Registry holds one limiter per traffic class.
type Registry struct {
	General *Limiter
	Admin   *Limiter
	Contact *Limiter
	Upload  *Limiter
}

func NewRegistry(general, admin, contact, upload Config) *Registry {
	return &Registry{
		General: New(general),
		Admin:   New(admin),
		Contact: New(contact),
		Upload:  New(upload),
	}
}

// Select picks the limiter for a request path.
// /api/contact* -> contact form, /api/upload* -> uploads,
// /api/projects*, /api/experiences* and any /admin segment -> admin API,
// everything else -> general API.
func (reg *Registry) Select(path string) *Limiter {
	switch {
	case strings.HasPrefix(path, "/api/contact"):
		return reg.Contact
	case strings.HasPrefix(path, "/api/upload"):
		return reg.Upload
	case strings.HasPrefix(path, "/api/projects"),
		strings.HasPrefix(path, "/api/experiences"),
		strings.Contains(path, "/admin/"),
		strings.HasSuffix(path, "/admin"):
		return reg.Admin
	default:
		return reg.General
	}
}

// CleanupAll runs the housekeeping pass on every limiter instance.
func (reg *Registry) CleanupAll() {
	reg.General.Cleanup()
	reg.Admin.Cleanup()
	reg.Contact.Cleanup()
	reg.Upload.Cleanup()
}

// Middleware enforces the per-class limits ahead of the API handlers and
// reports the limiter state in X-RateLimit-* headers on every response.
func (reg *Registry) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := reg.Select(c.Request.URL.Path)
		res := limiter.Check(ClientIdentifier(c.Request))

		c.Writer.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Writer.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Writer.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt, 10))

		if !res.Allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "Too Many Requests",
				"message": "Rate limit exceeded. Please try again later.",
			})
			return
		}

		c.Next()
	}
}
