package experience

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/sahan-dev/portfolio-backend/internal/sitecache"
)

type store interface {
	List(ctx context.Context) ([]Entry, error)
	Create(ctx context.Context, in EntryInput) (*Entry, error)
	Update(ctx context.Context, id int64, in EntryInput) (*Entry, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type pageCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, v any) error
	Invalidate(ctx context.Context, keys ...string)
}

type Handler struct {
	store store
	cache pageCache
}

func Register(pub, adm *gin.RouterGroup, s store, cache pageCache) {
	h := &Handler{store: s, cache: cache}

	pub.GET("", h.list)

	adm.POST("", h.create)
	adm.PUT("/:id", h.update)
	adm.DELETE("/:id", h.delete)
}

type entryReq struct {
	Company      string   `json:"company"`
	Role         string   `json:"role"`
	Location     string   `json:"location"`
	StartDate    string   `json:"start_date"` // YYYY-MM-DD
	EndDate      string   `json:"end_date"`   // YYYY-MM-DD, empty = current
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	SortOrder    int      `json:"sort_order"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

const dateLayout = "2006-01-02"

func (req *entryReq) validate() (EntryInput, []fieldError) {
	var errs []fieldError

	req.Company = strings.TrimSpace(req.Company)
	req.Role = strings.TrimSpace(req.Role)
	req.Description = strings.TrimSpace(req.Description)

	if req.Company == "" {
		errs = append(errs, fieldError{"company", "company is required"})
	}
	if req.Role == "" {
		errs = append(errs, fieldError{"role", "role is required"})
	}
	if req.Description == "" {
		errs = append(errs, fieldError{"description", "description is required"})
	}

	var in EntryInput
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		errs = append(errs, fieldError{"start_date", "start_date must be YYYY-MM-DD"})
	} else {
		in.StartDate = start
	}

	if req.EndDate != "" {
		end, err := time.Parse(dateLayout, req.EndDate)
		if err != nil {
			errs = append(errs, fieldError{"end_date", "end_date must be YYYY-MM-DD"})
		} else if !in.StartDate.IsZero() && end.Before(in.StartDate) {
			errs = append(errs, fieldError{"end_date", "end_date must not be before start_date"})
		} else {
			in.EndDate = &end
		}
	}

	if req.Technologies == nil {
		req.Technologies = []string{}
	}

	in.Company = req.Company
	in.Role = req.Role
	in.Location = strings.TrimSpace(req.Location)
	in.Description = req.Description
	in.Technologies = req.Technologies
	in.SortOrder = req.SortOrder

	return in, errs
}

func (h *Handler) list(c *gin.Context) {
	if h.cache != nil {
		var cached []Entry
		if ok, _ := h.cache.Get(c.Request.Context(), sitecache.KeyExperiences, &cached); ok {
			c.JSON(http.StatusOK, gin.H{"success": true, "data": cached})
			return
		}
	}

	items, err := h.store.List(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("list experiences")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to load experiences"})
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(c.Request.Context(), sitecache.KeyExperiences, items); err != nil {
			log.Warn().Err(err).Msg("cache set")
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": items})
}

func (h *Handler) create(c *gin.Context) {
	var req entryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid JSON body"})
		return
	}
	in, errs := req.validate()
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "validation failed", "errors": errs})
		return
	}

	e, err := h.store.Create(c.Request.Context(), in)
	if err != nil {
		log.Error().Err(err).Msg("create experience")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to create experience"})
		return
	}

	h.invalidate(c)
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": e})
}

func (h *Handler) update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid experience id"})
		return
	}

	var req entryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid JSON body"})
		return
	}
	in, errs := req.validate()
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "validation failed", "errors": errs})
		return
	}

	e, err := h.store.Update(c.Request.Context(), id, in)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "experience not found"})
			return
		}
		log.Error().Err(err).Int64("id", id).Msg("update experience")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to update experience"})
		return
	}

	h.invalidate(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": e})
}

func (h *Handler) delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid experience id"})
		return
	}

	ok, err := h.store.Delete(c.Request.Context(), id)
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("delete experience")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to delete experience"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "experience not found"})
		return
	}

	h.invalidate(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) invalidate(c *gin.Context) {
	if h.cache != nil {
		h.cache.Invalidate(c.Request.Context(), sitecache.KeyExperiences)
	}
}
