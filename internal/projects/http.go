package projects

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/sahan-dev/portfolio-backend/internal/sitecache"
)

// store is what the handlers need from the repository.
type store interface {
	List(ctx context.Context, featuredOnly bool) ([]Project, error)
	Get(ctx context.Context, id int64) (*Project, error)
	Create(ctx context.Context, in ProjectInput) (*Project, error)
	Update(ctx context.Context, id int64, in ProjectInput) (*Project, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// pageCache mirrors the sitecache methods the public list handler uses.
type pageCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, v any) error
	Invalidate(ctx context.Context, keys ...string)
}

type Handler struct {
	store store
	cache pageCache
}

// Register mounts public reads on pub and admin writes on adm.
func Register(pub, adm *gin.RouterGroup, s store, cache pageCache) {
	h := &Handler{store: s, cache: cache}

	pub.GET("", h.list)
	pub.GET("/:id", h.get)

	adm.POST("", h.create)
	adm.PUT("/:id", h.update)
	adm.DELETE("/:id", h.delete)
}

type projectReq struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
	Tags        []string `json:"tags"`
	GithubURL   string   `json:"github_url"`
	LiveURL     string   `json:"live_url"`
	Featured    bool     `json:"featured"`
	SortOrder   int      `json:"sort_order"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (req *projectReq) validate() []fieldError {
	var errs []fieldError

	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)

	if req.Title == "" {
		errs = append(errs, fieldError{"title", "title is required"})
	} else if len(req.Title) > 200 {
		errs = append(errs, fieldError{"title", "title must be at most 200 characters"})
	}
	if req.Description == "" {
		errs = append(errs, fieldError{"description", "description is required"})
	}

	for _, f := range []struct {
		name, value string
	}{
		{"image_url", req.ImageURL},
		{"github_url", req.GithubURL},
		{"live_url", req.LiveURL},
	} {
		if f.value == "" {
			continue
		}
		if u, err := url.ParseRequestURI(f.value); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fieldError{f.name, "must be a valid http(s) URL"})
		}
	}

	if req.Tags == nil {
		req.Tags = []string{}
	}

	return errs
}

func (req *projectReq) input() ProjectInput {
	return ProjectInput{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Tags:        req.Tags,
		GithubURL:   req.GithubURL,
		LiveURL:     req.LiveURL,
		Featured:    req.Featured,
		SortOrder:   req.SortOrder,
	}
}

func (h *Handler) list(c *gin.Context) {
	featured := c.Query("featured") == "true"

	key := sitecache.KeyProjects
	if featured {
		key = sitecache.KeyProjectsFeatured
	}

	if h.cache != nil {
		var cached []Project
		if ok, _ := h.cache.Get(c.Request.Context(), key, &cached); ok {
			c.JSON(http.StatusOK, gin.H{"success": true, "data": cached})
			return
		}
	}

	items, err := h.store.List(c.Request.Context(), featured)
	if err != nil {
		log.Error().Err(err).Msg("list projects")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to load projects"})
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(c.Request.Context(), key, items); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("cache set")
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": items})
}

func (h *Handler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid project id"})
		return
	}

	p, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "project not found"})
			return
		}
		log.Error().Err(err).Int64("id", id).Msg("get project")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to load project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": p})
}

func (h *Handler) create(c *gin.Context) {
	var req projectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid JSON body"})
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "validation failed", "errors": errs})
		return
	}

	p, err := h.store.Create(c.Request.Context(), req.input())
	if err != nil {
		log.Error().Err(err).Msg("create project")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to create project"})
		return
	}

	h.invalidate(c)
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": p})
}

func (h *Handler) update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid project id"})
		return
	}

	var req projectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid JSON body"})
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "validation failed", "errors": errs})
		return
	}

	p, err := h.store.Update(c.Request.Context(), id, req.input())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "project not found"})
			return
		}
		log.Error().Err(err).Int64("id", id).Msg("update project")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to update project"})
		return
	}

	h.invalidate(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": p})
}

func (h *Handler) delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid project id"})
		return
	}

	ok, err := h.store.Delete(c.Request.Context(), id)
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("delete project")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to delete project"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "project not found"})
		return
	}

	h.invalidate(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) invalidate(c *gin.Context) {
	if h.cache != nil {
		h.cache.Invalidate(c.Request.Context(), sitecache.KeyProjects, sitecache.KeyProjectsFeatured)
	}
}
