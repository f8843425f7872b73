package contact

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type store interface {
	Create(ctx context.Context, in Submission) (*Message, error)
	List(ctx context.Context, unreadOnly bool) ([]Message, error)
	GetAndMarkRead(ctx context.Context, id int64) (*Message, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type Handler struct {
	store store
}

// Register mounts the public form endpoint on pub and the message-management
// endpoints on adm.
func Register(pub, adm *gin.RouterGroup, s store) {
	h := &Handler{store: s}

	pub.POST("", h.submit)

	adm.GET("", h.list)
	adm.GET("/:id", h.get)
	adm.DELETE("/:id", h.delete)
}

type submitReq struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (h *Handler) submit(c *gin.Context) {
	var req submitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid JSON body"})
		return
	}

	sub, errs := ValidateSubmission(req.Name, req.Email, req.Subject, req.Message)
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "validation failed", "errors": errs})
		return
	}

	m, err := h.store.Create(c.Request.Context(), sub)
	if err != nil {
		log.Error().Err(err).Msg("store contact message")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to send message"})
		return
	}

	log.Info().Int64("id", m.ID).Msg("contact message received")
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Message sent. Thank you for reaching out!"})
}

func (h *Handler) list(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"

	items, err := h.store.List(c.Request.Context(), unreadOnly)
	if err != nil {
		log.Error().Err(err).Msg("list contact messages")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to load messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": items})
}

// get returns one message and marks it read as a side effect.
func (h *Handler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid message id"})
		return
	}

	m, err := h.store.GetAndMarkRead(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "message not found"})
			return
		}
		log.Error().Err(err).Int64("id", id).Msg("get contact message")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to load message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": m})
}

func (h *Handler) delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid message id"})
		return
	}

	ok, err := h.store.Delete(c.Request.Context(), id)
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("delete contact message")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to delete message"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "message not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
