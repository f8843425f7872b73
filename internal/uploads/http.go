package uploads

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const maxUploadBytes = 5 << 20 // 5 MiB

// extByType maps accepted sniffed content types to object-key extensions.
var extByType = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type objectStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

type Handler struct {
	store objectStore
}

func Register(rg *gin.RouterGroup, store objectStore) {
	h := &Handler{store: store}
	rg.POST("", h.upload)
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"success": false, "error": "file exceeds the 5 MiB limit"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "a \"file\" form field is required"})
		return
	}
	defer file.Close()

	if header.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"success": false, "error": "file exceeds the 5 MiB limit"})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "failed to read file"})
		return
	}

	// Trust the bytes, not the client-declared content type.
	contentType := http.DetectContentType(data)
	ext, ok := extByType[contentType]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "only png, jpeg, webp and gif images are accepted"})
		return
	}

	key := "uploads/" + uuid.New().String() + ext
	url, err := h.store.Put(c.Request.Context(), key, contentType, bytes.NewReader(data))
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("upload to object store")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to store file"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": gin.H{"url": url, "key": key}})
}
