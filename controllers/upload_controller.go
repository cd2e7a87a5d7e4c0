package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"socialnet-api/logger"
	"socialnet-api/storage"
	"socialnet-api/utils"
)

type UploadController struct {
	store    storage.PhotoStore
	maxBytes int64
}

// NewUploadController accepts a nil store; uploads then answer 503.
func NewUploadController(store storage.PhotoStore, maxBytes int64) *UploadController {
	return &UploadController{store: store, maxBytes: maxBytes}
}

// UploadPhoto stores the multipart "file" field and returns its public URL.
// Only image/* parts up to maxBytes are accepted.
func (uc *UploadController) UploadPhoto(c *gin.Context) {
	if uc.store == nil {
		utils.SendError(c, http.StatusServiceUnavailable, "Uploads disabled", "Photo storage is not configured")
		return
	}
	if uc.maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, uc.maxBytes+1<<20)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.SendError(c, http.StatusRequestEntityTooLarge, "File too large", "Photo exceeds the upload limit")
			return
		}
		badRequest(c, "Missing file")
		return
	}
	if uc.maxBytes > 0 && fh.Size > uc.maxBytes {
		utils.SendError(c, http.StatusRequestEntityTooLarge, "File too large", "Photo exceeds the upload limit")
		return
	}
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		badRequest(c, "Only image uploads are accepted")
		return
	}

	f, err := fh.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	url, err := uc.store.Upload(c.Request.Context(), fh.Filename, f, fh.Size, contentType)
	if err != nil {
		respondError(c, err)
		return
	}
	logger.Info("photo uploaded", zap.String("user_id", principal(c)), zap.String("url", url))
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
