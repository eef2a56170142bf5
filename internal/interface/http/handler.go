package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/nutrisnap/internal/domain/assistant"
	"github.com/yanqian/nutrisnap/internal/domain/history"
	"github.com/yanqian/nutrisnap/internal/domain/nutrition"
	"github.com/yanqian/nutrisnap/internal/domain/session"
	"github.com/yanqian/nutrisnap/internal/infra/config"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	nutritionSvc   nutrition.Service
	assistantSvc   assistant.Service
	historySvc     history.Service
	sessionSvc     session.Service
	maxUploadBytes int64
	maxAudioBytes  int64
	logger         *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(cfg *config.Config, nutritionSvc nutrition.Service, assistantSvc assistant.Service, historySvc history.Service, sessionSvc session.Service, logger *slog.Logger) *Handler {
	return &Handler{
		nutritionSvc:   nutritionSvc,
		assistantSvc:   assistantSvc,
		historySvc:     historySvc,
		sessionSvc:     sessionSvc,
		maxUploadBytes: cfg.HTTP.MaxUploadBytes,
		maxAudioBytes:  cfg.Speech.MaxAudioBytes,
		logger:         logger.With("component", "http.handler"),
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// readUpload returns the bytes of a single multipart file field capped at limit.
func readUpload(c *gin.Context, field string, limit int64) ([]byte, *multipart.FileHeader, *HTTPError) {
	if limit > 0 {
		// Leave room for the multipart envelope around the file itself.
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+64<<10)
	}
	fileHeader, err := c.FormFile(field)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, nil, tooLarge(field, limit, err)
		}
		return nil, nil, NewHTTPError(http.StatusBadRequest, "invalid_request", fmt.Sprintf("%s is required", field), err)
	}
	if limit > 0 && fileHeader.Size > limit {
		return nil, nil, tooLarge(field, limit, nil)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, nil, NewHTTPError(http.StatusBadRequest, "invalid_request", "failed to read upload", err)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, nil, NewHTTPError(http.StatusInternalServerError, "upload_failed", "failed to read file", err)
	}
	return data, fileHeader, nil
}

func tooLarge(field string, limit int64, err error) *HTTPError {
	return NewHTTPError(http.StatusRequestEntityTooLarge, "payload_too_large", fmt.Sprintf("%s exceeds %d bytes", field, limit), err)
}
