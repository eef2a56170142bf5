package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/nutrisnap/internal/domain/session"
)

// ListHistory returns past analyses, most recent first.
func (h *Handler) ListHistory(c *gin.Context) {
	resp, err := h.historySvc.List(c.Request.Context())
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetPreferences returns the calorie goal and meal-plan category of the session.
func (h *Handler) GetPreferences(c *gin.Context) {
	resp, err := h.sessionSvc.Get(c.Request.Context(), sessionID(c))
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdatePreferences applies a partial preferences update.
func (h *Handler) UpdatePreferences(c *gin.Context) {
	var req session.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, invalidRequest(err))
		return
	}
	resp, err := h.sessionSvc.Update(c.Request.Context(), sessionID(c), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}
