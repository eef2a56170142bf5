package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/nutrisnap/internal/domain/assistant"
)

// AskQuestion answers a free-form health question.
func (h *Handler) AskQuestion(c *gin.Context) {
	var req assistant.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, invalidRequest(err))
		return
	}
	resp, err := h.assistantSvc.Ask(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AskByVoice transcribes a recorded question and answers it.
func (h *Handler) AskByVoice(c *gin.Context) {
	data, fileHeader, httpErr := readUpload(c, "audio", h.maxAudioBytes)
	if httpErr != nil {
		abortWithError(c, httpErr)
		return
	}
	resp, err := h.assistantSvc.VoiceAsk(c.Request.Context(), assistant.VoiceRequest{
		Audio:    data,
		MimeType: fileHeader.Header.Get("Content-Type"),
	})
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateMealPlan generates a one-day plan for the requested or preferred category.
func (h *Handler) CreateMealPlan(c *gin.Context) {
	var req assistant.MealPlanRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, invalidRequest(err))
			return
		}
	}
	req.SessionID = sessionID(c)
	resp, err := h.assistantSvc.MealPlan(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateDoctorPlan generates a daily, weekly or monthly health plan.
func (h *Handler) CreateDoctorPlan(c *gin.Context) {
	var req assistant.DoctorPlanRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, invalidRequest(err))
			return
		}
	}
	resp, err := h.assistantSvc.DoctorPlan(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}
