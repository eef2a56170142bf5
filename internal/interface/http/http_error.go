package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yanqian/nutrisnap/pkg/errors"
)

// HTTPError captures the metadata required to serialize an error response consistently.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// NewHTTPError is a helper to build an HTTPError instance.
func NewHTTPError(status int, code, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Code: code, Message: message, Err: err}
}

// domainStatus maps AppError codes to response statuses. Unlisted codes are 500s.
var domainStatus = map[string]int{
	"invalid_input": http.StatusBadRequest,
	"not_found":     http.StatusNotFound,
	"voice_timeout": http.StatusRequestTimeout,
	"no_speech":     http.StatusUnprocessableEntity,
	"llm_error":     http.StatusBadGateway,
	"stt_error":     http.StatusBadGateway,
}

// asHTTPError accepts transport errors, domain errors and anything else.
// Foreign errors never expose their text to the client.
func asHTTPError(err error) *HTTPError {
	if err == nil {
		return nil
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return NewHTTPError(statusForCode(appErr.Code), appErr.Code, appErr.Message, err)
	}
	return NewHTTPError(http.StatusInternalServerError, "internal_error", "something went wrong", err)
}

func fromDomainError(err error) *HTTPError {
	return asHTTPError(err)
}

func statusForCode(code string) int {
	if status, ok := domainStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// invalidRequest reports a body that failed to bind.
func invalidRequest(err error) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, "invalid_request", err.Error(), err)
}

func abortWithError(c *gin.Context, err *HTTPError) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}
