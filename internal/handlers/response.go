package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scholarmate/scholarmate-backend/internal/apperrors"
)

// Every JSON response uses one of two envelopes:
//
//	{"success": true,  "data": ...}
//	{"success": false, "error": "...", "statusCode": 4xx}
type SuccessEnvelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Message string `json:"message,omitempty"`
}

type ErrorEnvelope struct {
	Success    bool   `json:"success"`
	Error      string `json:"error"`
	StatusCode int    `json:"statusCode"`
}

func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, SuccessEnvelope{Success: true, Data: data})
}

func RespondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, SuccessEnvelope{Success: true, Data: data})
}

func RespondList(c *gin.Context, count int, data any) {
	c.JSON(http.StatusOK, SuccessEnvelope{Success: true, Count: &count, Data: data})
}

func RespondMessage(c *gin.Context, data any, message string) {
	c.JSON(http.StatusOK, SuccessEnvelope{Success: true, Data: data, Message: message})
}

func RespondError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := "internal server error"
	if err != nil && status < http.StatusInternalServerError {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{Success: false, Error: msg, StatusCode: status})
}

func RespondBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorEnvelope{
		Success:    false,
		Error:      msg,
		StatusCode: http.StatusBadRequest,
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
