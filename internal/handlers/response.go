package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GenerationFailure is the failure envelope for generation endpoints.
type GenerationFailure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func RespondGenerationError(c *gin.Context, status int, err error, details string) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, GenerationFailure{Success: false, Error: msg, Details: details})
}

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
