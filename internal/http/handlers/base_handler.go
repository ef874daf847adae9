// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"roam/internal/modules/format"
	"roam/internal/modules/history"
	"roam/internal/modules/usage"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeChatError(c *gin.Context, err error) {
	var absent *format.FieldAbsentError
	switch {
	case errors.Is(err, usage.ErrInsufficientLookups):
		writeError(c, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, history.ErrNoIntent):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.As(err, &absent):
		writeError(c, http.StatusNotFound, absent.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
