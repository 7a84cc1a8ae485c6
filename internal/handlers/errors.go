package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/civic-polls/backend/internal/auth"
	"github.com/emilythestrangee/civic-polls/backend/internal/store"
)

var errMalformedBody = errors.New("malformed request body")

// respondError writes err as {status, message} and aborts the chain.
func respondError(c *gin.Context, err error) {
	status, message := http.StatusInternalServerError, "Internal Server Error"

	var verr *store.ValidationError
	switch {
	case errors.As(err, &verr):
		status, message = http.StatusBadRequest, verr.Error()
	case errors.Is(err, errMalformedBody), errors.Is(err, store.ErrInvalidPatch):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, store.ErrEmailTaken), errors.Is(err, store.ErrDuplicateVote):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidToken):
		status, message = http.StatusUnauthorized, err.Error()
	default:
		slog.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	}

	c.AbortWithStatusJSON(status, gin.H{
		"status":  status,
		"message": message,
	})
}

// bindJSON decodes the request body into dst, answering 400 when it cannot.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, fmt.Errorf("%w: %v", errMalformedBody, err))
		return false
	}
	return true
}

// patchFromBody turns the raw request body into a merge over the stored record.
func patchFromBody(c *gin.Context) (store.Patch, bool) {
	body, err := c.GetRawData()
	if err != nil {
		respondError(c, fmt.Errorf("%w: %v", errMalformedBody, err))
		return nil, false
	}
	return func(dst any) error {
		return json.Unmarshal(body, dst)
	}, true
}
