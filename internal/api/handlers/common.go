package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dislogroup/salesflow/internal/models"
	"github.com/dislogroup/salesflow/internal/services"
	"github.com/dislogroup/salesflow/internal/utils"
)

type APIError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
	// Seconds the client should wait before retrying; set on 503 only.
	RetryAfter string `json:"retry_after,omitempty"`
}

const upstreamRetryAfter = "30"

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)

	var ae *utils.AppError
	if errors.As(err, &ae) {
		out := APIError{Code: ae.Code, Message: ae.Message}
		if ae.Code == utils.CodeUnavailable {
			out.RetryAfter = upstreamRetryAfter
			c.Header("Retry-After", upstreamRetryAfter)
		}
		c.JSON(status, out)
		return
	}

	c.JSON(status, APIError{
		Code:    utils.CodeInternal,
		Message: http.StatusText(status),
	})
}

// requireUsername returns the authenticated caller's username or fails the
// request with 401.
func requireUsername(c *gin.Context) (string, bool) {
	if v, ok := c.Get("user_id"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}

	writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "unauthorized", nil))
	return "", false
}

// loadActor resolves the authenticated caller to their full user record.
func loadActor(c *gin.Context, users services.UserService) (*models.User, bool) {
	username, ok := requireUsername(c)
	if !ok {
		return nil, false
	}

	actor, err := users.GetByUsername(c.Request.Context(), username)
	if err != nil {
		writeError(c, err)
		return nil, false
	}
	return actor, true
}

// optionalUsername never fails; anonymous callers get "".
func optionalUsername(c *gin.Context) string {
	if v, ok := c.Get("user_id"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
