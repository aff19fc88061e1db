package handlers

import (
	"HealthFirst/middlewares"
	"HealthFirst/services"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// statusFor maps a service error kind to an HTTP status code.
func statusFor(kind services.Kind) int {
	switch kind {
	case services.KindInvalidArgument:
		return http.StatusBadRequest
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindUnauthorized:
		return http.StatusUnauthorized
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as a failed envelope. Internal errors are logged
// and replaced by a generic message.
func respondError(c *gin.Context, err error) {
	status := statusFor(services.KindOf(err))
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}
	middlewares.HttpError(c, message, status, err)
}

func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		middlewares.HttpError(c, "Invalid request body", http.StatusBadRequest, err)
		return false
	}
	return true
}

// uuidParam parses the named path parameter, answering 400 when it is not a UUID.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		middlewares.HttpError(c, "Invalid "+name, http.StatusBadRequest, err)
		return uuid.Nil, false
	}
	return id, true
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

func newTokenResponse(result *services.LoginResult) tokenResponse {
	return tokenResponse{
		AccessToken: result.AccessToken,
		ExpiresIn:   int(result.ExpiresIn.Seconds()),
		TokenType:   "Bearer",
	}
}
