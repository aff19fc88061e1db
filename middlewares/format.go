package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Envelope is the response body shared by the JSON endpoints.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// RespondJSON writes a JSON response to the client.
func RespondJSON(c *gin.Context, data interface{}, status int) {
	c.JSON(status, data)
}

// RespondSuccess writes a successful envelope.
func RespondSuccess(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{Success: true, Message: message, Data: data})
}

// HttpError logs an error and writes a failed envelope to the client.
func HttpError(c *gin.Context, message string, status int, err error) {
	event := log.Warn()
	if status >= 500 {
		event = log.Error()
	}
	event.Err(err).Int("status", status).Str("path", c.Request.URL.Path).Msg(message)
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, Envelope{Success: false, Message: message})
}
