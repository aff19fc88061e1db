package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// rootHandler answers the health check on the root path
func rootHandler(c *gin.Context) {
	c.Status(http.StatusOK)

	if _, err := c.Writer.Write([]byte("HealthFirst API is running")); err != nil {
		log.Error().Err(err).Msg("Error writing root response")
	}
}

// SetupRootRoute sets up the health route
func SetupRootRoute(router *gin.Engine) {
	router.GET("/", rootHandler)
}
