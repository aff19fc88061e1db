package controllers

import (
	"HealthFirst/handlers"

	"github.com/gin-gonic/gin"
)

type ProviderController struct {
	Handler             *handlers.ProviderHandler
	AvailabilityHandler *handlers.AvailabilityHandler
}

func NewProviderController(providerHandler *handlers.ProviderHandler, availabilityHandler *handlers.AvailabilityHandler) *ProviderController {
	return &ProviderController{
		Handler:             providerHandler,
		AvailabilityHandler: availabilityHandler,
	}
}

// RegisterRoutes mounts the provider account and availability routes under
// /provider. The static availability paths take precedence over /:id.
func (pc *ProviderController) RegisterRoutes(api *gin.RouterGroup) {
	providers := api.Group("/provider")
	{
		providers.POST("/register", pc.Handler.Register)
		providers.POST("/login", pc.Handler.Login)
		providers.GET("/verify-email", pc.Handler.VerifyEmail)
		providers.POST("/forgot-password", pc.Handler.ForgotPassword)
		providers.POST("/reset-password", pc.Handler.ResetPassword)
		providers.GET("/:id", pc.Handler.GetProviderByID)
		providers.PUT("/:id/verification", pc.Handler.UpdateVerificationStatus)
	}

	availability := providers.Group("/availability")
	{
		availability.POST("", pc.AvailabilityHandler.CreateAvailability)
		availability.GET("", pc.AvailabilityHandler.ListAvailability)
		availability.GET("/:id", pc.AvailabilityHandler.GetAvailability)
		availability.PUT("/:id", pc.AvailabilityHandler.UpdateAvailability)
		availability.DELETE("/:id", pc.AvailabilityHandler.DeleteAvailability)
	}
}
