package controllers

import (
	"HealthFirst/handlers"

	"github.com/gin-gonic/gin"
)

type PatientController struct {
	Handler *handlers.PatientHandler
}

func NewPatientController(patientHandler *handlers.PatientHandler) *PatientController {
	return &PatientController{Handler: patientHandler}
}

// RegisterRoutes mounts the patient account routes under /patient.
func (pc *PatientController) RegisterRoutes(api *gin.RouterGroup) {
	patients := api.Group("/patient")
	{
		patients.POST("/register", pc.Handler.Register)
		patients.POST("/login", pc.Handler.Login)
		patients.GET("/verify-email", pc.Handler.VerifyEmail)
		patients.POST("/forgot-password", pc.Handler.ForgotPassword)
		patients.POST("/reset-password", pc.Handler.ResetPassword)
		patients.GET("/:id", pc.Handler.GetPatientByID)
	}
}
