package controllers

import (
	"HealthFirst/handlers"

	"github.com/gin-gonic/gin"
)

func SetupAppointmentRoutes(api *gin.RouterGroup, appointmentHandler *handlers.AppointmentHandler) {
	appointments := api.Group("/appointments")
	{
		appointments.POST("/book", appointmentHandler.BookAppointment)
		appointments.GET("", appointmentHandler.GetAllAppointments)
		appointments.GET("/patient/:patientId", appointmentHandler.GetAppointmentsByPatient)
		appointments.GET("/provider/:providerId", appointmentHandler.GetAppointmentsByProvider)
		appointments.GET("/:appointmentId", appointmentHandler.GetAppointmentByID)
		appointments.PUT("/:appointmentId/status", appointmentHandler.UpdateAppointmentStatus)
	}
}
