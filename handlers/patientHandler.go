package handlers

import (
	"HealthFirst/middlewares"
	"HealthFirst/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	service services.PatientService
}

func NewPatientHandler(service services.PatientService) *PatientHandler {
	return &PatientHandler{service: service}
}

// Register creates a patient account and mails a verification link.
func (h *PatientHandler) Register(c *gin.Context) {
	var in services.RegisterPatientInput
	if !bindJSON(c, &in) {
		return
	}

	patient, err := h.service.Register(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	middlewares.RespondJSON(c, gin.H{
		"message":    "Patient registered successfully. Verification email sent.",
		"patient_id": patient.ID,
	}, http.StatusOK)
}

func (h *PatientHandler) Login(c *gin.Context) {
	var in services.LoginInput
	if !bindJSON(c, &in) {
		return
	}

	result, err := h.service.Login(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	middlewares.RespondSuccess(c, http.StatusOK, "Login successful", newTokenResponse(result))
}

func (h *PatientHandler) VerifyEmail(c *gin.Context) {
	if err := h.service.VerifyEmail(c.Request.Context(), c.Query("token")); err != nil {
		respondError(c, err)
		return
	}
	middlewares.RespondSuccess(c, http.StatusOK, "Email verified successfully", nil)
}

func (h *PatientHandler) ForgotPassword(c *gin.Context) {
	var in services.ForgotPasswordInput
	if !bindJSON(c, &in) {
		return
	}
	if err := h.service.RequestPasswordReset(c.Request.Context(), in); err != nil {
		respondError(c, err)
		return
	}
	middlewares.RespondSuccess(c, http.StatusOK, "If the email is registered, a reset code has been sent", nil)
}

func (h *PatientHandler) ResetPassword(c *gin.Context) {
	var in services.ResetPasswordInput
	if !bindJSON(c, &in) {
		return
	}
	if err := h.service.ResetPassword(c.Request.Context(), in); err != nil {
		respondError(c, err)
		return
	}
	middlewares.RespondSuccess(c, http.StatusOK, "Password reset successfully", nil)
}

func (h *PatientHandler) GetPatientByID(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	patient, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	middlewares.RespondSuccess(c, http.StatusOK, "Patient retrieved successfully", patient)
}
