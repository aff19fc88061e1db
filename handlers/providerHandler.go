package handlers

import (
	"HealthFirst/middlewares"
	"HealthFirst/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ProviderHandler struct {
	service services.ProviderService
}

func NewProviderHandler(service services.ProviderService) *ProviderHandler {
	return &ProviderHandler{service: service}
}

// Register creates a provider account in PENDING verification.
func (h *ProviderHandler) Register(c *gin.Context) {
	var in services.RegisterProviderInput
	if !bindJSON(c, &in) {
		return
	}

	provider, err := h.service.Register(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	middlewares.RespondSuccess(c, http.StatusCreated, "Provider registered successfully. Verification email sent.", gin.H{
		"provider_id":         provider.ID,
		"email":               provider.Email,
		"verification_status": provider.VerificationStatus,
	})
}

func (h *ProviderHandler) Login(c *gin.Context) {
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

func (h *ProviderHandler) VerifyEmail(c *gin.Context) {
	if err := h.service.VerifyEmail(c.Request.Context(), c.Query("token")); err != nil {
		respondError(c, err)
		return
	}
	middlewares.RespondSuccess(c, http.StatusOK, "Email verified successfully", nil)
}

func (h *ProviderHandler) ForgotPassword(c *gin.Context) {
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

func (h *ProviderHandler) ResetPassword(c *gin.Context) {
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

func (h *ProviderHandler) GetProviderByID(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	provider, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	middlewares.RespondSuccess(c, http.StatusOK, "Provider retrieved successfully", provider)
}

// UpdateVerificationStatus sets PENDING, VERIFIED or REJECTED on a provider.
func (h *ProviderHandler) UpdateVerificationStatus(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var body struct {
		VerificationStatus string `json:"verification_status" binding:"required"`
	}
	if !bindJSON(c, &body) {
		return
	}

	provider, err := h.service.UpdateVerificationStatus(c.Request.Context(), id, body.VerificationStatus)
	if err != nil {
		respondError(c, err)
		return
	}
	middlewares.RespondSuccess(c, http.StatusOK, "Verification status updated successfully", provider)
}
