package handlers

import (
	"HealthFirst/middlewares"
	"HealthFirst/services"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AvailabilityHandler struct {
	service services.AvailabilityService
}

func NewAvailabilityHandler(service services.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

func (h *AvailabilityHandler) CreateAvailability(c *gin.Context) {
	var in services.AvailabilityInput
	if !bindJSON(c, &in) {
		return
	}

	slot, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{
		"message":         "Availability slot created successfully.",
		"availability_id": slot.ID,
	}, http.StatusOK)
}

// ListAvailability lists the slots of provider_id, optionally on one date.
func (h *AvailabilityHandler) ListAvailability(c *gin.Context) {
	providerID, err := uuid.Parse(c.Query("provider_id"))
	if err != nil {
		middlewares.HttpError(c, "provider_id query parameter must be a valid UUID", http.StatusBadRequest, err)
		return
	}

	slots, err := h.service.ListByProvider(c.Request.Context(), providerID, c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	middlewares.RespondSuccess(c, http.StatusOK, "Availability retrieved successfully", slots)
}

func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	slot, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	middlewares.RespondJSON(c, slot, http.StatusOK)
}

func (h *AvailabilityHandler) UpdateAvailability(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var in services.AvailabilityInput
	if !bindJSON(c, &in) {
		return
	}

	slot, err := h.service.Update(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	middlewares.RespondJSON(c, slot, http.StatusOK)
}

func (h *AvailabilityHandler) DeleteAvailability(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	middlewares.RespondJSON(c, gin.H{"message": "Availability deleted"}, http.StatusOK)
}
