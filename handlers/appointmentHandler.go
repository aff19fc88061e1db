package handlers

import (
	"HealthFirst/middlewares"
	"HealthFirst/models"
	"HealthFirst/services"
	"HealthFirst/utils"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AppointmentResponse flattens an appointment and the names of its parties.
type AppointmentResponse struct {
	ID                  uuid.UUID                `json:"id"`
	PatientID           uuid.UUID                `json:"patient_id"`
	PatientName         string                   `json:"patient_name"`
	ProviderID          uuid.UUID                `json:"provider_id"`
	ProviderName        string                   `json:"provider_name"`
	AppointmentMode     models.AppointmentMode   `json:"appointment_mode"`
	AppointmentType     string                   `json:"appointment_type"`
	EstimatedAmount     *float64                 `json:"estimated_amount,omitempty"`
	AppointmentDateTime time.Time                `json:"appointment_date_time"`
	ReasonForVisit      string                   `json:"reason_for_visit"`
	Status              models.AppointmentStatus `json:"status"`
	CreatedAt           time.Time                `json:"created_at"`
	UpdatedAt           time.Time                `json:"updated_at"`
}

func newAppointmentResponse(a models.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:                  a.ID,
		PatientID:           a.PatientID,
		PatientName:         a.Patient.FullName(),
		ProviderID:          a.ProviderID,
		ProviderName:        a.Provider.FullName(),
		AppointmentMode:     a.AppointmentMode,
		AppointmentType:     a.AppointmentType,
		EstimatedAmount:     a.EstimatedAmount,
		AppointmentDateTime: a.AppointmentDateTime,
		ReasonForVisit:      a.ReasonForVisit,
		Status:              a.Status,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	}
}

func newAppointmentResponses(appointments []models.Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(appointments))
	for _, a := range appointments {
		out = append(out, newAppointmentResponse(a))
	}
	return out
}

type AppointmentHandler struct {
	service services.AppointmentService
}

func NewAppointmentHandler(service services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

func (h *AppointmentHandler) BookAppointment(c *gin.Context) {
	var in services.BookAppointmentInput
	if !bindJSON(c, &in) {
		return
	}

	appointment, err := h.service.Book(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	middlewares.RespondSuccess(c, http.StatusCreated, "Appointment booked successfully", gin.H{
		"appointment_id":        appointment.ID,
		"patient_name":          appointment.Patient.FullName(),
		"provider_name":         appointment.Provider.FullName(),
		"appointment_date_time": appointment.AppointmentDateTime,
		"appointment_mode":      appointment.AppointmentMode,
		"appointment_type":      appointment.AppointmentType,
		"status":                appointment.Status,
	})
}

func (h *AppointmentHandler) GetAllAppointments(c *gin.Context) {
	appointments, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	middlewares.RespondSuccess(c, http.StatusOK, "Appointments retrieved successfully", newAppointmentResponses(appointments))
}

func (h *AppointmentHandler) GetAppointmentsByPatient(c *gin.Context) {
	patientID, ok := uuidParam(c, "patientId")
	if !ok {
		return
	}

	appointments, err := h.service.ListByPatient(c.Request.Context(), patientID)
	if err != nil {
		respondError(c, err)
		return
	}
	middlewares.RespondSuccess(c, http.StatusOK, "Patient appointments retrieved successfully", newAppointmentResponses(appointments))
}

// GetAppointmentsByProvider lists a provider's appointments, optionally
// limited to the from/to query range.
func (h *AppointmentHandler) GetAppointmentsByProvider(c *gin.Context) {
	providerID, ok := uuidParam(c, "providerId")
	if !ok {
		return
	}
	from, ok := timeQuery(c, "from")
	if !ok {
		return
	}
	to, ok := timeQuery(c, "to")
	if !ok {
		return
	}

	appointments, err := h.service.ListByProvider(c.Request.Context(), providerID, from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	middlewares.RespondSuccess(c, http.StatusOK, "Provider appointments retrieved successfully", newAppointmentResponses(appointments))
}

func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	id, ok := uuidParam(c, "appointmentId")
	if !ok {
		return
	}

	appointment, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	middlewares.RespondSuccess(c, http.StatusOK, "Appointment retrieved successfully", newAppointmentResponse(*appointment))
}

func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	id, ok := uuidParam(c, "appointmentId")
	if !ok {
		return
	}
	status := c.Query("status")
	if status == "" {
		middlewares.HttpError(c, "status query parameter is required", http.StatusBadRequest, nil)
		return
	}

	appointment, err := h.service.UpdateStatus(c.Request.Context(), id, status)
	if err != nil {
		respondError(c, err)
		return
	}
	middlewares.RespondSuccess(c, http.StatusOK, "Appointment status updated successfully", newAppointmentResponse(*appointment))
}

func timeQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := utils.ParseDateTime(raw)
	if err != nil {
		middlewares.HttpError(c, name+" "+err.Error(), http.StatusBadRequest, err)
		return nil, false
	}
	return &t, true
}
