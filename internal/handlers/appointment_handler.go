package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clinic/internal/models"
	"clinic/internal/services"
)

// AppointmentHandler handles appointment-related requests.
type AppointmentHandler struct {
	appointmentService services.AppointmentServicer
	auditService       services.AuditServicer
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(appointmentService services.AppointmentServicer, auditService services.AuditServicer) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: appointmentService, auditService: auditService}
}

// AppointmentRequest represents the payload for creating or updating an
// appointment. Start and end accept RFC 3339 or YYYY-MM-DD[THH:MM[:SS]].
type AppointmentRequest struct {
	Title    string                   `json:"title" binding:"max=200"`
	ClientID string                   `json:"clientId" binding:"omitempty,uuid"`
	Location string                   `json:"location" binding:"max=200"`
	Start    string                   `json:"start"`
	End      string                   `json:"end"`
	Notes    *string                  `json:"notes" binding:"omitempty,max=2000"`
	Status   models.AppointmentStatus `json:"status" binding:"omitempty,appointment_status"`
}

func (r AppointmentRequest) input() services.AppointmentInput {
	return services.AppointmentInput{
		Title:    r.Title,
		ClientID: r.ClientID,
		Location: r.Location,
		Start:    r.Start,
		End:      r.End,
		Notes:    r.Notes,
		Status:   r.Status,
	}
}

// CreateAppointment handles appointment creation
// @Summary     Create an appointment
// @Tags        appointments
// @Accept      json
// @Produce     json
// @Security    CookieAuth
// @Param       request body AppointmentRequest true "Appointment details"
// @Success     201 {object} SuccessResponse "Appointment added"
// @Failure     400 {object} ErrorResponse "Invalid input or dates"
// @Failure     404 {object} ErrorResponse "Client not found"
// @Router      /appointments [post]
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req AppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	appt, err := h.appointmentService.CreateAppointment(req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, http.StatusCreated, gin.H{"appointment": appt}, "Appointment added successfully")
}

// UpdateAppointment handles appointment updates
// @Summary     Update an appointment
// @Tags        appointments
// @Accept      json
// @Produce     json
// @Security    CookieAuth
// @Param       id path string true "Appointment ID"
// @Param       request body AppointmentRequest true "Appointment details; start and end required"
// @Success     200 {object} SuccessResponse "Appointment updated"
// @Failure     400 {object} ErrorResponse "Invalid input or dates"
// @Failure     404 {object} ErrorResponse "Appointment not found"
// @Router      /appointments/{id} [put]
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	appt, err := h.appointmentService.UpdateAppointment(id, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, http.StatusOK, gin.H{"appointment": appt}, "Appointment updated successfully")
}

// DeleteAppointment handles appointment deletion
// @Summary     Delete an appointment
// @Tags        appointments
// @Produce     json
// @Security    CookieAuth
// @Param       id path string true "Appointment ID"
// @Success     200 {object} SuccessResponse "Appointment deleted"
// @Failure     404 {object} ErrorResponse "Appointment not found"
// @Router      /appointments/{id} [delete]
func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.appointmentService.DeleteAppointment(id); err != nil {
		respondWithError(c, err)
		return
	}

	userID, _ := getUserID(c)
	h.auditService.Log(userID, services.AuditActionDeleteAppt, "appointment", id, c.ClientIP(), nil)
	respondWithSuccess(c, http.StatusOK, nil, "Appointment deleted successfully")
}

// GetAppointments lists appointments around today
// @Summary     List appointments by date window
// @Description Appointments starting within the given number of days before or after now
// @Tags        appointments
// @Produce     json
// @Security    CookieAuth
// @Param       days query int false "Window half-width in days (default 10)"
// @Success     200 {object} SuccessResponse "Appointments"
// @Failure     400 {object} ErrorResponse "Invalid days"
// @Router      /appointments [get]
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	days, err := services.ParseDays(c.Query("days"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	appts, err := h.appointmentService.GetAppointmentsInWindow(days)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if appts == nil {
		appts = []models.Appointment{}
	}
	respondWithSuccess(c, http.StatusOK, gin.H{"appointments": appts}, "Appointments fetched successfully")
}

// GetClientAppointments lists a client's appointments
// @Summary     List appointments of a client
// @Tags        appointments
// @Produce     json
// @Security    CookieAuth
// @Param       clientId path string true "Client ID"
// @Success     200 {object} SuccessResponse "Appointments"
// @Failure     404 {object} ErrorResponse "No appointments found"
// @Router      /appointments/client/{clientId} [get]
func (h *AppointmentHandler) GetClientAppointments(c *gin.Context) {
	clientID, err := parsePathID(c, "clientId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	appts, err := h.appointmentService.GetClientAppointments(clientID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, http.StatusOK, gin.H{"appointments": appts}, "Appointments fetched successfully")
}
