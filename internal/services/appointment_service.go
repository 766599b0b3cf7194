package services

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "clinic/internal/errors"
	"clinic/internal/models"
)

// DefaultWindowDays is the half-width of the appointment window when the
// caller does not supply one.
const DefaultWindowDays = 10

// dateLayouts are the accepted appointment timestamp formats. Layouts without
// a zone are read as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate parses an appointment timestamp and returns it in UTC.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperrors.ErrInvalidDate
}

// ParseDays parses the window half-width. An empty value yields the default;
// anything other than a positive integer is rejected.
func ParseDays(value string) (int, error) {
	if value == "" {
		return DefaultWindowDays, nil
	}
	days, err := strconv.Atoi(value)
	if err != nil || days <= 0 {
		return 0, apperrors.ErrInvalidDays
	}
	return days, nil
}

func parseRange(startValue, endValue string) (time.Time, time.Time, error) {
	start, err := ParseDate(startValue)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := ParseDate(endValue)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, apperrors.ErrInvalidDateRange
	}
	return start, end, nil
}

// appointmentService handles appointment-related business logic.
type appointmentService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewAppointmentService creates a new AppointmentServicer.
func NewAppointmentService(db *gorm.DB) AppointmentServicer {
	return &appointmentService{db: db, now: time.Now}
}

// CreateAppointment schedules a new appointment
func (s *appointmentService) CreateAppointment(input AppointmentInput) (*models.Appointment, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Location = strings.TrimSpace(input.Location)
	if input.Start == "" || input.End == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Title, client, location, start and end are required")
	}

	// Dates are checked before the other fields.
	start, end, err := parseRange(input.Start, input.End)
	if err != nil {
		return nil, err
	}
	if input.Title == "" || input.ClientID == "" || input.Location == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Title, client, location, start and end are required")
	}

	status := input.Status
	if status == "" {
		status = models.AppointmentStatusPending
	}
	if !status.IsValid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid appointment status")
	}

	if err := requireClient(s.db, input.ClientID); err != nil {
		return nil, err
	}

	appt := &models.Appointment{
		Title:    input.Title,
		ClientID: input.ClientID,
		Location: input.Location,
		Start:    start,
		End:      end,
		Status:   status,
	}
	if input.Notes != nil {
		appt.Notes = *input.Notes
	}

	if err := s.db.Create(appt).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return appt, nil
}

// UpdateAppointment reschedules an appointment. Start and end are always
// required; the remaining fields are replaced only when provided.
func (s *appointmentService) UpdateAppointment(id string, input AppointmentInput) (*models.Appointment, error) {
	if input.Start == "" || input.End == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Start and end dates are required")
	}
	start, end, err := parseRange(input.Start, input.End)
	if err != nil {
		return nil, err
	}
	if input.Status != "" && !input.Status.IsValid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid appointment status")
	}

	appt, err := s.getAppointment(id)
	if err != nil {
		return nil, err
	}

	if input.ClientID != "" && input.ClientID != appt.ClientID {
		if err := requireClient(s.db, input.ClientID); err != nil {
			return nil, err
		}
		appt.ClientID = input.ClientID
	}
	if title := strings.TrimSpace(input.Title); title != "" {
		appt.Title = title
	}
	if location := strings.TrimSpace(input.Location); location != "" {
		appt.Location = location
	}
	if input.Notes != nil {
		appt.Notes = *input.Notes
	}
	if input.Status != "" {
		appt.Status = input.Status
	}
	appt.Start = start
	appt.End = end

	if err := s.db.Save(appt).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return appt, nil
}

// DeleteAppointment removes an appointment
func (s *appointmentService) DeleteAppointment(id string) error {
	res := s.db.Where("id = ?", id).Delete(&models.Appointment{})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrAppointmentNotFound
	}
	return nil
}

// GetAppointmentsInWindow returns appointments starting within days of now,
// in either direction, ordered by start.
func (s *appointmentService) GetAppointmentsInWindow(days int) ([]models.Appointment, error) {
	if days <= 0 {
		return nil, apperrors.ErrInvalidDays
	}

	now := s.now().UTC()
	span := time.Duration(days) * 24 * time.Hour
	from, to := now.Add(-span), now.Add(span)

	var appts []models.Appointment
	if err := s.db.Where("start_time >= ? AND start_time <= ?", from, to).
		Order("start_time ASC").
		Find(&appts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return appts, nil
}

// GetClientAppointments returns every appointment of a client, ordered by start.
func (s *appointmentService) GetClientAppointments(clientID string) ([]models.Appointment, error) {
	var appts []models.Appointment
	if err := s.db.Where("client_id = ?", clientID).Order("start_time ASC").Find(&appts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(appts) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrAppointmentNotFound, "No appointments found for this client")
	}
	return appts, nil
}

func (s *appointmentService) getAppointment(id string) (*models.Appointment, error) {
	var appt models.Appointment
	if err := s.db.Where("id = ?", id).First(&appt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAppointmentNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &appt, nil
}

// expandAppointments attaches each appointment's client.
func expandAppointments(db *gorm.DB, appts []models.Appointment) ([]models.AppointmentView, error) {
	ids := make([]string, len(appts))
	for i, a := range appts {
		ids[i] = a.ClientID
	}
	clients, err := loadClients(db, ids)
	if err != nil {
		return nil, err
	}

	views := make([]models.AppointmentView, len(appts))
	for i, a := range appts {
		views[i] = models.AppointmentView{Appointment: a, Client: clients[a.ClientID]}
	}
	return views, nil
}
