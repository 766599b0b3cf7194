package models

import "time"

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "Pending"
	AppointmentStatusConfirmed AppointmentStatus = "Confirmed"
	AppointmentStatusCancelled AppointmentStatus = "Cancelled"
)

// IsValid reports whether s is a known appointment status.
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusCancelled:
		return true
	}
	return false
}

// Appointment is a scheduled visit. End is always after Start.
type Appointment struct {
	Base
	Title    string            `gorm:"not null" json:"title"`
	ClientID string            `gorm:"type:uuid;not null;index" json:"clientId"`
	Location string            `gorm:"not null" json:"location"`
	Start    time.Time         `gorm:"column:start_time;not null;index" json:"start"`
	End      time.Time         `gorm:"column:end_time;not null" json:"end"`
	Notes    string            `json:"notes"`
	Status   AppointmentStatus `gorm:"not null;default:'Pending'" json:"status"`
}

// AppointmentView is an appointment with its client expanded.
type AppointmentView struct {
	Appointment
	Client *Client `json:"client"`
}
