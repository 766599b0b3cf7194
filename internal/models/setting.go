package models

import "gorm.io/datatypes"

// OperatingHour is the opening window for one weekday.
type OperatingHour struct {
	Day       string `json:"day" binding:"required,weekday"`
	StartTime string `json:"startTime" binding:"required_unless=IsClosed true"`
	EndTime   string `json:"endTime" binding:"required_unless=IsClosed true"`
	IsClosed  bool   `json:"isClosed"`
}

// AppointmentType is a bookable service. Duration is in minutes.
type AppointmentType struct {
	Name     string  `json:"name" binding:"required"`
	Duration int     `json:"duration" binding:"required,gt=0"`
	Price    float64 `json:"price" binding:"gte=0"`
}

// Reminder describes a notification sent ahead of an appointment.
type Reminder struct {
	Type                  string `json:"type" binding:"required,reminder_type"`
	TimeBeforeAppointment int    `json:"timeBeforeAppointment" binding:"required,gt=0"`
	Message               string `json:"message" binding:"required"`
}

// Setting is the clinic-wide configuration. The unique Singleton column keeps
// the table at zero or one row.
type Setting struct {
	Base
	Singleton        bool                                `gorm:"uniqueIndex;not null" json:"-"`
	OperatingHours   datatypes.JSONSlice[OperatingHour]   `json:"operatingHours"`
	AppointmentTypes datatypes.JSONSlice[AppointmentType] `json:"appointmentTypes"`
	Reminders        datatypes.JSONSlice[Reminder]        `json:"reminders"`
}
