// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"clinic/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("appointment_status", validateAppointmentStatus)
		_ = v.RegisterValidation("invoice_status", validateInvoiceStatus)
		_ = v.RegisterValidation("weekday", validateWeekday)
		_ = v.RegisterValidation("reminder_type", validateReminderType)
	}
}

func validateAppointmentStatus(fl validator.FieldLevel) bool {
	return models.AppointmentStatus(fl.Field().String()).IsValid()
}

func validateInvoiceStatus(fl validator.FieldLevel) bool {
	return models.InvoiceStatus(fl.Field().String()).IsValid()
}

func validateWeekday(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday":
		return true
	}
	return false
}

func validateReminderType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "email", "sms":
		return true
	}
	return false
}
