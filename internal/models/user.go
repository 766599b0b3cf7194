package models

import "time"

// User is a clinic staff account.
type User struct {
	Base
	Name                 string     `json:"name"`
	Email                string     `gorm:"uniqueIndex;not null" json:"email"`
	Password             string     `gorm:"not null" json:"-"`
	ResetPasswordCode    *string    `gorm:"size:64" json:"-"`
	ResetPasswordExpires *time.Time `json:"-"`
	// RefreshTokenHash holds the SHA-256 of the single refresh token in flight.
	// Logging in replaces it, which signs out other devices.
	RefreshTokenHash *string `gorm:"size:64" json:"-"`
}
