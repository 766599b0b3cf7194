package models

// Client is a patient of the clinic.
type Client struct {
	Base
	Name        string `gorm:"not null" json:"name"`
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	Age         int    `gorm:"not null" json:"age"`
	PhoneNumber string `gorm:"not null" json:"phoneNumber"`
}
