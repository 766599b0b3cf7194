package models

// PatientHistory links a client to a stored document (scan, lab result, etc).
type PatientHistory struct {
	Base
	ClientID string `gorm:"type:uuid;not null;index" json:"clientId"`
	FileID   string `gorm:"not null" json:"fileId"`
	FileType string `gorm:"not null" json:"fileType"`
	Notes    string `json:"notes"`
}
