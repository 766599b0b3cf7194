package models

import "time"

// InvoiceStatus represents the payment state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "Pending"
	InvoiceStatusPaid    InvoiceStatus = "Paid"
)

// IsValid reports whether s is a known invoice status.
func (s InvoiceStatus) IsValid() bool {
	return s == InvoiceStatusPending || s == InvoiceStatusPaid
}

// Invoice is a bill issued to a client. DatePaid is set iff Status is Paid.
type Invoice struct {
	Base
	ClientID   string        `gorm:"type:uuid;not null;index" json:"clientId"`
	Location   string        `gorm:"not null" json:"location"`
	Amount     float64       `gorm:"not null" json:"amount"`
	Status     InvoiceStatus `gorm:"not null;default:'Pending'" json:"status"`
	DateIssued time.Time     `gorm:"not null" json:"dateIssued"`
	DatePaid   *time.Time    `json:"datePaid"`
}

// InvoiceView is an invoice with its client expanded. Client is nil when the
// referenced client has since been deleted.
type InvoiceView struct {
	Invoice
	Client *Client `json:"client"`
}
