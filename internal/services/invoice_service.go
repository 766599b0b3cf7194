package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "clinic/internal/errors"
	"clinic/internal/models"
)

// invoiceService handles invoice-related business logic.
type invoiceService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewInvoiceService creates a new InvoiceServicer.
func NewInvoiceService(db *gorm.DB) InvoiceServicer {
	return &invoiceService{db: db, now: time.Now}
}

// CreateInvoice issues a pending invoice to an existing client
func (s *invoiceService) CreateInvoice(clientID, location string, amount float64) (*models.InvoiceView, error) {
	location = strings.TrimSpace(location)
	if clientID == "" || location == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Client ID, location, and amount are required.")
	}
	if amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}
	if err := requireClient(s.db, clientID); err != nil {
		return nil, err
	}

	inv := &models.Invoice{
		ClientID:   clientID,
		Location:   location,
		Amount:     amount,
		Status:     models.InvoiceStatusPending,
		DateIssued: s.now().UTC(),
	}
	if err := s.db.Create(inv).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.expandOne(inv)
}

// UpdateInvoiceStatus moves an invoice between Pending and Paid. Paying sets
// DatePaid unless the invoice was already paid; reverting to Pending clears it.
func (s *invoiceService) UpdateInvoiceStatus(id string, status models.InvoiceStatus) (*models.InvoiceView, error) {
	if !status.IsValid() {
		return nil, apperrors.ErrInvalidInvoiceStatus
	}

	inv, err := s.getInvoice(id)
	if err != nil {
		return nil, err
	}

	switch status {
	case models.InvoiceStatusPaid:
		if inv.Status != models.InvoiceStatusPaid || inv.DatePaid == nil {
			paid := s.now().UTC()
			inv.DatePaid = &paid
		}
	case models.InvoiceStatusPending:
		inv.DatePaid = nil
	}
	inv.Status = status

	if err := s.db.Save(inv).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.expandOne(inv)
}

// DeleteInvoice removes an invoice
func (s *invoiceService) DeleteInvoice(id string) error {
	res := s.db.Where("id = ?", id).Delete(&models.Invoice{})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrInvoiceNotFound
	}
	return nil
}

// GetInvoices returns every invoice, newest first.
func (s *invoiceService) GetInvoices() ([]models.InvoiceView, error) {
	invoices, err := s.findInvoices(s.db)
	if err != nil {
		return nil, err
	}
	if len(invoices) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvoiceNotFound, "No invoices found.")
	}
	return expandInvoices(s.db, invoices)
}

// GetClientInvoices returns the invoices issued to a client, newest first.
func (s *invoiceService) GetClientInvoices(clientID string) ([]models.InvoiceView, error) {
	invoices, err := s.findInvoices(s.db.Where("client_id = ?", clientID))
	if err != nil {
		return nil, err
	}
	if len(invoices) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvoiceNotFound, "No invoices found for this client.")
	}
	return expandInvoices(s.db, invoices)
}

// GetInvoiceByID retrieves an invoice with its client
func (s *invoiceService) GetInvoiceByID(id string) (*models.InvoiceView, error) {
	inv, err := s.getInvoice(id)
	if err != nil {
		return nil, err
	}
	return s.expandOne(inv)
}

func (s *invoiceService) findInvoices(q *gorm.DB) ([]models.Invoice, error) {
	var invoices []models.Invoice
	if err := q.Order("date_issued DESC").Find(&invoices).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return invoices, nil
}

func (s *invoiceService) getInvoice(id string) (*models.Invoice, error) {
	var inv models.Invoice
	if err := s.db.Where("id = ?", id).First(&inv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvoiceNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &inv, nil
}

func (s *invoiceService) expandOne(inv *models.Invoice) (*models.InvoiceView, error) {
	views, err := expandInvoices(s.db, []models.Invoice{*inv})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// expandInvoices attaches each invoice's client using one batched lookup.
func expandInvoices(db *gorm.DB, invoices []models.Invoice) ([]models.InvoiceView, error) {
	ids := make([]string, len(invoices))
	for i, inv := range invoices {
		ids[i] = inv.ClientID
	}
	clients, err := loadClients(db, ids)
	if err != nil {
		return nil, err
	}

	views := make([]models.InvoiceView, len(invoices))
	for i, inv := range invoices {
		views[i] = models.InvoiceView{Invoice: inv, Client: clients[inv.ClientID]}
	}
	return views, nil
}
