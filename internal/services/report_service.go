package services

import (
	"gorm.io/gorm"

	apperrors "clinic/internal/errors"
	"clinic/internal/export"
	"clinic/internal/models"
)

// reportService builds read-only aggregate reports.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// GetAppointmentReport counts every appointment and lists them with clients.
func (s *reportService) GetAppointmentReport() (*AppointmentReport, error) {
	var appts []models.Appointment
	if err := s.db.Order("start_time ASC").Find(&appts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(appts) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrNotFound, "No appointments found.")
	}

	views, err := expandAppointments(s.db, appts)
	if err != nil {
		return nil, err
	}
	return &AppointmentReport{TotalAppointments: len(views), Appointments: views}, nil
}

// GetPaymentReport sums the amount of every invoice regardless of status.
func (s *reportService) GetPaymentReport() (*PaymentReport, error) {
	invoices, err := s.allInvoices()
	if err != nil {
		return nil, err
	}
	if len(invoices) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrNotFound, "No invoices found.")
	}

	var total float64
	for _, inv := range invoices {
		total += inv.Amount
	}
	return &PaymentReport{TotalPayments: total, Invoices: invoices}, nil
}

// GetClientReport counts and lists every client.
func (s *reportService) GetClientReport() (*ClientReport, error) {
	var clients []models.Client
	if err := s.db.Order("created_at ASC").Find(&clients).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if len(clients) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrNotFound, "No clients found.")
	}
	return &ClientReport{TotalClients: len(clients), Clients: clients}, nil
}

// ExportPayments renders every invoice into an .xlsx workbook. An empty
// workbook with only the header and totals is returned when there are none.
func (s *reportService) ExportPayments() ([]byte, error) {
	invoices, err := s.allInvoices()
	if err != nil {
		return nil, err
	}
	data, err := export.PaymentsWorkbook(invoices)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return data, nil
}

func (s *reportService) allInvoices() ([]models.InvoiceView, error) {
	var invoices []models.Invoice
	if err := s.db.Order("date_issued ASC").Find(&invoices).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expandInvoices(s.db, invoices)
}
