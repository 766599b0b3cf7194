package services

import (
	"context"
	"io"

	"clinic/internal/models"
	"clinic/internal/pagination"
)

// UserServicer defines the contract for staff accounts and credentials.
type UserServicer interface {
	CreateUser(name, email, password string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	AttemptLogin(email, password string) (*models.User, error)
	UpdateProfile(userID, name, email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
	ClearRefreshToken(userID string) error
	CreateResetCode(email string) (string, error)
	ResetPassword(email, code, newPassword string) error
}

// ClientInput carries the writable fields of a client.
type ClientInput struct {
	Name        string
	Email       string
	Age         int
	PhoneNumber string
}

// ClientServicer defines the contract for client (patient) records.
type ClientServicer interface {
	CreateClient(input ClientInput) (*models.Client, error)
	UpdateClient(id string, input ClientInput) (*models.Client, error)
	DeleteClient(id string) error
	SearchClients(name, email string) ([]models.Client, error)
	ListClients(page pagination.PageRequest) (*pagination.Page[models.Client], error)
	GetClientByID(id string) (*models.Client, error)
}

// AppointmentInput carries appointment fields as received from the client.
// Start and End are unparsed so date validation lives in one place.
type AppointmentInput struct {
	Title    string
	ClientID string
	Location string
	Start    string
	End      string
	Notes    *string
	Status   models.AppointmentStatus
}

// AppointmentServicer defines the contract for appointment scheduling.
type AppointmentServicer interface {
	CreateAppointment(input AppointmentInput) (*models.Appointment, error)
	UpdateAppointment(id string, input AppointmentInput) (*models.Appointment, error)
	DeleteAppointment(id string) error
	GetAppointmentsInWindow(days int) ([]models.Appointment, error)
	GetClientAppointments(clientID string) ([]models.Appointment, error)
}

// InvoiceServicer defines the contract for invoicing. Reads expand the client.
type InvoiceServicer interface {
	CreateInvoice(clientID, location string, amount float64) (*models.InvoiceView, error)
	UpdateInvoiceStatus(id string, status models.InvoiceStatus) (*models.InvoiceView, error)
	DeleteInvoice(id string) error
	GetInvoices() ([]models.InvoiceView, error)
	GetClientInvoices(clientID string) ([]models.InvoiceView, error)
	GetInvoiceByID(id string) (*models.InvoiceView, error)
}

// HistoryUpload describes a document to store for a client.
type HistoryUpload struct {
	ClientID    string
	Notes       string
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// HistoryServicer defines the contract for patient history records and their files.
type HistoryServicer interface {
	CreateHistory(clientID, fileID, fileType, notes string) (*models.PatientHistory, error)
	UploadHistory(ctx context.Context, upload HistoryUpload) (*models.PatientHistory, error)
	GetHistories(page pagination.PageRequest) (*pagination.Page[models.PatientHistory], error)
	GetClientHistories(clientID string) ([]models.PatientHistory, error)
	GetDownloadURL(ctx context.Context, id string) (string, error)
	DeleteHistory(ctx context.Context, id string) error
}

// SettingsPatch holds the sections to replace. Nil sections keep their prior value.
type SettingsPatch struct {
	OperatingHours   *[]models.OperatingHour
	AppointmentTypes *[]models.AppointmentType
	Reminders        *[]models.Reminder
}

// SettingServicer defines the contract for the singleton clinic settings.
type SettingServicer interface {
	CreateSettings(patch SettingsPatch) (*models.Setting, error)
	UpdateSettings(patch SettingsPatch) (*models.Setting, error)
	GetSettings() (*models.Setting, error)
}

// AppointmentReport lists every appointment with its client.
type AppointmentReport struct {
	TotalAppointments int                      `json:"totalAppointments"`
	Appointments      []models.AppointmentView `json:"appointments"`
}

// PaymentReport sums the amount of every invoice.
type PaymentReport struct {
	TotalPayments float64              `json:"totalPayments"`
	Invoices      []models.InvoiceView `json:"invoices"`
}

// ClientReport lists every client.
type ClientReport struct {
	TotalClients int             `json:"totalClients"`
	Clients      []models.Client `json:"clients"`
}

// ReportServicer defines the contract for read-only aggregate reports.
type ReportServicer interface {
	GetAppointmentReport() (*AppointmentReport, error)
	GetPaymentReport() (*PaymentReport, error)
	GetClientReport() (*ClientReport, error)
	ExportPayments() ([]byte, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
