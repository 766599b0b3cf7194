package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"clinic/internal/config"
	"clinic/internal/models"
	"clinic/internal/pagination"
	"clinic/internal/services"
	"clinic/internal/validator"
)

const (
	testUserID   = "0190c8a0-0000-7000-8000-0000000000aa"
	testClientID = "0190c8a0-0000-7000-8000-0000000000bb"
	testRecordID = "0190c8a0-0000-7000-8000-0000000000cc"
)

// --- mock services ---

type mockUserService struct {
	createUserFn            func(name, email, password string) (*models.User, error)
	getUserByIDFn           func(id string) (*models.User, error)
	attemptLoginFn          func(email, password string) (*models.User, error)
	updateProfileFn         func(userID, name, email, password string) (*models.User, error)
	storeRefreshTokenHashFn func(userID, tokenHash string) error
	getRefreshTokenHashFn   func(userID string) (string, error)
	clearRefreshTokenFn     func(userID string) error
	createResetCodeFn       func(email string) (string, error)
	resetPasswordFn         func(email, code, newPassword string) error
}

func (m *mockUserService) CreateUser(name, email, password string) (*models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(name, email, password)
	}
	return &models.User{Base: models.Base{ID: testUserID}, Name: name, Email: email}, nil
}

func (m *mockUserService) GetUserByEmail(email string) (*models.User, error) {
	return &models.User{Base: models.Base{ID: testUserID}, Email: email}, nil
}

func (m *mockUserService) GetUserByID(id string) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{Base: models.Base{ID: id}, Email: "staff@clinic.test"}, nil
}


func (m *mockUserService) AttemptLogin(email, password string) (*models.User, error) {
	if m.attemptLoginFn != nil {
		return m.attemptLoginFn(email, password)
	}
	return &models.User{Base: models.Base{ID: testUserID}, Email: email}, nil
}

func (m *mockUserService) UpdateProfile(userID, name, email, password string) (*models.User, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(userID, name, email, password)
	}
	return &models.User{Base: models.Base{ID: userID}, Name: name, Email: email}, nil
}

func (m *mockUserService) StoreRefreshTokenHash(userID, tokenHash string) error {
	if m.storeRefreshTokenHashFn != nil {
		return m.storeRefreshTokenHashFn(userID, tokenHash)
	}
	return nil
}

func (m *mockUserService) GetRefreshTokenHash(userID string) (string, error) {
	if m.getRefreshTokenHashFn != nil {
		return m.getRefreshTokenHashFn(userID)
	}
	return "", nil
}

func (m *mockUserService) ClearRefreshToken(userID string) error {
	if m.clearRefreshTokenFn != nil {
		return m.clearRefreshTokenFn(userID)
	}
	return nil
}

func (m *mockUserService) CreateResetCode(email string) (string, error) {
	if m.createResetCodeFn != nil {
		return m.createResetCodeFn(email)
	}
	return "123456", nil
}

func (m *mockUserService) ResetPassword(email, code, newPassword string) error {
	if m.resetPasswordFn != nil {
		return m.resetPasswordFn(email, code, newPassword)
	}
	return nil
}

type auditEntry struct {
	userID, action, resourceType, resourceID string
}

type mockAuditService struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (m *mockAuditService) Log(userID, action, resourceType, resourceID, _ string, _ map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, auditEntry{userID, action, resourceType, resourceID})
}

func (m *mockAuditService) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.action
	}
	return out
}

type mockMailer struct {
	err      error
	lastTo   string
	lastCode string
}

func (m *mockMailer) SendResetCode(_ context.Context, to, code string) error {
	m.lastTo, m.lastCode = to, code
	return m.err
}

type mockClientService struct {
	createFn  func(in services.ClientInput) (*models.Client, error)
	updateFn  func(id string, in services.ClientInput) (*models.Client, error)
	deleteFn  func(id string) error
	searchFn  func(name, email string) ([]models.Client, error)
	listFn    func(page pagination.PageRequest) (*pagination.Page[models.Client], error)
	getByIDFn func(id string) (*models.Client, error)
}

func (m *mockClientService) CreateClient(in services.ClientInput) (*models.Client, error) {
	if m.createFn != nil {
		return m.createFn(in)
	}
	return &models.Client{Base: models.Base{ID: testClientID}, Name: in.Name, Email: in.Email}, nil
}

func (m *mockClientService) UpdateClient(id string, in services.ClientInput) (*models.Client, error) {
	if m.updateFn != nil {
		return m.updateFn(id, in)
	}
	return &models.Client{Base: models.Base{ID: id}, Name: in.Name, Email: in.Email}, nil
}

func (m *mockClientService) DeleteClient(id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(id)
	}
	return nil
}

func (m *mockClientService) SearchClients(name, email string) ([]models.Client, error) {
	if m.searchFn != nil {
		return m.searchFn(name, email)
	}
	return []models.Client{}, nil
}

func (m *mockClientService) ListClients(page pagination.PageRequest) (*pagination.Page[models.Client], error) {
	if m.listFn != nil {
		return m.listFn(page)
	}
	p := pagination.NewPage([]models.Client{}, 1, 0, 0)
	return &p, nil
}

func (m *mockClientService) GetClientByID(id string) (*models.Client, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(id)
	}
	return &models.Client{Base: models.Base{ID: id}}, nil
}

type mockAppointmentService struct {
	createFn   func(in services.AppointmentInput) (*models.Appointment, error)
	updateFn   func(id string, in services.AppointmentInput) (*models.Appointment, error)
	deleteFn   func(id string) error
	windowFn   func(days int) ([]models.Appointment, error)
	byClientFn func(clientID string) ([]models.Appointment, error)
}

func (m *mockAppointmentService) CreateAppointment(in services.AppointmentInput) (*models.Appointment, error) {
	if m.createFn != nil {
		return m.createFn(in)
	}
	return &models.Appointment{Base: models.Base{ID: testRecordID}, Title: in.Title}, nil
}

func (m *mockAppointmentService) UpdateAppointment(id string, in services.AppointmentInput) (*models.Appointment, error) {
	if m.updateFn != nil {
		return m.updateFn(id, in)
	}
	return &models.Appointment{Base: models.Base{ID: id}, Title: in.Title}, nil
}

func (m *mockAppointmentService) DeleteAppointment(id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(id)
	}
	return nil
}

func (m *mockAppointmentService) GetAppointmentsInWindow(days int) ([]models.Appointment, error) {
	if m.windowFn != nil {
		return m.windowFn(days)
	}
	return nil, nil
}

func (m *mockAppointmentService) GetClientAppointments(clientID string) ([]models.Appointment, error) {
	if m.byClientFn != nil {
		return m.byClientFn(clientID)
	}
	return []models.Appointment{}, nil
}

type mockInvoiceService struct {
	createFn   func(clientID, location string, amount float64) (*models.InvoiceView, error)
	updateFn   func(id string, status models.InvoiceStatus) (*models.InvoiceView, error)
	deleteFn   func(id string) error
	listFn     func() ([]models.InvoiceView, error)
	byClientFn func(clientID string) ([]models.InvoiceView, error)
	getByIDFn  func(id string) (*models.InvoiceView, error)
}

func (m *mockInvoiceService) CreateInvoice(clientID, location string, amount float64) (*models.InvoiceView, error) {
	if m.createFn != nil {
		return m.createFn(clientID, location, amount)
	}
	return &models.InvoiceView{Invoice: models.Invoice{ClientID: clientID, Location: location, Amount: amount}}, nil
}

func (m *mockInvoiceService) UpdateInvoiceStatus(id string, status models.InvoiceStatus) (*models.InvoiceView, error) {
	if m.updateFn != nil {
		return m.updateFn(id, status)
	}
	return &models.InvoiceView{Invoice: models.Invoice{Base: models.Base{ID: id}, Status: status}}, nil
}

func (m *mockInvoiceService) DeleteInvoice(id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(id)
	}
	return nil
}

func (m *mockInvoiceService) GetInvoices() ([]models.InvoiceView, error) {
	if m.listFn != nil {
		return m.listFn()
	}
	return []models.InvoiceView{}, nil
}

func (m *mockInvoiceService) GetClientInvoices(clientID string) ([]models.InvoiceView, error) {
	if m.byClientFn != nil {
		return m.byClientFn(clientID)
	}
	return []models.InvoiceView{}, nil
}

func (m *mockInvoiceService) GetInvoiceByID(id string) (*models.InvoiceView, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(id)
	}
	return &models.InvoiceView{Invoice: models.Invoice{Base: models.Base{ID: id}}}, nil
}

type mockHistoryService struct {
	createFn   func(clientID, fileID, fileType, notes string) (*models.PatientHistory, error)
	uploadFn   func(ctx context.Context, upload services.HistoryUpload) (*models.PatientHistory, error)
	listFn     func(page pagination.PageRequest) (*pagination.Page[models.PatientHistory], error)
	byClientFn func(clientID string) ([]models.PatientHistory, error)
	downloadFn func(ctx context.Context, id string) (string, error)
	deleteFn   func(ctx context.Context, id string) error
}

func (m *mockHistoryService) CreateHistory(clientID, fileID, fileType, notes string) (*models.PatientHistory, error) {
	if m.createFn != nil {
		return m.createFn(clientID, fileID, fileType, notes)
	}
	return &models.PatientHistory{ClientID: clientID, FileID: fileID, FileType: fileType, Notes: notes}, nil
}

func (m *mockHistoryService) UploadHistory(ctx context.Context, upload services.HistoryUpload) (*models.PatientHistory, error) {
	if m.uploadFn != nil {
		return m.uploadFn(ctx, upload)
	}
	return &models.PatientHistory{ClientID: upload.ClientID}, nil
}

func (m *mockHistoryService) GetHistories(page pagination.PageRequest) (*pagination.Page[models.PatientHistory], error) {
	if m.listFn != nil {
		return m.listFn(page)
	}
	p := pagination.NewPage([]models.PatientHistory{}, 1, 0, 0)
	return &p, nil
}

func (m *mockHistoryService) GetClientHistories(clientID string) ([]models.PatientHistory, error) {
	if m.byClientFn != nil {
		return m.byClientFn(clientID)
	}
	return []models.PatientHistory{}, nil
}

func (m *mockHistoryService) GetDownloadURL(ctx context.Context, id string) (string, error) {
	if m.downloadFn != nil {
		return m.downloadFn(ctx, id)
	}
	return "http://files.local/" + id, nil
}

func (m *mockHistoryService) DeleteHistory(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

type mockSettingService struct {
	createFn func(patch services.SettingsPatch) (*models.Setting, error)
	updateFn func(patch services.SettingsPatch) (*models.Setting, error)
	getFn    func() (*models.Setting, error)
}

func (m *mockSettingService) CreateSettings(patch services.SettingsPatch) (*models.Setting, error) {
	if m.createFn != nil {
		return m.createFn(patch)
	}
	return &models.Setting{}, nil
}

func (m *mockSettingService) UpdateSettings(patch services.SettingsPatch) (*models.Setting, error) {
	if m.updateFn != nil {
		return m.updateFn(patch)
	}
	return &models.Setting{}, nil
}

func (m *mockSettingService) GetSettings() (*models.Setting, error) {
	if m.getFn != nil {
		return m.getFn()
	}
	return &models.Setting{}, nil
}

type mockReportService struct {
	appointmentsFn func() (*services.AppointmentReport, error)
	paymentsFn     func() (*services.PaymentReport, error)
	clientsFn      func() (*services.ClientReport, error)
	exportFn       func() ([]byte, error)
}

func (m *mockReportService) GetAppointmentReport() (*services.AppointmentReport, error) {
	if m.appointmentsFn != nil {
		return m.appointmentsFn()
	}
	return &services.AppointmentReport{}, nil
}

func (m *mockReportService) GetPaymentReport() (*services.PaymentReport, error) {
	if m.paymentsFn != nil {
		return m.paymentsFn()
	}
	return &services.PaymentReport{}, nil
}

func (m *mockReportService) GetClientReport() (*services.ClientReport, error) {
	if m.clientsFn != nil {
		return m.clientsFn()
	}
	return &services.ClientReport{}, nil
}

func (m *mockReportService) ExportPayments() ([]byte, error) {
	if m.exportFn != nil {
		return m.exportFn()
	}
	return []byte("xlsx"), nil
}

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
	config.Set(&config.Config{
		AccessTokenSecret:  "test-access-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenSecret: "test-refresh-secret",
		RefreshTokenExpiry: time.Hour,
		RegistrationSecret: "let-me-in",
	})
}

func injectUserID(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// assertErrorCode checks the error envelope of rec.
func assertErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if result["statusCode"] != float64(status) {
		t.Errorf("expected statusCode %d in body, got %v", status, result["statusCode"])
	}
	if result["code"] != code {
		t.Errorf("expected error code %q, got %v", code, result["code"])
	}
}

// dataOf returns the data object of a success envelope.
func dataOf(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	result := parseJSON(t, rec)
	data, ok := result["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected data object in response, got: %v", result)
	}
	return data
}
