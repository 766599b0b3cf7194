package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"clinic/internal/config"
	"clinic/internal/logger"
	"clinic/internal/ratelimit"
	"clinic/internal/storage"
	"clinic/internal/testutil"
	"clinic/internal/validator"
)

const registrationSecret = "clinic-test-secret"

// testApp holds the full application stack for end-to-end tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
	Store  *storage.MemoryStore
	Mailer *captureMailer
}

// captureMailer records reset codes instead of sending them.
type captureMailer struct {
	mu    sync.Mutex
	codes map[string]string
}

func (m *captureMailer) SendResetCode(_ context.Context, to, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[to] = code
	return nil
}

func (m *captureMailer) codeFor(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[email]
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
	config.Set(&config.Config{
		Env:                "test",
		AccessTokenSecret:  "e2e-access-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenSecret: "e2e-refresh-secret",
		RefreshTokenExpiry: time.Hour,
		RegistrationSecret: registrationSecret,
	})
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	return setupAppWithLimiter(t, nil)
}

func setupAppWithLimiter(t *testing.T, limiter ratelimit.Limiter) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	store := storage.NewMemoryStore("http://files.test")
	sender := &captureMailer{codes: make(map[string]string)}

	router := NewRouter(Deps{
		DB:                 db,
		Store:              store,
		Mailer:             sender,
		AuthLimiter:        limiter,
		CORSOrigin:         "http://localhost:5173",
		RegistrationSecret: registrationSecret,
	})
	return &testApp{DB: db, Router: router, Store: store, Mailer: sender}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// data returns the data object of a success envelope.
func data(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	d, ok := parseJSON(t, rec)["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected data object, body: %s", rec.Body.String())
	}
	return d
}

// expectStatus fails the test when rec does not carry status.
func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
}

// expectError checks status and the error code of the envelope.
func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	expectStatus(t, rec, status)
	if got := parseJSON(t, rec)["code"]; got != code {
		t.Errorf("expected code %s, got %v", code, got)
	}
}

// registerUser registers a staff account.
func (app *testApp) registerUser(t *testing.T, email, password string) {
	t.Helper()
	body := fmt.Sprintf(`{"name":"Staff","email":%q,"password":%q,"secretCode":%q}`, email, password, registrationSecret)
	rec := app.request(http.MethodPost, "/api/auth/register-user", body, "")
	expectStatus(t, rec, http.StatusCreated)
}

// loginUser logs in and returns the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request(http.MethodPost, "/api/auth/login-user", body, "")
	expectStatus(t, rec, http.StatusOK)
	d := data(t, rec)
	return d["accessToken"].(string), d["refreshToken"].(string)
}

// staffToken registers and logs in a fresh user.
func (app *testApp) staffToken(t *testing.T) string {
	t.Helper()
	app.registerUser(t, "staff@clinic.test", "password123")
	token, _ := app.loginUser(t, "staff@clinic.test", "password123")
	return token
}

// createClient adds a client through the API and returns its ID.
func (app *testApp) createClient(t *testing.T, token, name, email string) string {
	t.Helper()
	body := fmt.Sprintf(`{"name":%q,"email":%q,"age":40,"phoneNumber":"555-0100"}`, name, email)
	rec := app.request(http.MethodPost, "/api/clients", body, token)
	expectStatus(t, rec, http.StatusCreated)
	return data(t, rec)["client"].(map[string]interface{})["id"].(string)
}
