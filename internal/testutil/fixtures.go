package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"clinic/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plaintext password of every fixture user.
const TestPassword = "password123"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Name:     "Test User",
		Email:    email,
		Password: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestClient creates a client with a unique email.
func CreateTestClient(t *testing.T, db *gorm.DB) *models.Client {
	t.Helper()
	n := nextID()
	return CreateTestClientWith(t, db, fmt.Sprintf("Client %d", n), fmt.Sprintf("client%d@test.com", n))
}

// CreateTestClientWith creates a client with the given name and email.
func CreateTestClientWith(t *testing.T, db *gorm.DB, name, email string) *models.Client {
	t.Helper()

	client := &models.Client{
		Name:        name,
		Email:       email,
		Age:         30,
		PhoneNumber: "+15550100",
	}
	if err := db.Create(client).Error; err != nil {
		t.Fatalf("failed to create test client: %v", err)
	}
	return client
}

// CreateTestAppointment creates a one-hour pending appointment starting at start.
func CreateTestAppointment(t *testing.T, db *gorm.DB, clientID string, start time.Time) *models.Appointment {
	t.Helper()

	appt := &models.Appointment{
		Title:    fmt.Sprintf("Checkup %d", nextID()),
		ClientID: clientID,
		Location: "Room 1",
		Start:    start.UTC(),
		End:      start.Add(time.Hour).UTC(),
		Status:   models.AppointmentStatusPending,
	}
	if err := db.Create(appt).Error; err != nil {
		t.Fatalf("failed to create test appointment: %v", err)
	}
	return appt
}

// CreateTestInvoice creates a pending invoice for the given amount.
func CreateTestInvoice(t *testing.T, db *gorm.DB, clientID string, amount float64) *models.Invoice {
	t.Helper()

	inv := &models.Invoice{
		ClientID:   clientID,
		Location:   "Main Clinic",
		Amount:     amount,
		Status:     models.InvoiceStatusPending,
		DateIssued: time.Now().UTC(),
	}
	if err := db.Create(inv).Error; err != nil {
		t.Fatalf("failed to create test invoice: %v", err)
	}
	return inv
}

// CreateTestHistory creates a patient history record for the client.
func CreateTestHistory(t *testing.T, db *gorm.DB, clientID string) *models.PatientHistory {
	t.Helper()

	h := &models.PatientHistory{
		ClientID: clientID,
		FileID:   fmt.Sprintf("history/%s/file%d.pdf", clientID, nextID()),
		FileType: "application/pdf",
		Notes:    "Lab results",
	}
	if err := db.Create(h).Error; err != nil {
		t.Fatalf("failed to create test history: %v", err)
	}
	return h
}
