package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "clinic/internal/errors"
	"clinic/internal/models"
	"clinic/internal/services"
)

func setupInvoiceRouter(svc *mockInvoiceService, audit *mockAuditService) *gin.Engine {
	h := NewInvoiceHandler(svc, audit)
	r := gin.New()
	r.Use(injectUserID(testUserID))
	r.POST("/invoices", h.CreateInvoice)
	r.GET("/invoices", h.GetInvoices)
	r.GET("/invoices/client/:clientId", h.GetClientInvoices)
	r.GET("/invoices/:id", h.GetInvoiceByID)
	r.PUT("/invoices/:id", h.UpdateInvoiceStatus)
	r.DELETE("/invoices/:id", h.DeleteInvoice)
	return r
}

func TestCreateInvoice(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		var gotAmount float64
		svc := &mockInvoiceService{createFn: func(clientID, location string, amount float64) (*models.InvoiceView, error) {
			gotAmount = amount
			return &models.InvoiceView{
				Invoice: models.Invoice{ClientID: clientID, Location: location, Amount: amount, Status: models.InvoiceStatusPending},
				Client:  &models.Client{Base: models.Base{ID: clientID}, Name: "Bob"},
			}, nil
		}}
		r := setupInvoiceRouter(svc, &mockAuditService{})
		rec := doRequest(r, http.MethodPost, "/invoices",
			`{"clientId":"`+testClientID+`","location":"Main","amount":120.5}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotAmount != 120.5 {
			t.Errorf("expected amount 120.5, got %v", gotAmount)
		}
		inv := dataOf(t, rec)["invoice"].(map[string]interface{})
		if inv["status"] != "Pending" || inv["datePaid"] != nil {
			t.Errorf("unexpected invoice %v", inv)
		}
		client := inv["client"].(map[string]interface{})
		if client["name"] != "Bob" {
			t.Errorf("expected expanded client, got %v", client)
		}
	})

	t.Run("non-positive amount", func(t *testing.T) {
		svc := &mockInvoiceService{createFn: func(string, string, float64) (*models.InvoiceView, error) {
			return nil, apperrors.ErrInvalidAmount
		}}
		r := setupInvoiceRouter(svc, &mockAuditService{})
		rec := doRequest(r, http.MethodPost, "/invoices",
			`{"clientId":"`+testClientID+`","location":"Main","amount":0}`)
		assertErrorCode(t, rec, http.StatusBadRequest, "INVALID_AMOUNT")
	})

	t.Run("amount as string", func(t *testing.T) {
		r := setupInvoiceRouter(&mockInvoiceService{}, &mockAuditService{})
		rec := doRequest(r, http.MethodPost, "/invoices",
			`{"clientId":"`+testClientID+`","location":"Main","amount":"ten"}`)
		assertErrorCode(t, rec, http.StatusBadRequest, "INVALID_INPUT")
	})
}

func TestUpdateInvoiceStatus(t *testing.T) {
	t.Run("paid", func(t *testing.T) {
		paidAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		svc := &mockInvoiceService{updateFn: func(id string, status models.InvoiceStatus) (*models.InvoiceView, error) {
			return &models.InvoiceView{Invoice: models.Invoice{Base: models.Base{ID: id}, Status: status, DatePaid: &paidAt}}, nil
		}}
		r := setupInvoiceRouter(svc, &mockAuditService{})
		rec := doRequest(r, http.MethodPut, "/invoices/"+testRecordID, `{"status":"Paid"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		inv := dataOf(t, rec)["invoice"].(map[string]interface{})
		if inv["status"] != "Paid" || inv["datePaid"] == nil {
			t.Errorf("unexpected invoice %v", inv)
		}
	})

	t.Run("invalid status", func(t *testing.T) {
		svc := &mockInvoiceService{updateFn: func(string, models.InvoiceStatus) (*models.InvoiceView, error) {
			return nil, apperrors.ErrInvalidInvoiceStatus
		}}
		r := setupInvoiceRouter(svc, &mockAuditService{})
		rec := doRequest(r, http.MethodPut, "/invoices/"+testRecordID, `{"status":"Refunded"}`)
		assertErrorCode(t, rec, http.StatusBadRequest, "INVALID_INVOICE_STATUS")
	})
}

func TestDeleteInvoice(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		audit := &mockAuditService{}
		r := setupInvoiceRouter(&mockInvoiceService{}, audit)
		rec := doRequest(r, http.MethodDelete, "/invoices/"+testRecordID, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if a := audit.actions(); len(a) != 1 || a[0] != services.AuditActionDeleteInvoice {
			t.Errorf("expected delete audit, got %v", a)
		}
	})

	t.Run("not found", func(t *testing.T) {
		svc := &mockInvoiceService{deleteFn: func(string) error { return apperrors.ErrInvoiceNotFound }}
		audit := &mockAuditService{}
		r := setupInvoiceRouter(svc, audit)
		rec := doRequest(r, http.MethodDelete, "/invoices/"+testRecordID, "")
		assertErrorCode(t, rec, http.StatusNotFound, "INVOICE_NOT_FOUND")
		if len(audit.actions()) != 0 {
			t.Error("failed delete must not be audited")
		}
	})
}

func TestGetInvoices(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		svc := &mockInvoiceService{listFn: func() ([]models.InvoiceView, error) {
			return nil, apperrors.WithMessage(apperrors.ErrInvoiceNotFound, "No invoices found.")
		}}
		r := setupInvoiceRouter(svc, &mockAuditService{})
		rec := doRequest(r, http.MethodGet, "/invoices", "")
		assertErrorCode(t, rec, http.StatusNotFound, "INVOICE_NOT_FOUND")
	})

	t.Run("by client", func(t *testing.T) {
		gotClient := ""
		svc := &mockInvoiceService{byClientFn: func(clientID string) ([]models.InvoiceView, error) {
			gotClient = clientID
			return []models.InvoiceView{{Invoice: models.Invoice{ClientID: clientID}}}, nil
		}}
		r := setupInvoiceRouter(svc, &mockAuditService{})
		rec := doRequest(r, http.MethodGet, "/invoices/client/"+testClientID, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotClient != testClientID {
			t.Errorf("expected client %s, got %s", testClientID, gotClient)
		}
		if n := len(dataOf(t, rec)["invoices"].([]interface{})); n != 1 {
			t.Errorf("expected 1 invoice, got %d", n)
		}
	})

	t.Run("by id", func(t *testing.T) {
		r := setupInvoiceRouter(&mockInvoiceService{}, &mockAuditService{})
		rec := doRequest(r, http.MethodGet, "/invoices/"+testRecordID, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if msg := parseJSON(t, rec)["message"]; msg != "Invoice found." {
			t.Errorf("unexpected message %v", msg)
		}
	})
}
