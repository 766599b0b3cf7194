package handlers

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "clinic/internal/errors"
	"clinic/internal/models"
	"clinic/internal/services"
)

func setupReportRouter(svc *mockReportService) *gin.Engine {
	h := NewReportHandler(svc)
	r := gin.New()
	r.GET("/reports/appointments", h.GetAppointmentReport)
	r.GET("/reports/payments", h.GetPaymentReport)
	r.GET("/reports/payments/export", h.ExportPayments)
	r.GET("/reports/clients", h.GetClientReport)
	return r
}

func TestGetPaymentReport(t *testing.T) {
	svc := &mockReportService{paymentsFn: func() (*services.PaymentReport, error) {
		return &services.PaymentReport{
			TotalPayments: 150,
			Invoices:      []models.InvoiceView{{Invoice: models.Invoice{Amount: 100}}, {Invoice: models.Invoice{Amount: 50}}},
		}, nil
	}}
	r := setupReportRouter(svc)
	rec := doRequest(r, http.MethodGet, "/reports/payments", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data := dataOf(t, rec)
	if data["totalPayments"] != float64(150) {
		t.Errorf("expected total 150, got %v", data["totalPayments"])
	}
	if n := len(data["invoices"].([]interface{})); n != 2 {
		t.Errorf("expected 2 invoices, got %d", n)
	}
}

func TestGetAppointmentReport(t *testing.T) {
	svc := &mockReportService{appointmentsFn: func() (*services.AppointmentReport, error) {
		return nil, apperrors.WithMessage(apperrors.ErrAppointmentNotFound, "No appointments found.")
	}}
	r := setupReportRouter(svc)
	rec := doRequest(r, http.MethodGet, "/reports/appointments", "")
	assertErrorCode(t, rec, http.StatusNotFound, "APPOINTMENT_NOT_FOUND")
}

func TestGetClientReport(t *testing.T) {
	svc := &mockReportService{clientsFn: func() (*services.ClientReport, error) {
		return &services.ClientReport{TotalClients: 1, Clients: []models.Client{{Name: "Bob"}}}, nil
	}}
	r := setupReportRouter(svc)
	rec := doRequest(r, http.MethodGet, "/reports/clients", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if dataOf(t, rec)["totalClients"] != float64(1) {
		t.Error("expected one client")
	}
}

func TestExportPayments(t *testing.T) {
	t.Run("workbook", func(t *testing.T) {
		r := setupReportRouter(&mockReportService{})
		rec := doRequest(r, http.MethodGet, "/reports/payments/export", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != xlsxContentType {
			t.Errorf("unexpected content type %q", ct)
		}
		cd := rec.Header().Get("Content-Disposition")
		if !strings.HasPrefix(cd, `attachment; filename="payments-`) || !strings.HasSuffix(cd, `.xlsx"`) {
			t.Errorf("unexpected disposition %q", cd)
		}
		if rec.Body.String() != "xlsx" {
			t.Errorf("unexpected body %q", rec.Body.String())
		}
	})

	t.Run("failure", func(t *testing.T) {
		svc := &mockReportService{exportFn: func() ([]byte, error) { return nil, errors.New("boom") }}
		r := setupReportRouter(svc)
		rec := doRequest(r, http.MethodGet, "/reports/payments/export", "")
		assertErrorCode(t, rec, http.StatusInternalServerError, "INTERNAL_ERROR")
	})
}
