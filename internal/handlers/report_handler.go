package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"clinic/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler handles report requests.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetAppointmentReport
// @Summary     Appointment report
// @Tags        reports
// @Produce     json
// @Security    CookieAuth
// @Success     200 {object} SuccessResponse{data=services.AppointmentReport} "Appointment totals"
// @Failure     404 {object} ErrorResponse "No appointments found"
// @Router      /reports/appointments [get]
func (h *ReportHandler) GetAppointmentReport(c *gin.Context) {
	report, err := h.reportService.GetAppointmentReport()
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, http.StatusOK, report, "Appointment report generated")
}

// GetPaymentReport
// @Summary     Payment report
// @Tags        reports
// @Produce     json
// @Security    CookieAuth
// @Success     200 {object} SuccessResponse{data=services.PaymentReport} "Payment totals"
// @Failure     404 {object} ErrorResponse "No invoices found"
// @Router      /reports/payments [get]
func (h *ReportHandler) GetPaymentReport(c *gin.Context) {
	report, err := h.reportService.GetPaymentReport()
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, http.StatusOK, report, "Payment report generated")
}

// GetClientReport
// @Summary     Client report
// @Tags        reports
// @Produce     json
// @Security    CookieAuth
// @Success     200 {object} SuccessResponse{data=services.ClientReport} "Client totals"
// @Failure     404 {object} ErrorResponse "No clients found"
// @Router      /reports/clients [get]
func (h *ReportHandler) GetClientReport(c *gin.Context) {
	report, err := h.reportService.GetClientReport()
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, http.StatusOK, report, "Client report generated")
}

// ExportPayments downloads the payments workbook
// @Summary     Export payments
// @Description Every invoice as an .xlsx workbook with a totals row
// @Tags        reports
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security    CookieAuth
// @Success     200 {file} file "Payments workbook"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /reports/payments/export [get]
func (h *ReportHandler) ExportPayments(c *gin.Context) {
	data, err := h.reportService.ExportPayments()
	if err != nil {
		respondWithError(c, err)
		return
	}

	filename := fmt.Sprintf("payments-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
