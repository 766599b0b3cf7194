package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clinic/internal/models"
	"clinic/internal/services"
)

// InvoiceHandler handles invoice-related requests.
type InvoiceHandler struct {
	invoiceService services.InvoiceServicer
	auditService   services.AuditServicer
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService services.InvoiceServicer, auditService services.AuditServicer) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, auditService: auditService}
}

// CreateInvoiceRequest represents the invoice creation payload
type CreateInvoiceRequest struct {
	ClientID string  `json:"clientId" binding:"omitempty,uuid"`
	Location string  `json:"location" binding:"max=200"`
	Amount   float64 `json:"amount"`
}

// UpdateInvoiceStatusRequest represents the status change payload
type UpdateInvoiceStatusRequest struct {
	Status models.InvoiceStatus `json:"status"`
}

// CreateInvoice handles invoice creation
// @Summary     Create an invoice
// @Tags        invoices
// @Accept      json
// @Produce     json
// @Security    CookieAuth
// @Param       request body CreateInvoiceRequest true "Invoice details"
// @Success     201 {object} SuccessResponse "Invoice created"
// @Failure     400 {object} ErrorResponse "Invalid input or amount"
// @Failure     404 {object} ErrorResponse "Client not found"
// @Router      /invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req CreateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}

	inv, err := h.invoiceService.CreateInvoice(req.ClientID, req.Location, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, http.StatusCreated, gin.H{"invoice": inv}, "Invoice created successfully")
}

// UpdateInvoiceStatus handles status changes
// @Summary     Update invoice status
// @Description Paid sets datePaid; Pending clears it
// @Tags        invoices
// @Accept      json
// @Produce     json
// @Security    CookieAuth
// @Param       id path string true "Invoice ID"
// @Param       request body UpdateInvoiceStatusRequest true "New status"
// @Success     200 {object} SuccessResponse "Invoice updated"
// @Failure     400 {object} ErrorResponse "Invalid status"
// @Failure     404 {object} ErrorResponse "Invoice not found"
// @Router      /invoices/{id} [put]
func (h *InvoiceHandler) UpdateInvoiceStatus(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateInvoiceStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	inv, err := h.invoiceService.UpdateInvoiceStatus(id, req.Status)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, http.StatusOK, gin.H{"invoice": inv}, "Invoice updated successfully")
}

// DeleteInvoice handles invoice deletion
// @Summary     Delete an invoice
// @Tags        invoices
// @Produce     json
// @Security    CookieAuth
// @Param       id path string true "Invoice ID"
// @Success     200 {object} SuccessResponse "Invoice deleted"
// @Failure     404 {object} ErrorResponse "Invoice not found"
// @Router      /invoices/{id} [delete]
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.invoiceService.DeleteInvoice(id); err != nil {
		respondWithError(c, err)
		return
	}

	userID, _ := getUserID(c)
	h.auditService.Log(userID, services.AuditActionDeleteInvoice, "invoice", id, c.ClientIP(), nil)
	respondWithSuccess(c, http.StatusOK, nil, "Invoice deleted successfully.")
}

// GetInvoices lists every invoice
// @Summary     List invoices
// @Tags        invoices
// @Produce     json
// @Security    CookieAuth
// @Success     200 {object} SuccessResponse "Invoices with clients"
// @Failure     404 {object} ErrorResponse "No invoices found"
// @Router      /invoices [get]
func (h *InvoiceHandler) GetInvoices(c *gin.Context) {
	invoices, err := h.invoiceService.GetInvoices()
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, http.StatusOK, gin.H{"invoices": invoices}, "Invoices fetched successfully")
}

// GetClientInvoices lists a client's invoices
// @Summary     List invoices of a client
// @Tags        invoices
// @Produce     json
// @Security    CookieAuth
// @Param       clientId path string true "Client ID"
// @Success     200 {object} SuccessResponse "Invoices with clients"
// @Failure     404 {object} ErrorResponse "No invoices found for this client"
// @Router      /invoices/client/{clientId} [get]
func (h *InvoiceHandler) GetClientInvoices(c *gin.Context) {
	clientID, err := parsePathID(c, "clientId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	invoices, err := h.invoiceService.GetClientInvoices(clientID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, http.StatusOK, gin.H{"invoices": invoices}, "Invoices fetched successfully")
}

// GetInvoiceByID returns one invoice
// @Summary     Get invoice by ID
// @Tags        invoices
// @Produce     json
// @Security    CookieAuth
// @Param       id path string true "Invoice ID"
// @Success     200 {object} SuccessResponse "Invoice with client"
// @Failure     404 {object} ErrorResponse "Invoice not found"
// @Router      /invoices/{id} [get]
func (h *InvoiceHandler) GetInvoiceByID(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	inv, err := h.invoiceService.GetInvoiceByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, http.StatusOK, gin.H{"invoice": inv}, "Invoice found.")
}
