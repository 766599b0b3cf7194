package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "clinic/internal/errors"
	"clinic/internal/pagination"
	"clinic/internal/services"
	"clinic/internal/uuid"
)

const (
	// maxUploadSize caps patient history attachments.
	maxUploadSize = 20 << 20
	// maxMemory is the part of a multipart form kept in memory; the rest spills to disk.
	maxMemory = 8 << 20
)

var errFileTooLarge = apperrors.WithMessage(apperrors.ErrInvalidInput, "File exceeds the 20 MB limit")

// HistoryHandler handles patient history requests.
type HistoryHandler struct {
	historyService services.HistoryServicer
	auditService   services.AuditServicer
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(historyService services.HistoryServicer, auditService services.AuditServicer) *HistoryHandler {
	return &HistoryHandler{historyService: historyService, auditService: auditService}
}

// CreateHistoryRequest represents a history record referencing an existing file
type CreateHistoryRequest struct {
	ClientID string `json:"clientId" binding:"omitempty,uuid"`
	FileID   string `json:"fileId" binding:"max=500"`
	FileType string `json:"fileType" binding:"max=100"`
	Notes    string `json:"notes" binding:"max=2000"`
}

// CreateHistory handles history record creation
// @Summary     Create a patient history record
// @Tags        history
// @Accept      json
// @Produce     json
// @Security    CookieAuth
// @Param       request body CreateHistoryRequest true "History record"
// @Success     201 {object} SuccessResponse "History created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Client not found"
// @Router      /history [post]
func (h *HistoryHandler) CreateHistory(c *gin.Context) {
	var req CreateHistoryRequest
	if !bindJSON(c, &req) {
		return
	}

	history, err := h.historyService.CreateHistory(req.ClientID, req.FileID, req.FileType, req.Notes)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, http.StatusCreated, gin.H{"history": history}, "History record created successfully")
}

// UploadHistory stores an attachment and records it
// @Summary     Upload a patient history document
// @Tags        history
// @Accept      multipart/form-data
// @Produce     json
// @Security    CookieAuth
// @Param       clientId formData string true  "Client ID"
// @Param       notes    formData string false "Notes"
// @Param       file     formData file   true  "Document"
// @Success     201 {object} SuccessResponse "History created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Client not found"
// @Failure     503 {object} ErrorResponse "Storage not configured"
// @Router      /history/upload [post]
func (h *HistoryHandler) UploadHistory(c *gin.Context) {
	// The form fields and multipart framing get 1 MB on top of the file.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize+1<<20)
	if err := c.Request.ParseMultipartForm(maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(c, errFileTooLarge)
			return
		}
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid multipart form"))
		return
	}

	clientID := c.PostForm("clientId")
	if !uuid.IsValid(clientID) {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid clientId"))
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "File is required"))
		return
	}
	if header.Size > maxUploadSize {
		respondWithError(c, errFileTooLarge)
		return
	}

	file, err := header.Open()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	defer file.Close()

	history, err := h.historyService.UploadHistory(c.Request.Context(), services.HistoryUpload{
		ClientID:    clientID,
		Notes:       c.PostForm("notes"),
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, http.StatusCreated, gin.H{"history": history}, "History record uploaded successfully")
}

// GetHistories lists every history record
// @Summary     List patient history
// @Tags        history
// @Produce     json
// @Security    CookieAuth
// @Param       page      query int false "Page number"
// @Param       page_size query int false "Items per page (max 100)"
// @Success     200 {object} SuccessResponse "History records"
// @Router      /history [get]
func (h *HistoryHandler) GetHistories(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, invalidPage(err))
		return
	}

	result, err := h.historyService.GetHistories(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	data := gin.H{"histories": result.Items}
	if page.Enabled() {
		data["pagination"] = pageMeta(result)
	}
	respondWithSuccess(c, http.StatusOK, data, "History records fetched successfully")
}

// GetClientHistories lists a client's history records
// @Summary     List patient history of a client
// @Tags        history
// @Produce     json
// @Security    CookieAuth
// @Param       clientId path string true "Client ID"
// @Success     200 {object} SuccessResponse "History records"
// @Router      /history/{clientId} [get]
func (h *HistoryHandler) GetClientHistories(c *gin.Context) {
	clientID, err := parsePathID(c, "clientId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	histories, err := h.historyService.GetClientHistories(clientID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, http.StatusOK, gin.H{"histories": histories}, "History records fetched successfully")
}

// GetDownloadURL returns a presigned link to the stored document
// @Summary     Get a download link for a history document
// @Tags        history
// @Produce     json
// @Security    CookieAuth
// @Param       id path string true "History record ID"
// @Success     200 {object} SuccessResponse "Presigned URL valid for 15 minutes"
// @Failure     404 {object} ErrorResponse "History record not found"
// @Failure     503 {object} ErrorResponse "Storage not configured"
// @Router      /history/record/{id}/download [get]
func (h *HistoryHandler) GetDownloadURL(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	url, err := h.historyService.GetDownloadURL(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, http.StatusOK, gin.H{
		"url":       url,
		"expiresIn": int(services.DownloadURLExpiry.Seconds()),
	}, "Download link created")
}

// DeleteHistory handles history record deletion
// @Summary     Delete a patient history record
// @Tags        history
// @Produce     json
// @Security    CookieAuth
// @Param       id path string true "History record ID"
// @Success     200 {object} SuccessResponse "History deleted"
// @Failure     404 {object} ErrorResponse "History record not found"
// @Router      /history/{id} [delete]
func (h *HistoryHandler) DeleteHistory(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.historyService.DeleteHistory(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	userID, _ := getUserID(c)
	h.auditService.Log(userID, services.AuditActionDeleteHistory, "patient_history", id, c.ClientIP(), nil)
	respondWithSuccess(c, http.StatusOK, nil, "History record deleted successfully")
}
