package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clinic/internal/models"
	"clinic/internal/services"
)

// SettingHandler handles clinic settings requests.
type SettingHandler struct {
	settingService services.SettingServicer
	auditService   services.AuditServicer
}

// NewSettingHandler creates a new SettingHandler.
func NewSettingHandler(settingService services.SettingServicer, auditService services.AuditServicer) *SettingHandler {
	return &SettingHandler{settingService: settingService, auditService: auditService}
}

// SettingsRequest carries the settings sections. Omitted sections are nil.
type SettingsRequest struct {
	OperatingHours   *[]models.OperatingHour   `json:"operatingHours" binding:"omitempty,max=7,dive"`
	AppointmentTypes *[]models.AppointmentType `json:"appointmentTypes" binding:"omitempty,dive"`
	Reminders        *[]models.Reminder        `json:"reminders" binding:"omitempty,dive"`
}

func (r SettingsRequest) patch() services.SettingsPatch {
	return services.SettingsPatch{
		OperatingHours:   r.OperatingHours,
		AppointmentTypes: r.AppointmentTypes,
		Reminders:        r.Reminders,
	}
}

// CreateSettings stores the initial clinic settings
// @Summary     Create settings
// @Tags        settings
// @Accept      json
// @Produce     json
// @Security    CookieAuth
// @Param       request body SettingsRequest true "All three sections"
// @Success     201 {object} SuccessResponse "Settings created"
// @Failure     400 {object} ErrorResponse "Missing or invalid sections"
// @Failure     409 {object} ErrorResponse "Settings already exist"
// @Router      /settings [post]
func (h *SettingHandler) CreateSettings(c *gin.Context) {
	var req SettingsRequest
	if !bindJSON(c, &req) {
		return
	}

	setting, err := h.settingService.CreateSettings(req.patch())
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, http.StatusCreated, gin.H{"setting": setting}, "Settings created successfully")
}

// UpdateSettings replaces the provided sections
// @Summary     Update settings
// @Description Sections omitted from the body keep their values. Creates the settings when none exist.
// @Tags        settings
// @Accept      json
// @Produce     json
// @Security    CookieAuth
// @Param       request body SettingsRequest true "Sections to replace"
// @Success     200 {object} SuccessResponse "Settings updated"
// @Failure     400 {object} ErrorResponse "Invalid sections"
// @Router      /settings [put]
func (h *SettingHandler) UpdateSettings(c *gin.Context) {
	var req SettingsRequest
	if !bindJSON(c, &req) {
		return
	}

	setting, err := h.settingService.UpdateSettings(req.patch())
	if err != nil {
		respondWithError(c, err)
		return
	}

	userID, _ := getUserID(c)
	h.auditService.Log(userID, services.AuditActionUpdateSettings, "setting", setting.ID, c.ClientIP(), nil)
	respondWithSuccess(c, http.StatusOK, gin.H{"setting": setting}, "Settings updated successfully")
}

// GetSettings returns the clinic settings
// @Summary     Get settings
// @Tags        settings
// @Produce     json
// @Security    CookieAuth
// @Success     200 {object} SuccessResponse "Settings"
// @Failure     404 {object} ErrorResponse "Settings not found"
// @Router      /settings [get]
func (h *SettingHandler) GetSettings(c *gin.Context) {
	setting, err := h.settingService.GetSettings()
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, http.StatusOK, gin.H{"setting": setting}, "Settings fetched successfully")
}
