package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "tradepilot/internal/errors"
	"tradepilot/internal/models"
	"tradepilot/internal/services"
)

// SettingsHandler handles per-user trading settings.
type SettingsHandler struct {
	settingsService services.SettingsServicer
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settingsService services.SettingsServicer) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// UpdateSettingsRequest represents the settings update payload. API key and
// secret may be left empty to keep the stored values.
type UpdateSettingsRequest struct {
	BackendURL    string `json:"backend_url" binding:"omitempty,url,max=500"`
	BrokerageType string `json:"brokerage_type" binding:"required,brokerage_type"`
	APIKey        string `json:"api_key" binding:"max=500"`
	APISecret     string `json:"api_secret" binding:"max=500"`
	AccountNumber string `json:"account_number" binding:"max=50"`
	UseProduction bool   `json:"use_production"`
}

// SettingsResponse represents the user's settings. Credentials are never
// echoed back; only whether they are set.
type SettingsResponse struct {
	BackendURL    string `json:"backend_url"`
	BrokerageType string `json:"brokerage_type"`
	HasAPIKey     bool   `json:"has_api_key"`
	HasAPISecret  bool   `json:"has_api_secret"`
	AccountNumber string `json:"account_number"`
	UseProduction bool   `json:"use_production"`
}

func settingsResponse(settings *models.UserSettings) SettingsResponse {
	return SettingsResponse{
		BackendURL:    settings.BackendURL,
		BrokerageType: string(settings.BrokerageType),
		HasAPIKey:     settings.APIKeyEncrypted != "",
		HasAPISecret:  settings.APISecretEncrypted != "",
		AccountNumber: settings.AccountNumber,
		UseProduction: settings.UseProduction,
	}
}

// GetSettings returns the authenticated user's settings.
// @Summary     Get user settings
// @Description Get the authenticated user's brokerage and backend settings
// @Tags        settings
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} SettingsResponse "User settings"
// @Failure     400 {object} ErrorResponse "Settings not configured"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /settings [get]
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	settings, err := h.settingsService.GetSettings(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settingsResponse(settings)})
}

// UpdateSettings creates or updates the authenticated user's settings.
// @Summary     Update user settings
// @Description Create or update the authenticated user's brokerage and backend settings
// @Tags        settings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateSettingsRequest true "Settings data"
// @Success     200 {object} SettingsResponse "Updated settings"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /settings [put]
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	settings, err := h.settingsService.UpsertSettings(userID, services.SettingsInput{
		BackendURL:    req.BackendURL,
		BrokerageType: models.BrokerageType(req.BrokerageType),
		APIKey:        req.APIKey,
		APISecret:     req.APISecret,
		AccountNumber: req.AccountNumber,
		UseProduction: req.UseProduction,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settingsResponse(settings)})
}
