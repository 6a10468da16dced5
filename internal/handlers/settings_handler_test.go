package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "tradepilot/internal/errors"
	"tradepilot/internal/models"
	"tradepilot/internal/services"
)

func setupSettingsRouter(handler *SettingsHandler) *gin.Engine {
	r := gin.New()
	r.GET("/settings", injectUserID(1), handler.GetSettings)
	r.PUT("/settings", injectUserID(1), handler.UpdateSettings)
	return r
}

func TestSettingsHandler_GetSettings(t *testing.T) {
	t.Run("returns settings without credentials", func(t *testing.T) {
		svc := &mockSettingsService{
			getSettingsFn: func(userID uint) (*models.UserSettings, error) {
				return &models.UserSettings{
					UserID:             userID,
					BackendURL:         "http://localhost:8000",
					BrokerageType:      models.BrokerageKoreaInvestment,
					APIKeyEncrypted:    "secret-key",
					APISecretEncrypted: "secret-secret",
					AccountNumber:      "12345678-01",
				}, nil
			},
		}
		r := setupSettingsRouter(NewSettingsHandler(svc))

		rec := doRequest(r, "GET", "/settings", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		result := parseJSON(t, rec)
		settings := result["settings"].(map[string]interface{})
		if settings["has_api_key"] != true || settings["has_api_secret"] != true {
			t.Error("expected credential presence flags to be true")
		}
		body := rec.Body.String()
		if strings.Contains(body, "secret-key") || strings.Contains(body, "secret-secret") {
			t.Error("response must never echo stored credentials")
		}
	})

	t.Run("not configured", func(t *testing.T) {
		svc := &mockSettingsService{
			getSettingsFn: func(uint) (*models.UserSettings, error) {
				return nil, apperrors.ErrSettingsNotFound
			},
		}
		r := setupSettingsRouter(NewSettingsHandler(svc))

		rec := doRequest(r, "GET", "/settings", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "SETTINGS_NOT_FOUND")
	})
}

func TestSettingsHandler_UpdateSettings(t *testing.T) {
	t.Run("passes input through", func(t *testing.T) {
		var captured services.SettingsInput
		svc := &mockSettingsService{
			upsertSettingsFn: func(userID uint, input services.SettingsInput) (*models.UserSettings, error) {
				captured = input
				return &models.UserSettings{UserID: userID, BrokerageType: input.BrokerageType}, nil
			},
		}
		r := setupSettingsRouter(NewSettingsHandler(svc))

		rec := doRequest(r, "PUT", "/settings",
			`{"brokerage_type":"korea_investment","api_key":"k","api_secret":"s","account_number":"12345678-01","use_production":true}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if captured.BrokerageType != models.BrokerageKoreaInvestment {
			t.Errorf("unexpected brokerage type %q", captured.BrokerageType)
		}
		if !captured.UseProduction {
			t.Error("expected use_production to pass through")
		}
	})

	t.Run("rejects unknown brokerage type", func(t *testing.T) {
		r := setupSettingsRouter(NewSettingsHandler(&mockSettingsService{}))

		rec := doRequest(r, "PUT", "/settings", `{"brokerage_type":"robinhood"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		r := setupSettingsRouter(NewSettingsHandler(&mockSettingsService{}))

		rec := doRequest(r, "PUT", "/settings", `{not json`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
