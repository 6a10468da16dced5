package services

import (
	"errors"

	"gorm.io/gorm"

	"tradepilot/internal/brokerage"
	apperrors "tradepilot/internal/errors"
	"tradepilot/internal/models"
)

// settingsService handles per-user brokerage settings.
type settingsService struct {
	db *gorm.DB
}

// NewSettingsService creates a new SettingsServicer.
func NewSettingsService(db *gorm.DB) SettingsServicer {
	return &settingsService{db: db}
}

// GetSettings returns the user's settings row.
func (s *settingsService) GetSettings(userID uint) (*models.UserSettings, error) {
	var settings models.UserSettings
	if err := s.db.Where("user_id = ?", userID).First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSettingsNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &settings, nil
}

// UpsertSettings creates or updates the user's settings row. Empty credential
// fields in the input leave the stored values untouched so the UI can update
// the backend URL without re-entering API keys.
func (s *settingsService) UpsertSettings(userID uint, input SettingsInput) (*models.UserSettings, error) {
	var settings models.UserSettings
	err := s.db.Where("user_id = ?", userID).First(&settings).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		settings = models.UserSettings{UserID: userID}
	case err != nil:
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	settings.BackendURL = input.BackendURL
	settings.BrokerageType = input.BrokerageType
	settings.AccountNumber = input.AccountNumber
	settings.UseProduction = input.UseProduction
	if input.APIKey != "" {
		settings.APIKeyEncrypted = input.APIKey
	}
	if input.APISecret != "" {
		settings.APISecretEncrypted = input.APISecret
	}

	if err := s.db.Save(&settings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &settings, nil
}

// BrokerageCredentials loads the fields the sync pipeline needs and fails
// when the settings row is missing or incomplete. No side effects.
func (s *settingsService) BrokerageCredentials(userID uint) (*BrokerageConfig, error) {
	settings, err := s.GetSettings(userID)
	if err != nil {
		return nil, err
	}

	if settings.BrokerageType == "" ||
		settings.APIKeyEncrypted == "" ||
		settings.APISecretEncrypted == "" ||
		settings.AccountNumber == "" {
		return nil, apperrors.ErrBrokerageNotConfigured
	}

	return &BrokerageConfig{
		Type: settings.BrokerageType,
		Credentials: brokerage.Credentials{
			AppKey:        settings.APIKeyEncrypted,
			AppSecret:     settings.APISecretEncrypted,
			AccountNumber: settings.AccountNumber,
		},
		UseProduction: settings.UseProduction,
	}, nil
}
