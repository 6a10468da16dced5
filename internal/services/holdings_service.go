package services

import (
	"context"

	"gorm.io/gorm"

	"tradepilot/internal/brokerage"
	apperrors "tradepilot/internal/errors"
	"tradepilot/internal/logger"
	"tradepilot/internal/models"
	"tradepilot/internal/portfolio"
)

// holdingsService runs the holdings sync pipeline and serves its read side.
type holdingsService struct {
	db              *gorm.DB
	settingsService SettingsServicer
	adapters        brokerage.Factory
}

// NewHoldingsService creates a new HoldingsServicer. The adapter factory is
// injected so tests can substitute a fake brokerage.
func NewHoldingsService(db *gorm.DB, settingsService SettingsServicer, adapters brokerage.Factory) HoldingsServicer {
	return &holdingsService{db: db, settingsService: settingsService, adapters: adapters}
}

// Sync runs the full pipeline: load credentials, fetch the balance snapshot
// from the brokerage, compute weights, and replace the persisted holding
// set. The replace runs in one transaction so readers never observe the
// window between delete and insert.
func (s *holdingsService) Sync(ctx context.Context, userID uint) (int, error) {
	cfg, err := s.settingsService.BrokerageCredentials(userID)
	if err != nil {
		return 0, err
	}

	adapter, err := s.adapters(string(cfg.Type), cfg.UseProduction)
	if err != nil {
		return 0, err
	}

	fetched, err := adapter.FetchHoldings(ctx, cfg.Credentials)
	if err != nil {
		return 0, err
	}

	logger.Get().Infow("fetched holdings",
		"user_id", userID,
		"brokerage", adapter.Name(),
		"count", len(fetched),
	)

	rows := make([]models.Holding, len(fetched))
	for i, h := range fetched {
		rows[i] = models.Holding{
			UserID:       userID,
			StockCode:    h.StockCode,
			StockName:    h.StockName,
			AccountName:  h.AccountName,
			Quantity:     h.Quantity,
			AvgPrice:     h.AvgPrice,
			CurrentPrice: h.CurrentPrice,
			ProfitRate:   h.ProfitRate,
		}
	}
	portfolio.ApplyWeights(rows)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if txErr := tx.Where("user_id = ?", userID).Delete(&models.Holding{}).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrHoldingsDelete, txErr)
		}
		// An empty fetch result is a valid sync: the user simply holds
		// nothing. Skip the insert entirely.
		if len(rows) == 0 {
			return nil
		}
		if txErr := tx.Create(&rows).Error; txErr != nil {
			return apperrors.Wrap(apperrors.ErrHoldingsInsert, txErr)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return len(rows), nil
}

// GetHoldings returns the user's current holding set, heaviest weight first.
func (s *holdingsService) GetHoldings(userID uint) ([]models.Holding, error) {
	var holdings []models.Holding
	if err := s.db.Where("user_id = ?", userID).Order("weight DESC").Find(&holdings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return holdings, nil
}

// GetPortfolioSummary derives the dashboard summary from the persisted
// holding set plus the user's strategy counts.
func (s *holdingsService) GetPortfolioSummary(userID uint) (*portfolio.Summary, error) {
	holdings, err := s.GetHoldings(userID)
	if err != nil {
		return nil, err
	}

	summary := portfolio.Summarize(holdings)

	var total, active int64
	if err := s.db.Model(&models.Strategy{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Model(&models.Strategy{}).
		Where("user_id = ? AND status = ?", userID, models.StrategyStatusActive).
		Count(&active).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	summary.TotalStrategies = int(total)
	summary.ActiveStrategies = int(active)

	return &summary, nil
}
