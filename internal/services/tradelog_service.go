package services

import (
	"context"

	"gorm.io/gorm"

	apperrors "tradepilot/internal/errors"
	"tradepilot/internal/logger"
	"tradepilot/internal/models"
	"tradepilot/internal/stream"
)

const defaultLogLimit = 50

// tradeLogService stores trade-log events and fans them out to subscribers.
type tradeLogService struct {
	db       *gorm.DB
	notifier stream.Notifier
}

// NewTradeLogService creates a new TradeLogServicer.
func NewTradeLogService(db *gorm.DB, notifier stream.Notifier) TradeLogServicer {
	return &tradeLogService{db: db, notifier: notifier}
}

// Ingest appends the event and publishes it to the user's live stream.
// Publish failures are logged, not surfaced: the row is already persisted
// and subscribers catch up on their next fetch.
func (s *tradeLogService) Ingest(ctx context.Context, entry TradeLogEntry) (*models.TradeLog, error) {
	log := &models.TradeLog{
		UserID:     entry.UserID,
		Category:   entry.Category,
		Level:      entry.Level,
		Message:    entry.Message,
		Reason:     entry.Reason,
		StrategyID: entry.StrategyID,
	}

	if err := s.db.Create(log).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if s.notifier != nil {
		if err := s.notifier.Publish(ctx, entry.UserID, log); err != nil {
			logger.Get().Warnw("trade log publish failed",
				"user_id", entry.UserID,
				"log_id", log.ID,
				"error", err.Error(),
			)
		}
	}

	return log, nil
}

// GetUserLogs returns the user's most recent trade logs, newest first.
func (s *tradeLogService) GetUserLogs(userID uint, limit int) ([]models.TradeLog, error) {
	if limit <= 0 {
		limit = defaultLogLimit
	}

	var logs []models.TradeLog
	if err := s.db.Where("user_id = ?", userID).
		Order("timestamp DESC").Limit(limit).Find(&logs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return logs, nil
}
