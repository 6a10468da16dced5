package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "tradepilot/internal/errors"
	"tradepilot/internal/models"
	"tradepilot/internal/pagination"
)

// strategyService handles trading-strategy management. Strategies run on
// the external trading backend; this service only stores configuration and
// run state.
type strategyService struct {
	db *gorm.DB
}

// NewStrategyService creates a new StrategyServicer.
func NewStrategyService(db *gorm.DB) StrategyServicer {
	return &strategyService{db: db}
}

// CreateStrategy creates a strategy in the paused state.
func (s *strategyService) CreateStrategy(userID uint, input StrategyInput) (*models.Strategy, error) {
	strategy := &models.Strategy{
		UserID:       userID,
		Name:         input.Name,
		Description:  input.Description,
		Status:       models.StrategyStatusPaused,
		PositionSize: input.PositionSize,
		TakeProfit:   input.TakeProfit,
		StopLoss:     input.StopLoss,
	}
	if err := s.db.Create(strategy).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return strategy, nil
}

// GetUserStrategies returns a paginated list of the user's strategies,
// newest first.
func (s *strategyService) GetUserStrategies(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Strategy], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Strategy{}).Where("user_id = ?", userID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var strategies []models.Strategy
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").
		Scopes(pagination.Paginate(page)).Find(&strategies).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(strategies, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetStrategyByID returns a strategy if the user owns it.
func (s *strategyService) GetStrategyByID(userID, strategyID uint) (*models.Strategy, error) {
	var strategy models.Strategy
	if err := s.db.Where("id = ? AND user_id = ?", strategyID, userID).First(&strategy).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrStrategyNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &strategy, nil
}

// UpdateStrategy updates a strategy's configuration fields.
func (s *strategyService) UpdateStrategy(userID, strategyID uint, input StrategyInput) (*models.Strategy, error) {
	strategy, err := s.GetStrategyByID(userID, strategyID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(strategy).Updates(map[string]interface{}{
		"name":          input.Name,
		"description":   input.Description,
		"position_size": input.PositionSize,
		"take_profit":   input.TakeProfit,
		"stop_loss":     input.StopLoss,
	}).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return strategy, nil
}

// ToggleStrategy switches a strategy between active and paused.
func (s *strategyService) ToggleStrategy(userID, strategyID uint, active bool) (*models.Strategy, error) {
	strategy, err := s.GetStrategyByID(userID, strategyID)
	if err != nil {
		return nil, err
	}

	status := models.StrategyStatusPaused
	if active {
		status = models.StrategyStatusActive
	}

	if err := s.db.Model(strategy).Update("status", status).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return strategy, nil
}

// EmergencyStop pauses every strategy the user owns.
func (s *strategyService) EmergencyStop(userID uint) (int64, error) {
	result := s.db.Model(&models.Strategy{}).
		Where("user_id = ?", userID).
		Update("status", models.StrategyStatusPaused)
	if result.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	return result.RowsAffected, nil
}

// SetStatus applies a status update reported by the trading backend. The
// backend addresses strategies by ID without user scoping.
func (s *strategyService) SetStatus(strategyID uint, status models.StrategyStatus, profitRate *float64) (*models.Strategy, error) {
	var strategy models.Strategy
	if err := s.db.First(&strategy, strategyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrStrategyNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	updates := map[string]interface{}{"status": status}
	if profitRate != nil {
		updates["profit_rate"] = *profitRate
	}
	if err := s.db.Model(&strategy).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &strategy, nil
}
