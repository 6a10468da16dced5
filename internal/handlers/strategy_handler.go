package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "tradepilot/internal/errors"
	"tradepilot/internal/models"
	"tradepilot/internal/pagination"
	"tradepilot/internal/services"
)

// StrategyHandler handles trading-strategy requests from dashboard users and
// status updates from the trading backend.
type StrategyHandler struct {
	strategyService services.StrategyServicer
}

// NewStrategyHandler creates a new StrategyHandler.
func NewStrategyHandler(strategyService services.StrategyServicer) *StrategyHandler {
	return &StrategyHandler{strategyService: strategyService}
}

// StrategyRequest represents the strategy create/update payload.
type StrategyRequest struct {
	Name         string  `json:"name" binding:"required,max=100"`
	Description  string  `json:"description" binding:"max=500"`
	PositionSize float64 `json:"position_size" binding:"gte=0"`
	TakeProfit   float64 `json:"take_profit" binding:"gte=0"`
	StopLoss     float64 `json:"stop_loss" binding:"gte=0"`
}

// ToggleRequest represents the strategy toggle payload.
type ToggleRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// StatusUpdateRequest represents a status update from the trading backend.
type StatusUpdateRequest struct {
	Status     string   `json:"status" binding:"required,strategy_status"`
	ProfitRate *float64 `json:"profit_rate"`
}

// CreateStrategy creates a new strategy in the paused state.
// @Summary     Create strategy
// @Description Create a new trading strategy for the authenticated user
// @Tags        strategies
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body StrategyRequest true "Strategy data"
// @Success     201 {object} models.Strategy "Created strategy"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /strategies [post]
func (h *StrategyHandler) CreateStrategy(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req StrategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	strategy, err := h.strategyService.CreateStrategy(userID, services.StrategyInput{
		Name:         req.Name,
		Description:  req.Description,
		PositionSize: req.PositionSize,
		TakeProfit:   req.TakeProfit,
		StopLoss:     req.StopLoss,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"strategy": strategy})
}

// GetStrategies returns a paginated list of the user's strategies.
// @Summary     List strategies
// @Description Get the authenticated user's strategies, newest first
// @Tags        strategies
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number" default(1)
// @Param       page_size query int false "Items per page" default(20)
// @Success     200 {object} pagination.PageResponse[models.Strategy] "Strategies page"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /strategies [get]
func (h *StrategyHandler) GetStrategies(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.strategyService.GetUserStrategies(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateStrategy updates a strategy's configuration.
// @Summary     Update strategy
// @Description Update a strategy's configuration fields
// @Tags        strategies
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Strategy ID"
// @Param       request body StrategyRequest true "Strategy data"
// @Success     200 {object} models.Strategy "Updated strategy"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Strategy not found"
// @Router      /strategies/{id} [put]
func (h *StrategyHandler) UpdateStrategy(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	strategyID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req StrategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	strategy, err := h.strategyService.UpdateStrategy(userID, strategyID, services.StrategyInput{
		Name:         req.Name,
		Description:  req.Description,
		PositionSize: req.PositionSize,
		TakeProfit:   req.TakeProfit,
		StopLoss:     req.StopLoss,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"strategy": strategy})
}

// ToggleStrategy switches a strategy between active and paused.
// @Summary     Toggle strategy
// @Description Activate or pause a strategy
// @Tags        strategies
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Strategy ID"
// @Param       request body ToggleRequest true "Desired state"
// @Success     200 {object} models.Strategy "Updated strategy"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Strategy not found"
// @Router      /strategies/{id}/toggle [post]
func (h *StrategyHandler) ToggleStrategy(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	strategyID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	strategy, err := h.strategyService.ToggleStrategy(userID, strategyID, *req.Active)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"strategy": strategy})
}

// EmergencyStop pauses every strategy the user owns.
// @Summary     Emergency stop
// @Description Pause all of the authenticated user's strategies at once
// @Tags        strategies
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Number of strategies stopped"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /strategies/emergency-stop [post]
func (h *StrategyHandler) EmergencyStop(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	stopped, err := h.strategyService.EmergencyStop(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stopped": stopped,
	})
}

// SetStatus applies a status update reported by the trading backend.
// Authenticated by the pipeline API key, not a user token.
// @Summary     Update strategy status
// @Description Apply a run-state update reported by the trading backend
// @Tags        pipeline
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       id path int true "Strategy ID"
// @Param       request body StatusUpdateRequest true "Status update"
// @Success     200 {object} models.Strategy "Updated strategy"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Failure     404 {object} ErrorResponse "Strategy not found"
// @Router      /pipeline/strategies/{id}/status [put]
func (h *StrategyHandler) SetStatus(c *gin.Context) {
	strategyID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	strategy, err := h.strategyService.SetStatus(strategyID, models.StrategyStatus(req.Status), req.ProfitRate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"strategy": strategy})
}
