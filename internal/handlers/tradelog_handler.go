package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "tradepilot/internal/errors"
	"tradepilot/internal/models"
	"tradepilot/internal/services"
	"tradepilot/internal/stream"
)

// TradeLogHandler handles trade-log reads, the live stream, and pipeline
// ingestion.
type TradeLogHandler struct {
	tradeLogService services.TradeLogServicer
	notifier        stream.Notifier
}

// NewTradeLogHandler creates a new TradeLogHandler.
func NewTradeLogHandler(tradeLogService services.TradeLogServicer, notifier stream.Notifier) *TradeLogHandler {
	return &TradeLogHandler{tradeLogService: tradeLogService, notifier: notifier}
}

// IngestLogRequest represents one trade-log event from the trading backend.
type IngestLogRequest struct {
	UserID     uint   `json:"user_id" binding:"required"`
	Category   string `json:"category" binding:"required,log_category"`
	Level      string `json:"level" binding:"omitempty,log_level"`
	Message    string `json:"message" binding:"required,max=1000"`
	Reason     string `json:"reason" binding:"max=1000"`
	StrategyID *uint  `json:"strategy_id"`
}

// GetLogs returns the user's most recent trade logs.
// @Summary     List trade logs
// @Description Get the authenticated user's most recent trade logs, newest first
// @Tags        logs
// @Produce     json
// @Security    BearerAuth
// @Param       limit query int false "Maximum number of logs" default(50)
// @Success     200 {array} models.TradeLog "Trade logs"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /logs [get]
func (h *TradeLogHandler) GetLogs(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid limit"))
			return
		}
	}

	logs, err := h.tradeLogService.GetUserLogs(userID, limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

// StreamLogs delivers the user's trade logs live over server-sent events.
// The connection stays open until the client disconnects.
// @Summary     Stream trade logs
// @Description Subscribe to the authenticated user's trade-log stream via SSE
// @Tags        logs
// @Produce     text/event-stream
// @Security    BearerAuth
// @Success     200 {string} string "SSE stream of trade-log events"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /logs/stream [get]
func (h *TradeLogHandler) StreamLogs(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	events, cancel, err := h.notifier.Subscribe(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case entry, ok := <-events:
			if !ok {
				return false
			}
			payload, err := json.Marshal(entry)
			if err != nil {
				return true
			}
			c.SSEvent("trade_log", string(payload))
			return true
		case <-clientGone:
			return false
		}
	})
}

// IngestLog stores a trade-log event from the trading backend and publishes
// it to the user's live stream.
// @Summary     Ingest trade log
// @Description Store a trade-log event reported by the trading backend
// @Tags        pipeline
// @Accept      json
// @Produce     json
// @Security    ApiKeyAuth
// @Param       request body IngestLogRequest true "Trade-log event"
// @Success     201 {object} models.TradeLog "Stored trade log"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid API key"
// @Router      /pipeline/logs [post]
func (h *TradeLogHandler) IngestLog(c *gin.Context) {
	var req IngestLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	level := models.TradeLogLevel(req.Level)
	if req.Level == "" {
		level = models.TradeLogLevelInfo
	}

	log, err := h.tradeLogService.Ingest(c.Request.Context(), services.TradeLogEntry{
		UserID:     req.UserID,
		Category:   models.TradeLogCategory(req.Category),
		Level:      level,
		Message:    req.Message,
		Reason:     req.Reason,
		StrategyID: req.StrategyID,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"log": log})
}
