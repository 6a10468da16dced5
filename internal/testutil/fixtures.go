package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"tradepilot/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestSettings creates fully configured brokerage settings for the user.
func CreateTestSettings(t *testing.T, db *gorm.DB, userID uint) *models.UserSettings {
	t.Helper()

	settings := &models.UserSettings{
		UserID:             userID,
		BackendURL:         "http://localhost:8000",
		BrokerageType:      models.BrokerageKoreaInvestment,
		APIKeyEncrypted:    fmt.Sprintf("test-app-key-%d", nextID()),
		APISecretEncrypted: fmt.Sprintf("test-app-secret-%d", nextID()),
		AccountNumber:      "12345678-01",
		UseProduction:      false,
	}
	if err := db.Create(settings).Error; err != nil {
		t.Fatalf("failed to create test settings: %v", err)
	}
	return settings
}

// CreateTestHolding creates a holding row for the user.
func CreateTestHolding(t *testing.T, db *gorm.DB, userID uint, stockCode string, qty int64, avgPrice, currentPrice float64) *models.Holding {
	t.Helper()

	holding := &models.Holding{
		UserID:       userID,
		StockCode:    stockCode,
		StockName:    fmt.Sprintf("Test Stock %s", stockCode),
		AccountName:  "한국투자증권 01",
		Quantity:     qty,
		AvgPrice:     avgPrice,
		CurrentPrice: currentPrice,
	}
	if err := db.Create(holding).Error; err != nil {
		t.Fatalf("failed to create test holding: %v", err)
	}
	return holding
}

// CreateTestStrategy creates a strategy in the given status.
func CreateTestStrategy(t *testing.T, db *gorm.DB, userID uint, status models.StrategyStatus) *models.Strategy {
	t.Helper()

	strategy := &models.Strategy{
		UserID:       userID,
		Name:         fmt.Sprintf("Test Strategy %d", nextID()),
		Status:       status,
		PositionSize: 10,
		TakeProfit:   5,
		StopLoss:     3,
	}
	if err := db.Create(strategy).Error; err != nil {
		t.Fatalf("failed to create test strategy: %v", err)
	}
	return strategy
}

// CreateTestTradeLog creates a trade-log event for the user.
func CreateTestTradeLog(t *testing.T, db *gorm.DB, userID uint, category models.TradeLogCategory) *models.TradeLog {
	t.Helper()

	log := &models.TradeLog{
		UserID:   userID,
		Category: category,
		Level:    models.TradeLogLevelInfo,
		Message:  fmt.Sprintf("test event %d", nextID()),
	}
	if err := db.Create(log).Error; err != nil {
		t.Fatalf("failed to create test trade log: %v", err)
	}
	return log
}
