package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"tradepilot/internal/brokerage"
	"tradepilot/internal/handlers"
	"tradepilot/internal/logger"
	"tradepilot/internal/middleware"
	"tradepilot/internal/models"
	"tradepilot/internal/services"
	"tradepilot/internal/validator"
)

const pipelineKey = "integration-pipeline-key"

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB        *gorm.DB
	Router    *gin.Engine
	Brokerage *stubBrokerage
}

// stubBrokerage stands in for the real brokerage API. Tests set its holdings
// or error to drive sync outcomes.
type stubBrokerage struct {
	holdings []brokerage.Holding
	err      error
	calls    atomic.Int64
}

func (s *stubBrokerage) Name() string { return "한국투자증권" }

func (s *stubBrokerage) FetchHoldings(ctx context.Context, creds brokerage.Credentials) ([]brokerage.Holding, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.holdings, nil
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.UserSettings{},
		&models.Strategy{},
		&models.Holding{},
		&models.TradeLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	stub := &stubBrokerage{}
	factory := func(brokerageType string, useProduction bool) (brokerage.Adapter, error) {
		return stub, nil
	}

	// Services
	userService := services.NewUserService(db)
	settingsService := services.NewSettingsService(db)
	holdingsService := services.NewHoldingsService(db, settingsService, factory)
	strategyService := services.NewStrategyService(db)
	tradeLogService := services.NewTradeLogService(db, nil)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	holdingsHandler := handlers.NewHoldingsHandler(holdingsService)
	strategyHandler := handlers.NewStrategyHandler(strategyService)
	tradeLogHandler := handlers.NewTradeLogHandler(tradeLogService, nil)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.RefreshToken)

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())
	protected.GET("/profile", authHandler.GetProfile)
	protected.GET("/settings", settingsHandler.GetSettings)
	protected.PUT("/settings", settingsHandler.UpdateSettings)
	protected.GET("/holdings", holdingsHandler.GetHoldings)
	protected.POST("/holdings/sync", holdingsHandler.SyncHoldings)
	protected.GET("/portfolio/summary", holdingsHandler.GetPortfolioSummary)

	strategies := protected.Group("/strategies")
	strategies.POST("", strategyHandler.CreateStrategy)
	strategies.GET("", strategyHandler.GetStrategies)
	strategies.POST("/emergency-stop", strategyHandler.EmergencyStop)
	strategies.PUT("/:id", strategyHandler.UpdateStrategy)
	strategies.POST("/:id/toggle", strategyHandler.ToggleStrategy)

	protected.GET("/logs", tradeLogHandler.GetLogs)

	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(pipelineKey))
	pipeline.POST("/logs", tradeLogHandler.IngestLog)
	pipeline.PUT("/strategies/:id/status", strategyHandler.SetStatus)

	return &testApp{DB: db, Router: router, Brokerage: stub}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// pipelineRequest makes a request authenticated with the pipeline API key.
func (app *testApp) pipelineRequest(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", pipelineKey)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the access token and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (token string, userID float64) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"display_name":"Test User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["access_token"].(string), user["id"].(float64)
}

// configureBrokerage saves complete brokerage settings for the user.
func (app *testApp) configureBrokerage(t *testing.T, token string) {
	t.Helper()
	rec := app.request("PUT", "/api/v1/settings",
		`{"brokerage_type":"korea_investment","api_key":"k","api_secret":"s","account_number":"12345678-01"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("settings update failed: %d %s", rec.Code, rec.Body.String())
	}
}
