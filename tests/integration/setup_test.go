package integration

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"moneylovers/internal/clock"
	"moneylovers/internal/logger"
	"moneylovers/internal/metrics"
	"moneylovers/internal/middleware"
	"moneylovers/internal/models"
	"moneylovers/internal/server"
	"moneylovers/internal/validator"
)

const (
	testJWTSecret = "integration-secret"
	testAPIKey    = "integration-cron-key"
)

// testToday is the date every integration test runs on.
var testToday = time.Date(2024, 5, 25, 0, 0, 0, 0, time.UTC)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
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
		&models.Category{},
		&models.Transaction{},
		&models.RecurringTransaction{},
		&models.Budget{},
		&models.Notification{},
		&models.AuditLog{},
		&models.Partnership{},
		&models.PartnershipInvitation{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory
// SQLite database and a clock pinned to testToday.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	clk := clock.Fixed(testToday)
	svc := server.NewServices(db, clk, metrics.NewMetrics())
	router := server.NewRouter(svc, clk, server.Options{
		JWTSecret:       testJWTSecret,
		SchedulerAPIKey: testAPIKey,
	})

	return &testApp{DB: db, Router: router}
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

// cron calls an internal route with the scheduler API key.
func (app *testApp) cron(method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("X-API-Key", testAPIKey)
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

// createUser stores a user directly, the way the identity service would, and
// returns an access token for it.
func (app *testApp) createUser(t *testing.T, email string) (token, userID string) {
	t.Helper()
	user := &models.User{Email: email, Password: "not-used", DisplayName: "Test", IsActive: true}
	if err := app.DB.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	token, err := middleware.GenerateAccessToken(testJWTSecret, user.ID, email, time.Hour)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return token, user.ID
}

// createCategory creates a category through the API and returns its ID.
func (app *testApp) createCategory(t *testing.T, token, name string, categoryType models.CategoryType) string {
	t.Helper()
	rec := app.request("POST", "/api/v1/categories",
		fmt.Sprintf(`{"name":%q,"type":%q}`, name, categoryType), token)
	if rec.Code != 201 {
		t.Fatalf("expected 201 creating category, got %d: %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["category"].(map[string]interface{})["id"].(string)
}

// pair makes the inviter and joiner partners through the API and returns the
// partnership ID.
func (app *testApp) pair(t *testing.T, inviterToken, joinerToken string) string {
	t.Helper()
	rec := app.request("POST", "/api/v1/partnerships/invite", "", inviterToken)
	if rec.Code != 201 {
		t.Fatalf("expected 201 creating invitation, got %d: %s", rec.Code, rec.Body.String())
	}
	code := parseJSON(t, rec)["invitation_code"].(string)

	rec = app.request("POST", "/api/v1/partnerships/join", fmt.Sprintf(`{"invitation_code":%q}`, code), joinerToken)
	if rec.Code != 201 {
		t.Fatalf("expected 201 joining partnership, got %d: %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)["partnership"].(map[string]interface{})["id"].(string)
}

// assertDecimal compares a JSON decimal string with want.
func assertDecimal(t *testing.T, field string, got interface{}, want string) {
	t.Helper()
	s, ok := got.(string)
	if !ok {
		t.Fatalf("expected %s to be a decimal string, got %T (%v)", field, got, got)
	}
	if !decimal.RequireFromString(s).Equal(decimal.RequireFromString(want)) {
		t.Errorf("expected %s = %s, got %s", field, want, s)
	}
}
