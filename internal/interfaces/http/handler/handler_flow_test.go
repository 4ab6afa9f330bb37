package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	auditapp "github.com/supplyoffice/backend/internal/application/audit"
	inventoryapp "github.com/supplyoffice/backend/internal/application/inventory"
	notificationapp "github.com/supplyoffice/backend/internal/application/notification"
	releaseapp "github.com/supplyoffice/backend/internal/application/release"
	requestapp "github.com/supplyoffice/backend/internal/application/request"
	"github.com/supplyoffice/backend/internal/domain/audit"
	"github.com/supplyoffice/backend/internal/domain/identity"
	"github.com/supplyoffice/backend/internal/domain/inventory"
	"github.com/supplyoffice/backend/internal/domain/notification"
	"github.com/supplyoffice/backend/internal/domain/release"
	"github.com/supplyoffice/backend/internal/domain/request"
	"github.com/supplyoffice/backend/internal/infrastructure/auth"
	"github.com/supplyoffice/backend/internal/infrastructure/config"
	"github.com/supplyoffice/backend/internal/infrastructure/event"
	"github.com/supplyoffice/backend/internal/infrastructure/persistence"
	"github.com/supplyoffice/backend/internal/infrastructure/push"
	"github.com/supplyoffice/backend/internal/infrastructure/report"
	"github.com/supplyoffice/backend/internal/interfaces/http/handler"
	"github.com/supplyoffice/backend/internal/interfaces/http/router"
)

// testServer runs the full HTTP stack against an in-memory database.
type testServer struct {
	engine        *gin.Engine
	employeeToken string
	adminToken    string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&identity.User{},
		&inventory.Category{},
		&inventory.CategoryHistoryEntry{},
		&inventory.Item{},
		&request.InventoryRequest{},
		&request.Item{},
		&release.ReleaseRequest{},
		&release.Item{},
		&release.ReleaseReport{},
		&release.ReportItem{},
		&notification.Notification{},
		&audit.Event{},
	))

	log := zap.NewNop()

	userRepo := persistence.NewGormUserRepository(db)
	itemRepo := persistence.NewGormItemRepository(db)
	categoryRepo := persistence.NewGormCategoryRepository(db)
	historyRepo := persistence.NewGormCategoryHistoryRepository(db)
	requestRepo := persistence.NewGormInventoryRequestRepository(db)
	releaseRequestRepo := persistence.NewGormReleaseRequestRepository(db)
	releaseReportRepo := persistence.NewGormReleaseReportRepository(db)
	notificationRepo := persistence.NewGormNotificationRepository(db)
	scope := persistence.NewGormTransactionScope(db)

	hub := push.NewHub(push.NewLocalBroadcaster(), push.WithHubLogger(log))
	require.NoError(t, hub.Start())
	t.Cleanup(hub.Stop)

	bus := event.NewInMemoryEventBus(log)
	auditor := auditapp.NewRecorder(log)
	dispatcher := notificationapp.NewDispatcher(notificationRepo, userRepo, hub, log)
	inventoryService := inventoryapp.NewService(scope, itemRepo, categoryRepo, historyRepo, bus, auditor, log)
	requestService := requestapp.NewService(scope, requestRepo, bus, dispatcher, auditor, log)
	releaseService := releaseapp.NewService(scope, releaseRequestRepo, releaseReportRepo, itemRepo, bus, dispatcher, auditor, log)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret",
		AccessTokenExpiration: time.Hour,
		Issuer:                "supplyoffice",
	})

	engine := router.Setup(&config.Config{App: config.AppConfig{Env: "test"}}, log, jwtService, &router.Handlers{
		System:       handler.NewSystemHandler(db),
		Inventory:    handler.NewInventoryHandler(inventoryService, dispatcher),
		Request:      handler.NewRequestHandler(requestService),
		Release:      handler.NewReleaseHandler(releaseService, report.NewExcelRenderer()),
		Notification: handler.NewNotificationHandler(dispatcher),
		Events:       handler.NewEventsHandler(hub, log),
	})

	employee, err := identity.NewUser("Maria Santos", "maria@supply.edu", identity.RoleEmployee)
	require.NoError(t, err)
	admin, err := identity.NewUser("Admin One", "admin@supply.edu", identity.RoleAdmin)
	require.NoError(t, err)
	require.NoError(t, db.Create(employee).Error)
	require.NoError(t, db.Create(admin).Error)

	employeeToken, _, err := jwtService.GenerateToken(employee)
	require.NoError(t, err)
	adminToken, _, err := jwtService.GenerateToken(admin)
	require.NoError(t, err)

	return &testServer{engine: engine, employeeToken: employeeToken, adminToken: adminToken}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (int, envelope) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && strings.Contains(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w.Code, env
}

func field(t *testing.T, raw json.RawMessage, key string) any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	return m[key]
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestAuthenticationRequired(t *testing.T) {
	s := newTestServer(t)
	code, env := s.do(t, http.MethodGet, "/api/v1/requests", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "ERR_UNAUTHORIZED", env.Error.Code)
}

func TestAdminOnlyRoutes(t *testing.T) {
	s := newTestServer(t)
	code, env := s.do(t, http.MethodPost, "/api/v1/inventory/items", s.employeeToken,
		`{"supplier":"NBS","name":"Stapler","category_name":"Office","location":"Shelf 2","unit":"pc","quantity":5,"unit_cost":"150"}`)
	assert.Equal(t, http.StatusForbidden, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "ERR_FORBIDDEN", env.Error.Code)
}

// TestRequestToReleaseFlow drives one full cycle: an employee asks for
// supplies, the admin approves them into the ledger, the employee asks
// to take them out, and the admin generates the release report.
func TestRequestToReleaseFlow(t *testing.T) {
	s := newTestServer(t)

	// employee submits an inventory request
	code, env := s.do(t, http.MethodPost, "/api/v1/requests", s.employeeToken,
		`{"items":[{"supplier":"National Bookstore","name":"Bond Paper A4","category_name":"Paper","location":"Stock Room 1","unit":"ream","quantity":10,"unit_cost":"220"}]}`)
	require.Equal(t, http.StatusCreated, code)
	requestID, _ := field(t, env.Data, "id").(string)
	require.NotEmpty(t, requestID)
	assert.Equal(t, "pending", field(t, env.Data, "status"))

	// admin approves it
	code, env = s.do(t, http.MethodPost, "/api/v1/requests/"+requestID+"/review", s.adminToken,
		`{"decision":"approved"}`)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)

	// the approved line landed in the ledger
	code, env = s.do(t, http.MethodGet, "/api/v1/inventory/items", s.employeeToken, "")
	require.Equal(t, http.StatusOK, code)
	var items []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Bond Paper A4", items[0]["name"])
	assert.Equal(t, float64(10), items[0]["quantity"])
	itemID, _ := items[0]["id"].(string)

	// category history recorded the addition
	categoryID, _ := items[0]["category_id"].(string)
	require.NotEmpty(t, categoryID)
	code, env = s.do(t, http.MethodGet, "/api/v1/categories/"+categoryID+"/history", s.employeeToken, "")
	require.Equal(t, http.StatusOK, code)
	var history []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &history))
	require.NotEmpty(t, history)
	assert.Equal(t, "item_added", history[0]["change_type"])

	// employee submits a release request for part of the stock
	code, env = s.do(t, http.MethodPost, "/api/v1/releases", s.employeeToken,
		`{"department_office":"Registrar","rs_no":"RS-0042","items":[{"inventory_item_id":"`+itemID+`","quantity":4}]}`)
	require.Equal(t, http.StatusCreated, code)
	releaseID, _ := field(t, env.Data, "id").(string)
	require.NotEmpty(t, releaseID)

	// admin approves and generates the report
	code, _ = s.do(t, http.MethodPost, "/api/v1/releases/"+releaseID+"/review", s.adminToken,
		`{"decision":"approved"}`)
	require.Equal(t, http.StatusOK, code)

	code, env = s.do(t, http.MethodPost, "/api/v1/releases/generate", s.adminToken,
		`{"release_request_id":"`+releaseID+`","received_by":"J. Cruz"}`)
	require.Equal(t, http.StatusCreated, code)
	sroNo, _ := field(t, env.Data, "sro_no").(string)
	assert.Contains(t, sroNo, "SRO-")
	reportID, _ := field(t, env.Data, "id").(string)

	// stock went down
	code, env = s.do(t, http.MethodGet, "/api/v1/inventory/items/"+itemID, s.adminToken, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(6), field(t, env.Data, "quantity"))

	// a second generation is rejected without touching stock
	code, env = s.do(t, http.MethodPost, "/api/v1/releases/generate", s.adminToken,
		`{"release_request_id":"`+releaseID+`"}`)
	assert.Equal(t, http.StatusConflict, code)
	require.NotNil(t, env.Error)

	// the report exports as a spreadsheet
	req := httptest.NewRequest(http.MethodGet, "/api/v1/releases/reports/"+reportID+"/export", nil)
	req.Header.Set("Authorization", "Bearer "+s.adminToken)
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	// both sides accumulated notifications along the way
	code, env = s.do(t, http.MethodGet, "/api/v1/notifications/unread-count", s.adminToken, "")
	require.Equal(t, http.StatusOK, code)
	assert.Greater(t, field(t, env.Data, "unread"), float64(0))

	code, env = s.do(t, http.MethodGet, "/api/v1/notifications/unread-count", s.employeeToken, "")
	require.Equal(t, http.StatusOK, code)
	assert.Greater(t, field(t, env.Data, "unread"), float64(0))
}

// TestShortageEscalation drives the shortage report an employee files
// when the shelf cannot cover what they need; admins should see both
// quantities in the alert.
func TestShortageEscalation(t *testing.T) {
	s := newTestServer(t)

	code, env := s.do(t, http.MethodPost, "/api/v1/inventory/items", s.adminToken,
		`{"supplier":"NBS","name":"Bond Paper A4","category_name":"Paper","location":"Stock Room 1","unit":"ream","quantity":3,"unit_cost":"220"}`)
	require.Equal(t, http.StatusCreated, code)
	itemID, _ := field(t, env.Data, "id").(string)
	require.NotEmpty(t, itemID)

	code, _ = s.do(t, http.MethodPost, "/api/v1/inventory/insufficient-stock", s.employeeToken,
		`{"inventory_item_id":"`+itemID+`","requested":9}`)
	require.Equal(t, http.StatusOK, code)

	code, env = s.do(t, http.MethodGet, "/api/v1/notifications", s.adminToken, "")
	require.Equal(t, http.StatusOK, code)
	var notifs []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &notifs))

	found := false
	for _, n := range notifs {
		msg, _ := n["message"].(string)
		if strings.Contains(msg, "requested 9") {
			found = true
			assert.Contains(t, msg, "3 ream on hand")
			assert.Equal(t, "alert", n["type"])
		}
	}
	assert.True(t, found, "no shortage alert carried the requested quantity")

	t.Run("requested quantity is mandatory", func(t *testing.T) {
		code, env := s.do(t, http.MethodPost, "/api/v1/inventory/insufficient-stock", s.employeeToken,
			`{"inventory_item_id":"`+itemID+`"}`)
		assert.Equal(t, http.StatusBadRequest, code)
		require.NotNil(t, env.Error)
	})
}

func TestValidationErrorShape(t *testing.T) {
	s := newTestServer(t)
	code, env := s.do(t, http.MethodPost, "/api/v1/requests", s.employeeToken, `{"items":[]}`)
	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "ERR_VALIDATION", env.Error.Code)
}
