package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"fitclub/internal/config"
	"fitclub/internal/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	gin.SetMode(gin.TestMode)

	os.Exit(m.Run())
}

func testConfig() *config.Config {
	return &config.Config{
		Port:                 "0",
		RateLimitRPS:         100,
		RateLimitBurst:       100,
		DefaultClassCapacity: 10,
	}
}

func newTestServer(t *testing.T) (*Server, sqlmock.Sqlmock) {
	raw, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })

	return New(sqlx.NewDb(raw, "sqlmock"), testConfig(), nil), mock
}

func get(s *Server, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealth(t *testing.T) {
	s, mock := newTestServer(t)

	mock.ExpectPing()
	w := get(s, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	w = get(s, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"degraded"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	w := get(s, "/metrics")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestAdminOverview(t *testing.T) {
	s, mock := newTestServer(t)

	mock.ExpectQuery(`FROM trainers`).WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).AddRow(1, "Alex", "alex@example.com"))
	mock.ExpectQuery(`FROM rooms`).WillReturnRows(sqlmock.NewRows([]string{"id", "name", "capacity", "location"}).AddRow(1, "Studio A", 20, ""))
	mock.ExpectQuery(`FROM members`).WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "date_of_birth", "gender", "phone", "created_at"}))
	mock.ExpectQuery(`FROM invoices`).WillReturnRows(sqlmock.NewRows([]string{"id", "member_id", "description", "amount_cents", "status", "payment_method", "created_at", "paid_at"}))
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM class_sessions cs`).WillReturnRows(sqlmock.NewRows([]string{"id", "title", "trainer_id", "room_id", "start_time", "end_time", "capacity", "registered_count"}))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectQuery(`FROM pt_sessions`).WillReturnRows(sqlmock.NewRows([]string{"id", "member_id", "trainer_id", "room_id", "start_time", "end_time", "status"}))
	mock.ExpectCommit()

	w := get(s, "/api/v1/admin/overview")

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	for _, key := range []string{"trainers", "rooms", "members", "invoices", "class_sessions", "pt_sessions"} {
		assert.Contains(t, body, key)
	}
	assert.JSONEq(t, `[]`, string(body["pt_sessions"]))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminOverview_StorageDown(t *testing.T) {
	s, mock := newTestServer(t)
	mock.ExpectQuery(`FROM trainers`).WillReturnError(errors.New("connection refused"))

	w := get(s, "/api/v1/admin/overview")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestNotificationQueue_Disabled(t *testing.T) {
	s, _ := newTestServer(t)

	w := get(s, "/api/v1/admin/notifications")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"enabled":false,"queued":0}`, w.Body.String())
}

func TestRoutes_Registered(t *testing.T) {
	s, _ := newTestServer(t)

	registered := map[string]bool{}
	for _, r := range s.router.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	for _, want := range []string{
		"POST /api/v1/classes",
		"GET /api/v1/classes/upcoming",
		"PUT /api/v1/classes/:id/room",
		"POST /api/v1/classes/:id/registrations",
		"POST /api/v1/pt-sessions",
		"PUT /api/v1/pt-sessions/:id/status",
		"POST /api/v1/trainers/:id/availability",
		"GET /api/v1/trainers/:id/schedule",
		"GET /api/v1/members/search",
		"PATCH /api/v1/members/:id",
		"GET /api/v1/members/:id/dashboard",
		"POST /api/v1/invoices/:id/pay",
		"GET /api/v1/admin/overview",
		"GET /swagger/*any",
	} {
		assert.True(t, registered[want], want)
	}
}

func TestSwaggerDoc_DescribesEveryRoute(t *testing.T) {
	s, _ := newTestServer(t)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var doc struct {
		BasePath string                            `json:"basePath"`
		Paths    map[string]map[string]interface{} `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "/api/v1", doc.BasePath)

	for _, r := range s.router.Routes() {
		if strings.HasPrefix(r.Path, "/swagger/") {
			continue
		}
		path := strings.TrimPrefix(r.Path, doc.BasePath)
		path = strings.ReplaceAll(path, ":id", "{id}")

		_, ok := doc.Paths[path][strings.ToLower(r.Method)]
		assert.True(t, ok, "%s %s is not documented", r.Method, r.Path)
	}
}

func TestShutdown_NotStarted(t *testing.T) {
	s, _ := newTestServer(t)
	assert.NoError(t, s.Shutdown(context.Background()))
}
