package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"brgyalert/backend/internal/account"
	"brgyalert/backend/internal/alert"
	"brgyalert/backend/internal/alerthub"
	"brgyalert/backend/internal/api"
	"brgyalert/backend/internal/api/handler"
	"brgyalert/backend/internal/audit"
	"brgyalert/backend/internal/chatbot"
	"brgyalert/backend/internal/config"
	"brgyalert/backend/internal/dashboard"
	"brgyalert/backend/internal/localization"
	"brgyalert/backend/internal/models"
	"brgyalert/backend/internal/ratelimit"
	"brgyalert/backend/internal/report"
	"brgyalert/backend/internal/session"
	"brgyalert/backend/internal/storage"
	"brgyalert/backend/internal/storage/mocks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := handler.RegisterValidators(); err != nil {
		panic(err)
	}
}

type testServer struct {
	store  *mocks.MockStorage
	issuer *session.Issuer
	router *gin.Engine
	admin  *models.User
}

func newTestServer(t *testing.T, health map[string]handler.Pinger) *testServer {
	t.Helper()
	store := new(mocks.MockStorage)
	issuer := session.NewIssuer("test-secret", config.DefaultIssuer)
	limiter := ratelimit.New(ratelimit.NewMemoryStore(), config.AuthAttemptLimit, config.AuthAttemptWindow)
	l, err := localization.Bundled()
	require.NoError(t, err)

	h := &handler.Handler{
		Accounts:  account.NewService(store, issuer, limiter),
		Alerts:    alert.NewService(store),
		Reports:   report.NewService(store, report.Free),
		Audit:     audit.NewService(store),
		Dashboard: dashboard.NewService(store),
		Chatbot:   chatbot.NewService(store, l),
		Hub:       alerthub.NewManagerService(),
	}
	admin := &models.User{ID: "admin-id", Email: "admin@brgy.gov.ph", Name: "Kapitan", Role: models.RoleAdmin, Status: models.UserActive}
	store.On("GetUserByID", mock.Anything, admin.ID).Return(admin, nil).Maybe()

	return &testServer{
		store:  store,
		issuer: issuer,
		admin:  admin,
		router: api.NewRouter(h, api.RouterConfig{Sessions: issuer, Users: store, Health: health}),
	}
}

func (s *testServer) tokenFor(t *testing.T, u *models.User) string {
	t.Helper()
	tok, _, err := s.issuer.Issue(u.ID, u.Role, u.Email)
	require.NoError(t, err)
	return tok
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func errorKind(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Kind string `json:"kind"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body.Error.Kind
}

func countLogs(store *mocks.MockStorage, action string) int {
	n := 0
	for _, call := range store.Calls {
		if call.Method != "AppendLog" {
			continue
		}
		if entry, ok := call.Arguments.Get(1).(*models.SystemLog); ok && entry.Action == action {
			n++
		}
	}
	return n
}

// Walks the resident journey end to end: sign-up, lockout after failed logins,
// filing a report and an admin resolving it.
func TestResidentScenario(t *testing.T) {
	srv := newTestServer(t, nil)
	store := srv.store
	pedro := &models.User{}

	store.On("GetUserByEmail", mock.Anything, "pedro@gmail.com").Return(nil, storage.ErrNotFound).Once()
	store.On("CreateUser", mock.Anything, mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		u := args.Get(1).(*models.User)
		u.ID = "pedro-id"
		u.CreatedAt = time.Now().UTC()
		*pedro = *u
	}).Return(nil).Once()
	store.On("AppendLog", mock.Anything, mock.AnythingOfType("*models.SystemLog")).Return(nil)
	store.On("EnqueueOutbox", mock.Anything, mock.AnythingOfType("*models.OutboxMessage")).Return(nil)

	// Register
	w := srv.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "pedro@gmail.com", "password": "Resident123", "name": "Pedro Penduko", "role": "ADMIN",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var reg account.AuthResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reg))
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, "bearer", reg.TokenType)
	assert.Equal(t, models.RoleResident, reg.User.Role)

	// Five wrong passwords, then the right one is still refused
	store.On("GetUserByEmail", mock.Anything, "pedro@gmail.com").Return(pedro, nil)
	for i := 0; i < config.AuthAttemptLimit; i++ {
		w = srv.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "pedro@gmail.com", "password": "wrong-pass1"})
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}
	w = srv.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "pedro@gmail.com", "password": "Resident123"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "rate_limited", errorKind(t, w))

	// File a report with the registration token
	store.On("GetUserByID", mock.Anything, "pedro-id").Return(pedro, nil)
	var filed *models.Report
	store.On("CreateReport", mock.Anything, mock.AnythingOfType("*models.Report")).Run(func(args mock.Arguments) {
		r := args.Get(1).(*models.Report)
		r.ID = "report-1"
		r.CreatedAt = time.Now().UTC().Add(-time.Minute)
		copied := *r
		filed = &copied
	}).Return(nil)

	w = srv.do(http.MethodPost, "/api/reports", reg.Token, gin.H{
		"type": "Flood", "title": "Baha sa Purok 3", "description": "Knee-deep water near the chapel since 6am.",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, models.ReportPending, created.Status)
	assert.Equal(t, models.ReportFlood, created.Type)
	assert.Nil(t, created.ResolvedAt)

	// Admin resolves it
	store.On("GetReportForUpdate", mock.Anything, "report-1").Return(filed, nil)
	store.On("SaveReport", mock.Anything, mock.AnythingOfType("*models.Report")).Return(nil)
	store.On("UserNames", mock.Anything, []string{"pedro-id"}).Return(map[string]string{"pedro-id": "Pedro Penduko"}, nil)

	w = srv.do(http.MethodPut, "/api/reports/report-1/status", srv.tokenFor(t, srv.admin), gin.H{
		"status": "resolved", "official_response": "Drainage cleared by the barangay team.",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resolved models.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resolved))
	assert.Equal(t, models.ReportResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)
	assert.False(t, resolved.ResolvedAt.Before(filed.CreatedAt))
	require.NotNil(t, resolved.OfficialResponse)
	assert.Equal(t, "Drainage cleared by the barangay team.", *resolved.OfficialResponse)
	assert.Equal(t, "Pedro Penduko", resolved.CreatedByName)
	assert.Equal(t, 1, countLogs(store, audit.ActionReportStatusUpdate))
}

func TestRegister_Validation(t *testing.T) {
	srv := newTestServer(t, nil)

	w := srv.do(http.MethodPost, "/api/auth/register", "", gin.H{"email": "not-an-email", "password": "Resident123", "name": "Pedro"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "validation_error", errorKind(t, w))

	w = srv.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"email": "a@b.ph", "password": "Resident123", "name": "Pedro", "phone": "call me maybe",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "phone")

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegister_DuplicateEmailIs400(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.store.On("GetUserByEmail", mock.Anything, "maria@gmail.com").Return(&models.User{ID: "u1"}, nil)

	w := srv.do(http.MethodPost, "/api/auth/register", "", gin.H{"email": "maria@gmail.com", "password": "Resident123", "name": "Maria"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "conflict", errorKind(t, w))
}

func TestResidentCannotCreateAlert(t *testing.T) {
	srv := newTestServer(t, nil)
	resident := &models.User{ID: "res-id", Role: models.RoleResident, Status: models.UserActive}
	srv.store.On("GetUserByID", mock.Anything, resident.ID).Return(resident, nil)
	tok := srv.tokenFor(t, resident)

	for _, body := range []interface{}{
		gin.H{"title": "Typhoon signal no. 2", "message": "Secure loose objects and stay indoors."},
		gin.H{},
		nil,
	} {
		w := srv.do(http.MethodPost, "/api/alerts", tok, body)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "forbidden", errorKind(t, w))
	}
	srv.store.AssertNotCalled(t, "CreateAlert", mock.Anything, mock.Anything)
}

func TestAdminOnlyRoutes(t *testing.T) {
	srv := newTestServer(t, nil)
	official := &models.User{ID: "off-id", Role: models.RoleOfficial, Status: models.UserActive}
	srv.store.On("GetUserByID", mock.Anything, official.ID).Return(official, nil)
	tok := srv.tokenFor(t, official)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/users"},
		{http.MethodPut, "/api/users/u1/role"},
		{http.MethodPut, "/api/users/u1/status"},
		{http.MethodPut, "/api/users/u1/password"},
		{http.MethodGet, "/api/logs"},
	} {
		w := srv.do(tc.method, tc.path, tok, gin.H{})
		assert.Equal(t, http.StatusForbidden, w.Code, tc.path)
	}
}

func TestListLogs(t *testing.T) {
	srv := newTestServer(t, nil)
	details := "Report submitted"
	actor := "pedro-id"
	srv.store.On("ListLogs", mock.Anything, 50).Return([]models.SystemLog{
		{ID: 2, Action: audit.ActionReportCreate, UserID: &actor, Details: &details},
		{ID: 1, Action: audit.ActionUserCreated},
	}, nil)
	srv.store.On("UserNames", mock.Anything, []string{"pedro-id"}).Return(map[string]string{"pedro-id": "Pedro"}, nil)
	tok := srv.tokenFor(t, srv.admin)

	w := srv.do(http.MethodGet, "/api/logs?limit=50", tok, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var logs []models.SystemLog
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &logs))
	require.Len(t, logs, 2)
	assert.Equal(t, "Pedro", logs[0].UserName)

	w = srv.do(http.MethodGet, "/api/logs?limit=abc", tok, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestNewAlerts(t *testing.T) {
	srv := newTestServer(t, nil)
	tok := srv.tokenFor(t, srv.admin)
	since := time.Date(2025, 8, 1, 6, 0, 0, 0, time.UTC)
	srv.store.On("ListAlerts", mock.Anything, mock.MatchedBy(func(f storage.AlertFilter) bool {
		return f.ActiveOnly && f.Since != nil && f.Since.Equal(since)
	})).Return([]models.Alert{}, nil)

	w := srv.do(http.MethodGet, "/api/alerts/new?since="+since.Format(time.RFC3339), tok, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `[]`, w.Body.String())

	w = srv.do(http.MethodGet, "/api/alerts/new?since=yesterday", tok, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = srv.do(http.MethodGet, "/api/alerts/new", tok, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestUnauthenticatedRequests(t *testing.T) {
	srv := newTestServer(t, nil)

	for _, path := range []string{"/api/auth/me", "/api/alerts", "/api/reports", "/api/stats/dashboard", "/api/ws/alerts"} {
		w := srv.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.Equal(t, "unauthenticated", errorKind(t, w))
	}
}

func TestChatbotQuery(t *testing.T) {
	srv := newTestServer(t, nil)
	srv.store.On("AppendLog", mock.Anything, mock.AnythingOfType("*models.SystemLog")).Return(nil)
	tok := srv.tokenFor(t, srv.admin)

	w := srv.do(http.MethodPost, "/api/chatbot/query", tok, gin.H{"message": "What are the office hours?", "session_id": "s-1"})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var reply chatbot.Reply
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	assert.Equal(t, "s-1", reply.SessionID)
	assert.Equal(t, chatbot.TopicOfficeHours, reply.Topic)
	assert.Equal(t, 1, countLogs(srv.store, audit.ActionChatbotQuery))
}

func TestHealth(t *testing.T) {
	up := func(ctx context.Context) error { return nil }
	down := func(ctx context.Context) error { return errors.New("connection refused") }

	srv := newTestServer(t, map[string]handler.Pinger{"database": up})
	w := srv.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","checks":{"database":"up"}}`, w.Body.String())

	srv = newTestServer(t, map[string]handler.Pinger{"database": up, "redis": down})
	w = srv.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"degraded","checks":{"database":"up","redis":"down"}}`, w.Body.String())
}
