package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/domain/worktime"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/pkg/lock"
	"github.com/cmlabs-hris/attendance-ledger-go/internal/repository/memory"
	attendanceService "github.com/cmlabs-hris/attendance-ledger-go/internal/service/attendance"
	correctionService "github.com/cmlabs-hris/attendance-ledger-go/internal/service/correction"
	reportService "github.com/cmlabs-hris/attendance-ledger-go/internal/service/report"
	worktimeService "github.com/cmlabs-hris/attendance-ledger-go/internal/service/worktime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handlerTestSecret = "test-secret-key-for-jwt"

// Wednesday 6 March 2024
var handlerTestNow = time.Date(2024, time.March, 6, 10, 0, 0, 0, time.UTC)

type testServer struct {
	handler     http.Handler
	workerID    string
	adminID     string
	workerToken string
	adminToken  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	store.Now = func() time.Time { return time.Date(2024, time.January, 2, 8, 0, 0, 0, time.UTC) }
	users := memory.NewUserRepository(store)
	events := memory.NewEventRepository(store)
	corrections := memory.NewCorrectionRepository(store)
	reports := memory.NewReportRepository(store)
	tx := memory.NewTransactor(store)
	locker := lock.NewLocalLocker()

	worker, err := users.Create(ctx, user.User{FullName: "Ana Worker", Email: "ana@example.com"})
	require.NoError(t, err)
	admin, err := users.Create(ctx, user.User{FullName: "Bo Admin", Email: "bo@example.com", IsAdmin: true})
	require.NoError(t, err)
	store.Now = func() time.Time { return handlerTestNow }

	now := func() time.Time { return handlerTestNow }
	thresholds := worktime.Thresholds{ExpectedDaily: 8 * time.Hour, ExpectedFriday: 8 * time.Hour}

	jwtService := jwt.NewJWTService(handlerTestSecret, "1h")
	workerToken, _, err := jwtService.GenerateAccessToken(worker.ID, false)
	require.NoError(t, err)
	adminToken, _, err := jwtService.GenerateAccessToken(admin.ID, true)
	require.NoError(t, err)

	router := NewRouter(
		RouterOptions{AllowedOrigins: []string{"http://localhost:3000"}, Env: "test", LogLevel: slog.LevelError},
		jwtService,
		NewAttendanceHandler(attendanceService.NewAttendanceService(events, users, tx, locker, attendanceService.Config{Now: now})),
		NewWorktimeHandler(worktimeService.NewWorktimeService(events, users, worktimeService.Config{Thresholds: thresholds, Now: now})),
		NewCorrectionHandler(correctionService.NewCorrectionService(corrections, events, tx, locker, correctionService.Config{Now: now})),
		NewReportHandler(reportService.NewReportService(reports, events, users, tx, locker, reportService.Config{Thresholds: thresholds, Now: now})),
	)

	return &testServer{
		handler:     router,
		workerID:    worker.ID,
		adminID:     admin.ID,
		workerToken: workerToken,
		adminToken:  adminToken,
	}
}

// do sends a request and decodes the envelope; data is decoded into out when given.
func (s *testServer) do(t *testing.T, method, path, token string, body interface{}, out interface{}) (int, response.Response) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var envelope struct {
		response.Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope), rec.Body.String())
	if out != nil && len(envelope.Data) > 0 {
		require.NoError(t, json.Unmarshal(envelope.Data, out))
	}
	return rec.Code, envelope.Response
}

type eventBody struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Kind      string `json:"kind"`
	Modified  bool   `json:"modified"`
}

func TestRouter_RequiresToken(t *testing.T) {
	s := newTestServer(t)

	code, resp := s.do(t, http.MethodGet, "/api/v1/me/today", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, resp.Success)
}

func TestRouter_WorkerClockInAndToday(t *testing.T) {
	s := newTestServer(t)

	var created eventBody
	code, _ := s.do(t, http.MethodPost, "/api/v1/me/events", s.workerToken, map[string]string{"kind": "clock_in"}, &created)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "2024-03-06T10:00:00Z", created.Timestamp)

	var today worktime.TodayStatusResponse
	code, _ = s.do(t, http.MethodGet, "/api/v1/me/today", s.workerToken, nil, &today)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, today.Working)
	assert.Equal(t, "2024-03-06", today.Date)
}

func TestRouter_AdminRoutesForbiddenToWorkers(t *testing.T) {
	s := newTestServer(t)

	code, resp := s.do(t, http.MethodGet, "/api/v1/admin/overview", s.workerToken, nil, nil)
	assert.Equal(t, http.StatusForbidden, code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)

	code, _ = s.do(t, http.MethodGet, "/api/v1/admin/overview", s.adminToken, nil, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestRouter_WorkerCannotReadOtherUsers(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.do(t, http.MethodGet, "/api/v1/users/"+s.adminID+"/events", s.workerToken, nil, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = s.do(t, http.MethodGet, "/api/v1/users/me/events", s.workerToken, nil, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestRouter_CorrectionRequestFlow(t *testing.T) {
	s := newTestServer(t)

	var event eventBody
	code, _ := s.do(t, http.MethodPost, "/api/v1/admin/users/"+s.workerID+"/events", s.adminToken, map[string]string{
		"kind":      "clock_in",
		"timestamp": "2024-03-05T17:00:00Z",
	}, &event)
	require.Equal(t, http.StatusCreated, code)

	var pending struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	code, _ = s.do(t, http.MethodPost, "/api/v1/corrections/requests", s.workerToken, map[string]string{
		"event_id": event.ID,
		"kind":     "clock_out",
		"reason":   "pressed the wrong button",
	}, &pending)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "pending", pending.Status)

	code, _ = s.do(t, http.MethodPost, "/api/v1/admin/corrections/"+pending.ID+"/approve", s.adminToken, nil, nil)
	require.Equal(t, http.StatusOK, code)

	code, resp := s.do(t, http.MethodPost, "/api/v1/admin/corrections/"+pending.ID+"/reject", s.adminToken, nil, nil)
	assert.Equal(t, http.StatusConflict, code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ALREADY_REVIEWED", resp.Error.Code)

	var history map[string]struct {
		Original struct {
			Kind string `json:"kind"`
		} `json:"original"`
		Current struct {
			Kind string `json:"kind"`
		} `json:"current"`
	}
	code, _ = s.do(t, http.MethodGet, "/api/v1/corrections?event_id="+event.ID, s.workerToken, nil, &history)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "clock_in", history[event.ID].Original.Kind)
	assert.Equal(t, "clock_out", history[event.ID].Current.Kind)
}

func TestRouter_ReportLifecycle(t *testing.T) {
	s := newTestServer(t)

	var generated struct {
		ID          string `json:"id"`
		Disposition string `json:"disposition"`
	}
	code, _ := s.do(t, http.MethodPost, "/api/v1/users/me/reports", s.workerToken, map[string]int{"year": 2024, "month": 2}, &generated)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "unreviewed", generated.Disposition)

	code, resp := s.do(t, http.MethodPost, "/api/v1/users/me/reports", s.workerToken, map[string]int{"year": 2024, "month": 2}, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "REPORT_EXISTS", resp.Error.Code)

	code, _ = s.do(t, http.MethodPost, "/api/v1/reports/"+generated.ID+"/accept", s.workerToken, nil, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, _ = s.do(t, http.MethodPost, "/api/v1/reports/"+generated.ID+"/view", s.workerToken, nil, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = s.do(t, http.MethodPost, "/api/v1/reports/"+generated.ID+"/contest", s.workerToken, map[string]string{"reason": "short"}, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(t, http.MethodPost, "/api/v1/reports/"+generated.ID+"/accept", s.workerToken, nil, nil)
	assert.Equal(t, http.StatusOK, code)

	var list []struct {
		Disposition string `json:"disposition"`
	}
	code, _ = s.do(t, http.MethodGet, "/api/v1/users/"+s.workerID+"/reports", s.adminToken, nil, &list)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, list, 1)
	assert.Equal(t, "accepted", list[0].Disposition)
}

func TestRouter_MalformedIDs(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   interface{}
	}{
		{"report path id", http.MethodGet, "/api/v1/reports/abc", s.workerToken, nil},
		{"report view", http.MethodPost, "/api/v1/reports/abc/view", s.workerToken, nil},
		{"user path id", http.MethodGet, "/api/v1/users/abc/events", s.adminToken, nil},
		{"history query", http.MethodGet, "/api/v1/corrections?event_id=xyz", s.workerToken, nil},
		{"apply correction", http.MethodPost, "/api/v1/admin/events/xyz/corrections", s.adminToken, map[string]string{"kind": "clock_out", "reason": "typo"}},
		{"approve", http.MethodPost, "/api/v1/admin/corrections/xyz/approve", s.adminToken, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := s.do(t, tt.method, tt.path, tt.token, tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, "BAD_REQUEST", resp.Error.Code)
		})
	}
}

func TestRouter_MalformedEventIDInBody(t *testing.T) {
	s := newTestServer(t)

	code, resp := s.do(t, http.MethodPost, "/api/v1/corrections/requests", s.workerToken, map[string]string{
		"event_id": "xyz",
		"kind":     "clock_out",
		"reason":   "pressed the wrong button",
	}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	require.NotNil(t, resp.Error)
	assert.Contains(t, resp.Error.Details, "event_id")
}

func TestRouter_UnknownReportIsNotFound(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.do(t, http.MethodGet, "/api/v1/reports/0190a0b0-0000-7000-8000-000000000000", s.workerToken, nil, nil)
	assert.Equal(t, http.StatusNotFound, code)
}
