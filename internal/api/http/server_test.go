package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk-log/internal/api/http"
	"github.com/spec-kit/helpdesk-log/internal/app"
	"github.com/spec-kit/helpdesk-log/internal/config"
)

type testServer struct {
	t   *testing.T
	app *app.App
	srv *fiber.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{
		App:          config.AppConfig{Name: "helpdesk-log", Version: "test", RequestTimeoutSeconds: 5},
		Store:        config.StoreConfig{Backend: config.BackendMemory},
		Notification: config.NotificationConfig{ToastSeconds: 60},
	}
	a, err := app.New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(a.Close)

	srv, err := httptransport.NewServer(a)
	require.NoError(t, err)
	return &testServer{t: t, app: a, srv: srv}
}

func (s *testServer) do(req *http.Request) (*http.Response, string) {
	s.t.Helper()
	resp, err := s.srv.Test(req, -1)
	require.NoError(s.t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	return resp, string(body)
}

func (s *testServer) get(target string) (*http.Response, string) {
	return s.do(httptest.NewRequest(http.MethodGet, target, nil))
}

func (s *testServer) form(target string, values url.Values) (*http.Response, string) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	return s.do(req)
}

func (s *testServer) json(method, target, payload string) (*http.Response, string) {
	var body io.Reader
	if payload != "" {
		body = strings.NewReader(payload)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	return s.do(req)
}

type ticketEnvelope struct {
	Data struct {
		ID       string `json:"id"`
		Employee string `json:"employee"`
		Status   string `json:"status"`
	} `json:"data"`
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *testServer) createJSON(employee, issue, action string) string {
	s.t.Helper()
	payload, err := json.Marshal(map[string]string{"employee": employee, "issue": issue, "action": action})
	require.NoError(s.t, err)
	resp, body := s.json(http.MethodPost, "/api/tickets", string(payload))
	require.Equal(s.t, http.StatusCreated, resp.StatusCode, body)
	var env ticketEnvelope
	require.NoError(s.t, json.Unmarshal([]byte(body), &env))
	return env.Data.ID
}

func decodeError(t *testing.T, body string) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.Unmarshal([]byte(body), &env))
	return env
}

func TestDashboardFormFlow(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.get("/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, `<strong id="totalCount">0</strong>`)

	resp, _ = s.form("/tickets", url.Values{
		"employee": {"Alice"},
		"issue":    {"VPN down"},
		"status":   {"Pending"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))

	_, body = s.get("/")
	require.Contains(t, body, `<strong id="totalCount">1</strong>`)
	require.Contains(t, body, `<strong id="pendingCount">1</strong>`)
	require.Contains(t, body, `<span id="completionPercent">0%</span>`)
	require.Contains(t, body, `class="new-row"`)
	require.Contains(t, body, "New request added — Alice")

	_, body = s.get("/")
	require.NotContains(t, body, `class="new-row"`)

	id := s.app.Tickets.Tickets()[0].ID
	resp, _ = s.form("/tickets/"+id+"/status", url.Values{"status": {"Completed"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	_, body = s.get("/")
	require.Contains(t, body, `<strong id="completedCount">1</strong>`)
	require.Contains(t, body, `<span id="completionPercent">100%</span>`)
	require.Contains(t, body, `data-degrees="360"`)
}

func TestDashboardCreateValidationRendersInline(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.form("/tickets", url.Values{"employee": {""}, "issue": {""}, "action": {"tried"}})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	require.Contains(t, body, "employee and issue required")
	require.Contains(t, body, ">tried</textarea>")
	require.Empty(t, s.app.Tickets.Tickets())
}

func TestDashboardDeleteRequiresConfirmation(t *testing.T) {
	s := newTestServer(t)
	id := s.createJSON("Bob", "printer", "")

	resp, _ := s.form("/tickets/"+id+"/delete", url.Values{})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Len(t, s.app.Tickets.Tickets(), 1)

	resp, _ = s.form("/tickets/"+id+"/delete", url.Values{"confirm": {"yes"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Empty(t, s.app.Tickets.Tickets())

	_, body := s.get("/")
	require.Contains(t, body, "Deleted — Bob")
}

func TestDashboardActionToggle(t *testing.T) {
	s := newTestServer(t)
	id := s.createJSON("Carol", "email", strings.Repeat("a", 200))

	_, body := s.get("/")
	require.Contains(t, body, strings.Repeat("a", 150)+"...")
	require.Contains(t, body, "Show more")
	require.Contains(t, body, `href="/?expand=`+id+`"`)

	_, body = s.get("/?expand=" + id)
	require.Contains(t, body, strings.Repeat("a", 200))
	require.Contains(t, body, "Show less")
	require.Contains(t, body, `href="/"`)

	require.Equal(t, strings.Repeat("a", 200), s.app.Tickets.Tickets()[0].Action)
}

func TestAPITicketLifecycle(t *testing.T) {
	s := newTestServer(t)
	id := s.createJSON("Alice", "VPN down", "")

	resp, body := s.json(http.MethodPatch, "/api/tickets/"+id+"/status", `{"status":"In Progress"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	var env ticketEnvelope
	require.NoError(t, json.Unmarshal([]byte(body), &env))
	require.Equal(t, "In Progress", env.Data.Status)

	resp, body = s.get("/api/tickets")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, `"createdAt"`)
	require.Contains(t, body, id)

	resp, body = s.get("/api/dashboard")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, `"in_progress":1`)

	resp, body = s.json(http.MethodDelete, "/api/tickets/"+id, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "VALIDATION_FAILED", decodeError(t, body).Error.Code)

	resp, _ = s.json(http.MethodDelete, "/api/tickets/"+id+"?confirm=true", "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = s.json(http.MethodDelete, "/api/tickets/"+id+"?confirm=true", "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "NOT_FOUND", decodeError(t, body).Error.Code)
}

func TestAPIErrors(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.json(http.MethodPost, "/api/tickets", `{"employee":"Alice"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "VALIDATION_FAILED", decodeError(t, body).Error.Code)

	resp, body = s.json(http.MethodPatch, "/api/tickets/missing/status", `{"status":"Completed"}`)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "NOT_FOUND", decodeError(t, body).Error.Code)

	resp, body = s.get("/nowhere")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "NOT_FOUND", decodeError(t, body).Error.Code)
}

func TestAPIRefreshAndNotifications(t *testing.T) {
	s := newTestServer(t)
	s.createJSON("Dana", "laptop", "")

	resp, body := s.json(http.MethodPost, "/api/tickets/refresh", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "Dana")

	_, body = s.get("/api/notifications")
	var env struct {
		Data struct {
			Items []struct {
				Text string `json:"text"`
			} `json:"items"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &env))
	require.Equal(t, "Loaded 1 requests", env.Data.Items[0].Text)
	require.Equal(t, "New request added — Dana", env.Data.Items[1].Text)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)
	s.createJSON("Eve", "badge", "")

	resp, body := s.get("/health/live")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, `"alive"`)

	resp, body = s.get("/health/ready")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, `"store":"memory"`)

	resp, body = s.get("/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, `"create|ok":1`)
	require.Contains(t, body, `"requests"`)
}
