package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cashout/internal/auth"
	"cashout/internal/core"
	"cashout/internal/log"
	"cashout/internal/notify"
	"cashout/internal/services"
	"cashout/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st := store.NewMemory()
	authSvc := auth.NewService(st, auth.TokenConfig{
		Secret: []byte("0123456789abcdef"),
		Issuer: "cashout",
		TTL:    time.Hour,
	})
	hub := notify.NewHub(time.Minute)
	ledger := services.NewLedgerService(st, nil, hub)
	logger := log.New(log.Config{
		Handler: slog.NewTextHandler(io.Discard, nil),
	})
	return NewServer(":0", authSvc, ledger, hub, logger, nil)
}

func doJSON(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = "192.0.2.1:1234"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func registerTenant(t *testing.T, s *Server) authResponse {
	t.Helper()
	rec := doJSON(t, s, http.MethodPost, "/api/register", "", registerRequest{
		CompanyName: "Acme",
		Email:       "alice@example.com",
		Password:    "correct-horse",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register = %d: %s", rec.Code, rec.Body.String())
	}
	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	if resp.Token == "" || resp.TenantID == "" {
		t.Fatalf("incomplete register response: %+v", resp)
	}
	return resp
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)
	reg := registerTenant(t, s)

	if reg.CompanyName != "Acme" || reg.Email != "alice@example.com" {
		t.Fatalf("unexpected register response: %+v", reg)
	}

	// Duplicate email is a conflict.
	rec := doJSON(t, s, http.MethodPost, "/api/register", "", registerRequest{
		CompanyName: "Other",
		Email:       "alice@example.com",
		Password:    "correct-horse",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate register = %d, want 409", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/login", "", loginRequest{
		Email:    "Alice@Example.com",
		Password: "correct-horse",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, s, http.MethodPost, "/api/login", "", loginRequest{
		Email:    "alice@example.com",
		Password: "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad login = %d, want 401", rec.Code)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(t, s, http.MethodPost, "/api/register", "", registerRequest{
		CompanyName: "Acme",
		Email:       "alice@example.com",
		Password:    "short",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("register = %d, want 422", rec.Code)
	}
}

func TestWeeksRequireAuth(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/weeks", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token = %d, want 401", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/weeks", "garbage-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token = %d, want 401", rec.Code)
	}
}

func TestGetWeekGeneratesEmptyWeek(t *testing.T) {
	s := newTestServer(t)
	reg := registerTenant(t, s)

	rec := doJSON(t, s, http.MethodGet, "/api/weeks/2023-W01", reg.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get week = %d: %s", rec.Code, rec.Body.String())
	}

	var resp weekResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Week.Days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(resp.Week.Days))
	}
	if resp.Week.Days[0].Date != "2023-01-02" || resp.Week.Days[0].DayName != "Monday" {
		t.Fatalf("unexpected first day: %+v", resp.Week.Days[0])
	}
	if resp.Label != "Jan 2 - Jan 8, 2023" {
		t.Fatalf("unexpected label: %q", resp.Label)
	}
	// Default roster for a fresh tenant.
	if len(resp.Names) != 2 || resp.Names[0] != "User 1" {
		t.Fatalf("unexpected names: %v", resp.Names)
	}
}

func TestGetWeekRejectsMalformedID(t *testing.T) {
	s := newTestServer(t)
	reg := registerTenant(t, s)

	rec := doJSON(t, s, http.MethodGet, "/api/weeks/notaweek", reg.Token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id = %d, want 400", rec.Code)
	}
}

func TestSaveWeekRoundTrip(t *testing.T) {
	s := newTestServer(t)
	reg := registerTenant(t, s)

	week, _ := core.GenerateWeek("2023-W01")
	row := week.Days[0].AddRow()
	row.Name = "Alice"
	row.Direct = core.NumberCell(20)
	row.Visa = core.ExprCell("15+15")
	row.Reading = core.NumberCell(60)

	rec := doJSON(t, s, http.MethodPut, "/api/weeks/2023-W01", reg.Token, week)
	if rec.Code != http.StatusOK {
		t.Fatalf("save week = %d: %s", rec.Code, rec.Body.String())
	}

	var resp weekResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Week.LastUpdated.IsZero() {
		t.Fatalf("save must stamp lastUpdated")
	}
	got := resp.Week.Days[0].Rows[0]
	if got.Visa.Amount() != 30 {
		t.Fatalf("expression cell lost: %+v", got.Visa)
	}

	// The saved week appears in the history list.
	rec = doJSON(t, s, http.MethodGet, "/api/weeks", reg.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list = %d", rec.Code)
	}
	var list weekListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list.Weeks) != 1 || list.Weeks[0].ID != "2023-W01" {
		t.Fatalf("unexpected list: %+v", list.Weeks)
	}
}

func TestSaveWeekRejectsBadShape(t *testing.T) {
	s := newTestServer(t)
	reg := registerTenant(t, s)

	bad := core.Week{WeekID: "2023-W01", Days: make([]core.Day, 6)}
	rec := doJSON(t, s, http.MethodPut, "/api/weeks/2023-W01", reg.Token, bad)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad shape = %d, want 422", rec.Code)
	}
}

func TestRosterRoundTrip(t *testing.T) {
	s := newTestServer(t)
	reg := registerTenant(t, s)

	rec := doJSON(t, s, http.MethodPut, "/api/roster", reg.Token, rosterPayload{Names: []string{"Alice", "Bob"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("save roster = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, s, http.MethodGet, "/api/roster", reg.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get roster = %d", rec.Code)
	}
	var got rosterPayload
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Names) != 2 || got.Names[0] != "Alice" || got.Names[1] != "Bob" {
		t.Fatalf("unexpected roster: %v", got.Names)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	s := newTestServer(t)
	reg := registerTenant(t, s)

	rec := doJSON(t, s, http.MethodPut, "/api/config", reg.Token, map[string]any{"currency": "EUR"})
	if rec.Code != http.StatusOK {
		t.Fatalf("save config = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, s, http.MethodGet, "/api/config", reg.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get config = %d", rec.Code)
	}
	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["currency"] != "EUR" {
		t.Fatalf("unexpected config: %v", got)
	}
}

func TestTenantIsolation(t *testing.T) {
	s := newTestServer(t)
	first := registerTenant(t, s)

	rec := doJSON(t, s, http.MethodPost, "/api/register", "", registerRequest{
		CompanyName: "Globex",
		Email:       "bob@example.com",
		Password:    "correct-horse",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("second register = %d", rec.Code)
	}
	var second authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &second); err != nil {
		t.Fatalf("decode: %v", err)
	}

	week, _ := core.GenerateWeek("2023-W01")
	if rec := doJSON(t, s, http.MethodPut, "/api/weeks/2023-W01", first.Token, week); rec.Code != http.StatusOK {
		t.Fatalf("save as first tenant = %d", rec.Code)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/weeks", second.Token, nil)
	var list weekListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list.Weeks) != 0 {
		t.Fatalf("second tenant must not see first tenant's weeks: %+v", list.Weeks)
	}
}

func TestNotificationsAfterSave(t *testing.T) {
	s := newTestServer(t)
	reg := registerTenant(t, s)

	week, _ := core.GenerateWeek("2023-W01")
	if rec := doJSON(t, s, http.MethodPut, "/api/weeks/2023-W01", reg.Token, week); rec.Code != http.StatusOK {
		t.Fatalf("save = %d", rec.Code)
	}

	rec := doJSON(t, s, http.MethodGet, "/api/notifications", reg.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("notifications = %d", rec.Code)
	}
	var resp struct {
		Notifications []notify.Notification `json:"notifications"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Notifications) == 0 {
		t.Fatalf("expected a save notification")
	}
	if resp.Notifications[0].Severity != notify.Success {
		t.Fatalf("unexpected severity: %+v", resp.Notifications[0])
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz = %d", rec.Code)
	}
	rec = doJSON(t, s, http.MethodGet, "/readyz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("readyz = %d", rec.Code)
	}
}
