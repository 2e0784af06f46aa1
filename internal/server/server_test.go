package server

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/KevinDKao/running-diary/internal/config"
	"github.com/KevinDKao/running-diary/internal/journal"
	"github.com/KevinDKao/running-diary/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/redis/go-redis/v9"
)

func testConfig() config.Config {
	return config.Config{
		ServerPort:    ":0",
		SessionSecret: "secret",
		SessionTTL:    time.Hour,
		ModalTTL:      time.Minute,
	}
}

func TestHealthRoute(t *testing.T) {
	s := NewServer(testConfig(), nil, nil, nil)
	defer s.Close()

	req := httptest.NewRequest("GET", "/health", nil)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 status")
	}
}

func TestSessionThenPlans(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	s := NewServer(testConfig(), mock, nil, nil)
	defer s.Close()

	resp, err := s.App.Test(httptest.NewRequest("POST", "/session", nil))
	if err != nil {
		t.Fatalf("session request: %v", err)
	}
	var tok session.Token
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		t.Fatalf("decode token: %v", err)
	}
	if tok.Token == "" || tok.SessionID == "" {
		t.Fatalf("expected token and session id, got %+v", tok)
	}

	mock.ExpectQuery(`FROM training_plans WHERE session_id=\$1`).
		WithArgs(tok.SessionID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "session_id", "name", "weeks", "race_distance", "created_at"}).
			AddRow("plan-1", tok.SessionID, "Spring 5K", 7, "5K", time.Now()))

	req := httptest.NewRequest("GET", "/plans", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	resp, err = s.App.Test(req)
	if err != nil {
		t.Fatalf("plans request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var out journal.Response
	_ = json.NewDecoder(resp.Body).Decode(&out)
	if len(out.Options) != 1 || out.Options[0].Value != "plan-1" {
		t.Fatalf("unexpected options: %+v", out.Options)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPlansRequireSession(t *testing.T) {
	s := NewServer(testConfig(), nil, nil, nil)
	defer s.Close()

	resp, err := s.App.Test(httptest.NewRequest("GET", "/plans", nil))
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	var out journal.Response
	_ = json.NewDecoder(resp.Body).Decode(&out)
	if out.Notification == nil {
		t.Fatalf("expected error notification")
	}
}

func TestServerUsesRedisForModals(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	s := NewServer(testConfig(), nil, rdb, nil)
	defer s.Close()

	tok, err := s.Sessions.Issue()
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	_ = mr.Set("journal:"+tok.SessionID+":modal", `{"state":"open-new","week":2,"day":1,"plan_id":"plan-1","intensity":3}`)

	req := httptest.NewRequest("GET", "/modal", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("modal request: %v", err)
	}
	var out journal.Response
	_ = json.NewDecoder(resp.Body).Decode(&out)
	if out.Modal == nil || !out.Modal.IsOpen() || out.Modal.PlanID != "plan-1" {
		t.Fatalf("expected modal loaded from redis, got %+v", out.Modal)
	}
}

func TestServerCopiesRequestValues(t *testing.T) {
	s := NewServer(testConfig(), nil, nil, nil)
	defer s.Close()

	if !s.App.Config().Immutable {
		t.Fatalf("expected immutable request values")
	}
}
