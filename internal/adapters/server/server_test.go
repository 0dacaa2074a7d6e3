package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hylla/hemma/internal/app"
	"github.com/hylla/hemma/internal/domain"
)

// stubBoard satisfies BoardService with fixture data for mux composition tests.
type stubBoard struct{}

func (stubBoard) BuildBoard(context.Context) (domain.Board, error) {
	return domain.Board{Columns: []domain.BoardColumn{
		{Column: domain.Column{ID: "today", Name: "Today", AcceptsDrop: true}, Items: []domain.Item{}},
	}}, nil
}

func (stubBoard) MoveItem(context.Context, string, string, int) error { return nil }

func (stubBoard) CreateTask(context.Context, app.CreateTaskInput) (domain.Task, error) {
	return domain.Task{}, nil
}

func (stubBoard) CompleteTask(context.Context, string) (domain.Task, error) {
	return domain.Task{}, nil
}

func (stubBoard) ReopenTask(context.Context, string) (domain.Task, error) {
	return domain.Task{}, nil
}

func (stubBoard) DeleteTask(context.Context, string, app.DeleteMode) error { return nil }

func (stubBoard) CreateEvent(context.Context, app.CreateEventInput) (domain.Event, error) {
	return domain.Event{}, nil
}

func (stubBoard) DeleteEvent(context.Context, string, app.DeleteMode) error { return nil }

func TestNewHandlerRoutes(t *testing.T) {
	handler, cfg, err := NewHandler(Config{}, Dependencies{Board: stubBoard{}})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	if cfg.APIEndpoint != "/api/v1" || cfg.MCPEndpoint != "/mcp" {
		t.Fatalf("endpoints = %q / %q, want /api/v1 / /mcp", cfg.APIEndpoint, cfg.MCPEndpoint)
	}
	if cfg.HTTPBind != defaultBindAddress {
		t.Fatalf("bind = %q, want %q", cfg.HTTPBind, defaultBindAddress)
	}

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d, want %d", path, rec.Code, http.StatusOK)
		}
		var payload map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
			t.Fatalf("%s Decode() error = %v", path, err)
		}
		if payload["status"] != "ok" {
			t.Fatalf("%s status payload = %q, want ok", path, payload["status"])
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/board", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("board status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
}

func TestNewHandlerRequiresBoardService(t *testing.T) {
	if _, _, err := NewHandler(Config{}, Dependencies{}); err == nil {
		t.Fatalf("NewHandler() error = nil, want error")
	}
}

func TestNormalizeConfigRejectsEndpointCollision(t *testing.T) {
	_, err := normalizeConfig(Config{APIEndpoint: "/x", MCPEndpoint: "x/"})
	if err == nil {
		t.Fatalf("normalizeConfig() error = nil, want collision error")
	}
}

func TestNormalizeEndpointShapes(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "", want: "/api/v1"},
		{in: "/", want: "/api/v1"},
		{in: "api", want: "/api"},
		{in: "/api/", want: "/api"},
	}
	for _, tc := range cases {
		if got := normalizeEndpoint(tc.in, "/api/v1"); got != tc.want {
			t.Fatalf("normalizeEndpoint(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
