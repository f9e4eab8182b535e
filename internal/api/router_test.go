package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"launchpad/internal/models"
)

type stubSource struct{}

func (stubSource) Status() models.Status {
	return models.Status{Uptime: "1s"}
}

func (stubSource) RecentPings(limit int) ([]string, error) {
	return []string{}, nil
}

func TestRouterRoutes(t *testing.T) {
	r := NewRouter(stubSource{}, zerolog.Nop())
	srv := httptest.NewServer(r)
	defer srv.Close()

	paths := []string{"/health", "/metrics", "/api/status", "/api/pings"}
	for _, path := range paths {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, resp.StatusCode)
		}
	}
}

func TestRouterMethodNotAllowed(t *testing.T) {
	r := NewRouter(stubSource{}, zerolog.Nop())
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/status", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("POST /api/status = %d, want 405", resp.StatusCode)
	}
}
