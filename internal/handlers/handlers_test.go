package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"launchpad/internal/models"
)

type fakeSource struct {
	status models.Status
	pings  []string
	err    error
}

func (f *fakeSource) Status() models.Status { return f.status }

func (f *fakeSource) RecentPings(limit int) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.pings) > limit {
		return f.pings[len(f.pings)-limit:], nil
	}
	return f.pings, nil
}

func TestHealthCheck(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("Status = %q, want %q", resp.Status, "healthy")
	}
}

func TestGetStatus(t *testing.T) {
	src := &fakeSource{
		status: models.Status{
			Uptime: "5m 3s",
			Worker: &models.ProcessStatus{Pid: 42, Running: true},
			Web:    &models.ProcessStatus{Pid: 43, Running: true},
		},
	}
	h := NewStatusHandler(src, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.GetStatus(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var st models.Status
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if st.Worker == nil || st.Worker.Pid != 42 {
		t.Errorf("Worker = %+v, want pid 42", st.Worker)
	}
	if st.Uptime != "5m 3s" {
		t.Errorf("Uptime = %q", st.Uptime)
	}
}

func TestGetPings(t *testing.T) {
	src := &fakeSource{pings: []string{"a", "b", "c"}}
	h := NewStatusHandler(src, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.GetPings(rec, httptest.NewRequest(http.MethodGet, "/api/pings?limit=2", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var pl models.PingLog
	if err := json.Unmarshal(rec.Body.Bytes(), &pl); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(pl.Lines) != 2 || pl.Lines[1] != "c" {
		t.Errorf("Lines = %v, want last 2 of [a b c]", pl.Lines)
	}
}

func TestGetPings_InvalidLimit(t *testing.T) {
	h := NewStatusHandler(&fakeSource{}, zerolog.Nop())

	for _, limit := range []string{"abc", "0", "-5"} {
		rec := httptest.NewRecorder()
		h.GetPings(rec, httptest.NewRequest(http.MethodGet, "/api/pings?limit="+limit, nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("limit=%s: status = %d, want 400", limit, rec.Code)
		}
	}
}

func TestGetPings_SourceError(t *testing.T) {
	h := NewStatusHandler(&fakeSource{err: errors.New("disk gone")}, zerolog.Nop())

	rec := httptest.NewRecorder()
	h.GetPings(rec, httptest.NewRequest(http.MethodGet, "/api/pings", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Error != "disk gone" {
		t.Errorf("Error = %q", resp.Error)
	}
}
