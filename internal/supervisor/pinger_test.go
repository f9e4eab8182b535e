package supervisor

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"launchpad/internal/config"
)

func testPingConfig(url string) config.PingConfig {
	return config.PingConfig{
		URL:             url,
		IntervalSeconds: 300,
		TimeoutSeconds:  2,
		UTCOffsetHours:  7,
		Window:          config.PingWindow{From: 9, To: 24},
	}
}

// fixedClock pins the pinger's view of time to a given UTC hour.
func fixedClock(utcHour int) func() time.Time {
	return func() time.Time {
		return time.Date(2024, 3, 15, utcHour, 0, 5, 0, time.UTC)
	}
}

func TestPinger_InsideWindow(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var log strings.Builder
	p := NewPinger(testPingConfig(srv.URL), &log, zerolog.Nop())
	p.now = fixedClock(3) // local hour 3+7 = 10, inside [9,24)

	p.iterate()

	if got := hits.Load(); got != 1 {
		t.Fatalf("server hits = %d, want exactly 1", got)
	}
	line := log.String()
	if !strings.HasPrefix(line, "[AutoPing][") {
		t.Errorf("line %q missing [AutoPing] prefix", line)
	}
	if !strings.Contains(line, " 10:00 ") {
		t.Errorf("line %q missing local hour 10:00", line)
	}
	if !strings.Contains(line, "→ 200") {
		t.Errorf("line %q missing status code 200", line)
	}
}

func TestPinger_OutsideWindow(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	var log strings.Builder
	p := NewPinger(testPingConfig(srv.URL), &log, zerolog.Nop())
	p.now = fixedClock(20) // local hour (20+7)%24 = 3, outside [9,24)

	p.iterate()

	if got := hits.Load(); got != 0 {
		t.Fatalf("server hits = %d, want 0 outside window", got)
	}
	line := log.String()
	if !strings.Contains(line, " 3:00 ") {
		t.Errorf("line %q missing local hour 3:00", line)
	}
	if !strings.Contains(line, "outside active window, not pinged") {
		t.Errorf("line %q missing skip marker", line)
	}
}

func TestPinger_OneLinePerIteration(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var log strings.Builder
	p := NewPinger(testPingConfig(srv.URL), &log, zerolog.Nop())

	// Alternate inside and outside the window.
	for i, utcHour := range []int{3, 20, 3, 20} {
		p.now = fixedClock(utcHour)
		p.iterate()

		lines := strings.Count(log.String(), "\n")
		if lines != i+1 {
			t.Fatalf("after %d iterations: %d lines, want %d", i+1, lines, i+1)
		}
	}
}

func TestPinger_TransportFailure(t *testing.T) {
	// Closed server: the GET fails at the transport layer.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	var log strings.Builder
	p := NewPinger(testPingConfig(url), &log, zerolog.Nop())
	p.now = fixedClock(3)

	p.iterate()

	line := log.String()
	if !strings.Contains(line, "→ error: ") {
		t.Errorf("line %q should record a transport error, not a status code", line)
	}
}

func TestPinger_ApplicationErrorCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	var log strings.Builder
	p := NewPinger(testPingConfig(srv.URL), &log, zerolog.Nop())
	p.now = fixedClock(3)

	p.iterate()

	if line := log.String(); !strings.Contains(line, "→ 500") {
		t.Errorf("line %q should record status 500", line)
	}
}

func TestPingResult(t *testing.T) {
	ok := PingResult{StatusCode: 200}
	if !ok.OK() || ok.String() != "200" {
		t.Errorf("PingResult{200}: OK=%v String=%q", ok.OK(), ok.String())
	}

	bad := PingResult{Err: http.ErrHandlerTimeout}
	if bad.OK() {
		t.Error("transport failure must not be OK")
	}
	if !strings.HasPrefix(bad.String(), "error: ") {
		t.Errorf("String() = %q, want error: prefix", bad.String())
	}
}

func TestPinger_StopsDeterministically(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := testPingConfig(srv.URL)
	var log strings.Builder
	p := NewPinger(cfg, &log, zerolog.Nop())
	p.interval = 10 * time.Millisecond
	p.now = fixedClock(3)

	p.Start()
	time.Sleep(50 * time.Millisecond)
	p.Kill(nil)

	if err := p.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if !strings.Contains(log.String(), "→ 200") {
		t.Error("loop never recorded a ping before shutdown")
	}
}
