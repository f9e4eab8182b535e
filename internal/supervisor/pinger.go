package supervisor

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/tomb.v2"

	"launchpad/internal/config"
)

// skipMarker is the ping-log line suffix for iterations outside the window.
const skipMarker = "outside active window, not pinged"

// PingResult is the outcome of a single ping attempt. Exactly one of
// StatusCode and Err is meaningful: a transport failure never produced a
// status code, and a completed request carries no error even when the code
// itself signals an application problem.
type PingResult struct {
	StatusCode int
	Err        error
}

func (r PingResult) OK() bool {
	return r.Err == nil
}

func (r PingResult) String() string {
	if r.Err != nil {
		return "error: " + r.Err.Error()
	}
	return strconv.Itoa(r.StatusCode)
}

// Pinger issues one HTTP GET per interval to keep a hosted instance warm,
// but only while the local hour falls inside the configured window. Every
// iteration appends exactly one line to the ping log, pinged or not.
type Pinger struct {
	tomb.Tomb

	url      string
	interval time.Duration
	offset   int
	window   Window

	client  *http.Client
	pingLog io.Writer
	logger  zerolog.Logger

	now func() time.Time
}

func NewPinger(cfg config.PingConfig, pingLog io.Writer, logger zerolog.Logger) *Pinger {
	return &Pinger{
		url:      cfg.URL,
		interval: time.Duration(cfg.IntervalSeconds) * time.Second,
		offset:   cfg.UTCOffsetHours,
		window:   Window{From: cfg.Window.From, To: cfg.Window.To},
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		pingLog: pingLog,
		logger:  logger.With().Str("component", "autoping").Logger(),
		now:     time.Now,
	}
}

// Start launches the loop under the pinger's tomb. Stop it with Kill(nil)
// and Wait().
func (p *Pinger) Start() {
	p.logger.Info().
		Str("url", p.url).
		Dur("interval", p.interval).
		Int("utc_offset_hours", p.offset).
		Int("window_from", p.window.From).
		Int("window_to", p.window.To).
		Msg("auto-ping loop started")

	p.Go(p.loop)
}

func (p *Pinger) loop() error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.Dying():
			p.logger.Info().Msg("auto-ping loop stopped")
			return nil
		case <-ticker.C:
			p.iterate()
		}
	}
}

// iterate runs one cycle: window check, at most one GET, one log line.
func (p *Pinger) iterate() {
	now := p.now()
	hour := LocalHour(now, p.offset)

	var outcome string
	if p.window.Contains(hour) {
		res := p.ping()
		outcome = res.String()
		if res.OK() {
			pingAttempts.WithLabelValues(outcomeOK).Inc()
			p.logger.Debug().Int("status", res.StatusCode).Msg("pinged")
		} else {
			pingAttempts.WithLabelValues(outcomeError).Inc()
			p.logger.Warn().Err(res.Err).Msg("ping failed")
		}
	} else {
		outcome = skipMarker
		pingAttempts.WithLabelValues(outcomeSkipped).Inc()
	}

	line := fmt.Sprintf("[AutoPing][%s] %d:00 → %s\n", now.Format(time.RFC3339), hour, outcome)
	if _, err := io.WriteString(p.pingLog, line); err != nil {
		p.logger.Warn().Err(err).Msg("ping log write failed")
	}
}

func (p *Pinger) ping() PingResult {
	resp, err := p.client.Get(p.url)
	if err != nil {
		return PingResult{Err: err}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return PingResult{StatusCode: resp.StatusCode}
}
