// Package supervisor sequences a deployment's startup: log directory, the
// background reminder worker, the log tailer, the keep-warm auto-ping loop,
// and finally the foreground web server.
package supervisor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"launchpad/internal/api"
	"launchpad/internal/config"
	"launchpad/internal/logfs"
	"launchpad/internal/models"
)

// Supervisor drives the one-way startup sequence. Nothing restarts and no
// step repeats: the first unrecoverable error before the web handoff aborts
// the run.
type Supervisor struct {
	cfg    *config.BootstrapConfig
	env    *config.Env
	logger zerolog.Logger

	// Out receives the tailed worker log. Defaults to os.Stdout, which is
	// what hosting-platform consoles show.
	Out io.Writer

	startTime   time.Time
	pingLogPath string

	worker  *Worker
	web     *WebServer
	tailer  *Tailer
	pinger  *Pinger
	pingLog *os.File
}

func New(cfg *config.BootstrapConfig, env *config.Env, logger zerolog.Logger) *Supervisor {
	return &Supervisor{
		cfg:       cfg,
		env:       env,
		logger:    logger,
		Out:       os.Stdout,
		startTime: time.Now(),
	}
}

// Run executes the sequence: init log dir, launch worker, pause, start
// tailer, start pinger, hand off to the web server. In exec mode it returns
// only on handoff failure; in child mode it returns the web server's exit
// code. The returned int is the supervisor's exit code either way.
func (s *Supervisor) Run() (int, error) {
	if err := logfs.Init(s.cfg.LogDir); err != nil {
		return 1, err
	}

	// Best effort: a missing worker must not keep the web server down.
	if w, err := LaunchWorker(s.cfg.Worker, s.cfg.LogDir, s.logger); err != nil {
		s.logger.Warn().Err(err).Msg("worker launch failed, continuing without worker")
	} else {
		s.worker = w
	}

	// Give the worker a moment to create its log file before tailing.
	time.Sleep(time.Duration(s.cfg.Worker.StartDelayMs) * time.Millisecond)

	s.tailer = NewTailer(filepath.Join(s.cfg.LogDir, s.cfg.Worker.Log), s.Out, s.logger)
	s.tailer.Start()

	s.pingLogPath = filepath.Join(s.cfg.LogDir, s.cfg.Ping.Log)
	pingLog, err := logfs.OpenAppend(s.cfg.LogDir, s.cfg.Ping.Log)
	if err != nil {
		s.stopBackground()
		return 1, err
	}
	s.pingLog = pingLog
	s.pinger = NewPinger(s.cfg.Ping, pingLog, s.logger)
	s.pinger.Start()

	if s.cfg.Web.Mode == config.ModeChild {
		return s.runChild()
	}

	err = ExecWeb(s.cfg.Web, s.cfg.LogDir, s.env.Port, s.logger)
	// Only reachable when the exec itself failed.
	s.stopBackground()
	return 1, fmt.Errorf("web server handoff: %w", err)
}

// runChild runs the web server as the final managed child, serves the admin
// API if configured, forwards termination signals, and propagates the exit
// code.
func (s *Supervisor) runChild() (int, error) {
	web, err := StartWebChild(s.cfg.Web, s.cfg.LogDir, s.env.Port, s.logger)
	if err != nil {
		s.stopBackground()
		return 1, err
	}
	s.web = web

	var adminSrv *http.Server
	if s.cfg.Admin.Address != "" {
		adminSrv = &http.Server{
			Addr:         s.cfg.Admin.Address,
			Handler:      api.NewRouter(s, s.logger),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go func() {
			s.logger.Info().Str("address", adminSrv.Addr).Msg("admin API listening")
			if err := adminSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				s.logger.Error().Err(err).Msg("admin server error")
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-quit:
				s.logger.Info().Str("signal", sig.String()).Msg("forwarding to web server")
				if err := web.Signal(sig); err != nil {
					s.logger.Warn().Err(err).Msg("signal forward failed")
				}
			case <-done:
				return
			}
		}
	}()

	code := web.Wait()
	close(done)
	signal.Stop(quit)

	s.logger.Info().Int("exit_code", code).Msg("web server exited")

	if adminSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		adminSrv.Shutdown(ctx)
		cancel()
	}
	s.stopBackground()

	return code, nil
}

// stopBackground tears down the pinger and tailer so nothing outlives the
// supervisor in child mode or after a failed handoff.
func (s *Supervisor) stopBackground() {
	if s.pinger != nil {
		s.pinger.Kill(nil)
		s.pinger.Wait()
	}
	if s.tailer != nil {
		s.tailer.Kill(nil)
		s.tailer.Wait()
	}
	if s.pingLog != nil {
		s.pingLog.Close()
	}
}

// Status implements handlers.StatusSource.
func (s *Supervisor) Status() models.Status {
	st := models.Status{Uptime: formatDuration(time.Since(s.startTime))}
	if s.worker != nil {
		st.Worker = &models.ProcessStatus{Pid: s.worker.Pid, Running: s.worker.Running()}
	}
	if s.web != nil {
		st.Web = &models.ProcessStatus{Pid: s.web.Pid, Running: s.web.Running()}
	}
	return st
}

// RecentPings implements handlers.StatusSource: the last limit lines of the
// ping log, oldest first.
func (s *Supervisor) RecentPings(limit int) ([]string, error) {
	data, err := os.ReadFile(s.pingLogPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	trimmed := strings.TrimRight(string(data), "\n")
	if trimmed == "" {
		return []string{}, nil
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) > limit {
		lines = lines[len(lines)-limit:]
	}
	return lines, nil
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)

	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour

	hours := d / time.Hour
	d -= hours * time.Hour

	minutes := d / time.Minute
	d -= minutes * time.Minute

	seconds := d / time.Second

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}
