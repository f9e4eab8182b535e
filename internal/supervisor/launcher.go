package supervisor

import (
	"fmt"
	"os"
	"os/exec"
	"sync/atomic"
	"syscall"

	"github.com/rs/zerolog"

	"launchpad/internal/config"
	"launchpad/internal/logfs"
)

// Worker is a handle to the launched background worker process.
type Worker struct {
	Pid int

	cmd     *exec.Cmd
	logFile *os.File
	exited  atomic.Bool
}

// LaunchWorker starts the reminder worker as a detached child: its own
// session, so the supervisor's terminal signals never reach it, with combined
// output appended to the worker log. The launch is best effort — the caller
// proceeds to the web server whether or not it succeeds.
func LaunchWorker(cfg config.WorkerConfig, logDir string, logger zerolog.Logger) (*Worker, error) {
	logger = logger.With().Str("component", "worker").Logger()

	logFile, err := logfs.OpenAppend(logDir, cfg.Log)
	if err != nil {
		workerLaunches.WithLabelValues("error").Inc()
		return nil, err
	}

	cmd := exec.Command(cfg.Command, cfg.Args...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.Stdin = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		logFile.Close()
		workerLaunches.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("start worker %s: %w", cfg.Command, err)
	}

	workerLaunches.WithLabelValues("ok").Inc()

	w := &Worker{
		Pid:     cmd.Process.Pid,
		cmd:     cmd,
		logFile: logFile,
	}

	logger.Info().
		Int("pid", w.Pid).
		Str("command", cfg.Command).
		Strs("args", cfg.Args).
		Msg("worker started")

	go w.reap(logger)

	return w, nil
}

// reap waits on the child so it never lingers as a zombie, and records the
// exit. The supervisor does not restart workers.
func (w *Worker) reap(logger zerolog.Logger) {
	err := w.cmd.Wait()
	w.exited.Store(true)
	w.logFile.Close()

	if err != nil {
		logger.Warn().Err(err).Int("pid", w.Pid).Msg("worker exited with error")
		return
	}
	logger.Info().Int("pid", w.Pid).Msg("worker exited")
}

func (w *Worker) Running() bool {
	return !w.exited.Load()
}
