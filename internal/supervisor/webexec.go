package supervisor

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"sync/atomic"
	"syscall"

	"github.com/rs/zerolog"

	"launchpad/internal/config"
	"launchpad/internal/logfs"
)

// BuildWebArgv assembles the web server command line: the configured command
// and args plus the bind address (all interfaces, platform-assigned port) and
// the fixed worker/thread/timeout parameters.
func BuildWebArgv(cfg config.WebConfig, port string) []string {
	argv := []string{cfg.Command}
	argv = append(argv, cfg.Args...)
	argv = append(argv,
		"--bind", "0.0.0.0:"+port,
		"--workers", strconv.Itoa(cfg.Workers),
		"--threads", strconv.Itoa(cfg.Threads),
		"--timeout", strconv.Itoa(cfg.TimeoutSeconds),
	)
	return argv
}

// ExecWeb replaces the supervisor's process image with the web server, with
// stdout and stderr routed to the web log. On success it never returns;
// any return value is a failure to exec.
func ExecWeb(cfg config.WebConfig, logDir, port string, logger zerolog.Logger) error {
	logFile, err := logfs.OpenAppend(logDir, cfg.Log)
	if err != nil {
		return err
	}

	path, err := exec.LookPath(cfg.Command)
	if err != nil {
		logFile.Close()
		return fmt.Errorf("web server binary: %w", err)
	}

	argv := BuildWebArgv(cfg, port)
	logger.Info().Strs("argv", argv).Msg("handing off to web server")

	// The image swap keeps open descriptors, so point 1 and 2 at the log
	// before exec. After this the supervisor's own output goes there too.
	fd := int(logFile.Fd())
	if err := syscall.Dup2(fd, 1); err != nil {
		return fmt.Errorf("redirect stdout: %w", err)
	}
	if err := syscall.Dup2(fd, 2); err != nil {
		return fmt.Errorf("redirect stderr: %w", err)
	}

	return syscall.Exec(path, argv, os.Environ())
}

// WebServer is the final managed child in child mode.
type WebServer struct {
	Pid int

	cmd     *exec.Cmd
	logFile *os.File
	exited  atomic.Bool
}

// StartWebChild runs the web server as a child instead of replacing the
// process image. Functionally equivalent for a single-purpose supervisor:
// the caller blocks on Wait and exits with the child's code.
func StartWebChild(cfg config.WebConfig, logDir, port string, logger zerolog.Logger) (*WebServer, error) {
	logFile, err := logfs.OpenAppend(logDir, cfg.Log)
	if err != nil {
		return nil, err
	}

	argv := BuildWebArgv(cfg, port)
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Start(); err != nil {
		logFile.Close()
		return nil, fmt.Errorf("start web server %s: %w", cfg.Command, err)
	}

	logger.Info().Int("pid", cmd.Process.Pid).Strs("argv", argv).Msg("web server started")

	return &WebServer{Pid: cmd.Process.Pid, cmd: cmd, logFile: logFile}, nil
}

// Signal forwards a signal to the web server child.
func (ws *WebServer) Signal(sig os.Signal) error {
	return ws.cmd.Process.Signal(sig)
}

// Wait blocks until the web server exits and returns its exit code, which
// becomes the supervisor's own.
func (ws *WebServer) Wait() int {
	err := ws.cmd.Wait()
	ws.exited.Store(true)
	ws.logFile.Close()

	if ws.cmd.ProcessState != nil {
		if code := ws.cmd.ProcessState.ExitCode(); code >= 0 {
			return code
		}
	}
	if err != nil {
		return 1
	}
	return 0
}

func (ws *WebServer) Running() bool {
	return !ws.exited.Load()
}
