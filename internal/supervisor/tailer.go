package supervisor

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"gopkg.in/tomb.v2"
)

// Tailer follows a log file and copies appended lines to an output writer,
// so a hosting platform's console shows the worker's output even though the
// worker writes only to its own file. The file may not exist when the tailer
// starts; streaming begins at offset 0 as soon as it is created.
type Tailer struct {
	tomb.Tomb

	path   string
	out    io.Writer
	logger zerolog.Logger

	// pollInterval backstops fsnotify: appends flushed between events are
	// picked up on the next poll.
	pollInterval time.Duration
}

func NewTailer(path string, out io.Writer, logger zerolog.Logger) *Tailer {
	return &Tailer{
		path:         path,
		out:          out,
		logger:       logger.With().Str("component", "tailer").Str("file", path).Logger(),
		pollInterval: 500 * time.Millisecond,
	}
}

// Start launches the follow loop under the tailer's tomb.
func (t *Tailer) Start() {
	t.Go(t.follow)
}

func (t *Tailer) follow() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory, not the file: the file may not exist yet and
	// create events arrive on the parent.
	if err := watcher.Add(filepath.Dir(t.path)); err != nil {
		return err
	}

	var (
		file    *os.File
		rdr     *bufio.Reader
		pending []byte
	)
	defer func() {
		if file != nil {
			file.Close()
		}
	}()

	open := func() {
		if file != nil {
			return
		}
		f, err := os.Open(t.path)
		if err != nil {
			return
		}
		file = f
		rdr = bufio.NewReader(f)
		t.logger.Info().Msg("tailing")
	}

	// drain copies complete lines to the output. A chunk without a trailing
	// newline is held until the rest of the line arrives.
	drain := func() error {
		if rdr == nil {
			return nil
		}
		for {
			chunk, err := rdr.ReadString('\n')
			if chunk != "" {
				pending = append(pending, chunk...)
			}
			if err != nil {
				return nil
			}
			if _, werr := t.out.Write(pending); werr != nil {
				return werr
			}
			pending = pending[:0]
		}
	}

	open()
	if err := drain(); err != nil {
		return err
	}

	poll := time.NewTicker(t.pollInterval)
	defer poll.Stop()

	for {
		select {
		case <-t.Dying():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Name == t.path && ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				open()
				if err := drain(); err != nil {
					return err
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			t.logger.Warn().Err(err).Msg("watch error")
		case <-poll.C:
			open()
			if err := drain(); err != nil {
				return err
			}
		}
	}
}
