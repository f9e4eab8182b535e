package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Web handoff modes.
const (
	ModeExec  = "exec"  // replace the supervisor's process image
	ModeChild = "child" // run the web server as the final managed child
)

type WorkerConfig struct {
	Command      string   `yaml:"command"`
	Args         []string `yaml:"args,omitempty"`
	Log          string   `yaml:"log,omitempty"`
	StartDelayMs int      `yaml:"start_delay_ms,omitempty"`
}

type WebConfig struct {
	Command        string   `yaml:"command"`
	Args           []string `yaml:"args,omitempty"`
	Log            string   `yaml:"log,omitempty"`
	Mode           string   `yaml:"mode,omitempty"`
	Workers        int      `yaml:"workers,omitempty"`
	Threads        int      `yaml:"threads,omitempty"`
	TimeoutSeconds int      `yaml:"timeout_seconds,omitempty"`
}

type PingWindow struct {
	From int `yaml:"from"`
	To   int `yaml:"to"`
}

type PingConfig struct {
	URL             string     `yaml:"url"`
	IntervalSeconds int        `yaml:"interval_seconds,omitempty"`
	TimeoutSeconds  int        `yaml:"timeout_seconds,omitempty"`
	UTCOffsetHours  int        `yaml:"utc_offset_hours"`
	Window          PingWindow `yaml:"window"`
	Log             string     `yaml:"log,omitempty"`
}

type AdminConfig struct {
	Address string `yaml:"address,omitempty"`
}

type BootstrapConfig struct {
	LogDir string       `yaml:"log_dir,omitempty"`
	Worker WorkerConfig `yaml:"worker"`
	Web    WebConfig    `yaml:"web"`
	Ping   PingConfig   `yaml:"ping"`
	Admin  AdminConfig  `yaml:"admin,omitempty"`
}

// DefaultBootstrapConfig mirrors the deployment the supervisor was written
// for: a python reminder worker, a gunicorn web server, and a keep-warm ping
// window of 9:00-24:00 at UTC+7.
func DefaultBootstrapConfig() *BootstrapConfig {
	cfg := &BootstrapConfig{
		Worker: WorkerConfig{
			Command: "python3",
			Args:    []string{"remind_worker.py"},
		},
		Web: WebConfig{
			Command: "gunicorn",
			Args:    []string{"app:app"},
		},
		Ping: PingConfig{
			UTCOffsetHours: 7,
			Window:         PingWindow{From: 9, To: 24},
		},
	}
	cfg.applyDefaults()
	return cfg
}

func LoadBootstrapConfig(path string) (*BootstrapConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg BootstrapConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	return &cfg, nil
}

func (c *BootstrapConfig) applyDefaults() {
	if c.LogDir == "" {
		c.LogDir = "logs"
	}
	if c.Worker.Log == "" {
		c.Worker.Log = "remind_worker.log"
	}
	if c.Worker.StartDelayMs == 0 {
		c.Worker.StartDelayMs = 2000
	}
	if c.Web.Log == "" {
		c.Web.Log = "web.log"
	}
	if c.Web.Mode == "" {
		c.Web.Mode = ModeExec
	}
	if c.Web.Workers == 0 {
		c.Web.Workers = 2
	}
	if c.Web.Threads == 0 {
		c.Web.Threads = 4
	}
	if c.Web.TimeoutSeconds == 0 {
		c.Web.TimeoutSeconds = 120
	}
	if c.Ping.IntervalSeconds == 0 {
		c.Ping.IntervalSeconds = 300
	}
	if c.Ping.TimeoutSeconds == 0 {
		c.Ping.TimeoutSeconds = 5
	}
	if c.Ping.Log == "" {
		c.Ping.Log = "autoping.log"
	}
	if c.Ping.Window.To == 0 {
		c.Ping.Window = PingWindow{From: 9, To: 24}
	}
}
