package config

import (
	"errors"
	"os"

	"github.com/rs/zerolog"
)

var ErrMissingPort = errors.New("PORT environment variable is not set")

// Env holds the environment the hosting platform injects. PORT is the only
// value the supervisor itself consumes; the reminder variables belong to the
// worker process and are surfaced here for diagnostics only.
type Env struct {
	Port string

	Timezone         string
	RemindHour       string
	RemindMinute     string
	MinRepeatMinutes string
}

func LoadEnv() (*Env, error) {
	port := os.Getenv("PORT")
	if port == "" {
		return nil, ErrMissingPort
	}

	return &Env{
		Port:             port,
		Timezone:         os.Getenv("TIMEZONE"),
		RemindHour:       os.Getenv("REMIND_HOUR"),
		RemindMinute:     os.Getenv("REMIND_MINUTE"),
		MinRepeatMinutes: os.Getenv("MIN_REPEAT_MINUTES"),
	}, nil
}

// LogDiagnostics records the worker-facing variables once at startup so they
// show up in the platform console next to the worker's own output.
func (e *Env) LogDiagnostics(logger zerolog.Logger) {
	logger.Info().
		Str("port", e.Port).
		Str("timezone", e.Timezone).
		Str("remind_hour", e.RemindHour).
		Str("remind_minute", e.RemindMinute).
		Str("min_repeat_minutes", e.MinRepeatMinutes).
		Msg("environment loaded")
}
