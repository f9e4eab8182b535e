package main

import (
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"launchpad/internal/config"
	"launchpad/internal/supervisor"
)

func main() {
	configPath := flag.String("config", "launchpad.yaml", "Path to bootstrap configuration file")
	flag.Parse()

	logger := newLogger()

	// Local development convenience; hosted platforms inject env directly.
	if err := godotenv.Load(); err == nil {
		logger.Debug().Msg("loaded .env")
	}

	env, err := config.LoadEnv()
	if err != nil {
		logger.Fatal().Err(err).Msg("environment")
	}
	env.LogDiagnostics(logger)

	cfg, err := config.LoadBootstrapConfig(*configPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", *configPath).Msg("no bootstrap config found, using defaults")
			cfg = config.DefaultBootstrapConfig()
		} else {
			logger.Fatal().Err(err).Str("path", *configPath).Msg("bootstrap config")
		}
	}

	sup := supervisor.New(cfg, env, logger)

	code, err := sup.Run()
	if err != nil {
		logger.Error().Err(err).Msg("startup sequence failed")
	}
	os.Exit(code)
}

func newLogger() zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	if isatty.IsTerminal(os.Stderr.Fd()) {
		out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		return zerolog.New(out).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
