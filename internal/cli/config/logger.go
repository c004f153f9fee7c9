package config

import (
	"log/slog"
	"strings"

	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Logger holds logger configuration
type Logger struct {
	Level   string
	NoColor bool
}

// Flags returns CLI flags for logger configuration
func (c *Logger) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &c.Level,
			Sources:     cli.EnvVars("IMAGE_SAVER_LOG_LEVEL"),
		},
		&cli.BoolFlag{
			Name:        "no-color",
			Usage:       "Disable colored log output",
			Destination: &c.NoColor,
			Sources:     cli.EnvVars("IMAGE_SAVER_NO_COLOR", "NO_COLOR"),
		},
	}
}

// Configure builds a console logger from the configuration
func (c *Logger) Configure() (*slog.Logger, error) {
	levels := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}

	level, ok := levels[strings.ToLower(c.Level)]
	if !ok {
		return nil, goerr.New("invalid log level", goerr.V("level", c.Level))
	}

	handler := clog.New(
		clog.WithLevel(level),
		clog.WithColor(!c.NoColor),
	)
	return slog.New(handler), nil
}
