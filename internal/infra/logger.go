// README: Structured logger setup, colored console by default, JSON via env.
package infra

import (
	"log/slog"
	"os"

	"github.com/m-mizutani/clog"
)

// NewLogger builds the process-wide logger and installs it as the slog
// default. ROAM_LOG_FORMAT=json switches to machine-readable output.
func NewLogger() *slog.Logger {
	var handler slog.Handler
	if os.Getenv("ROAM_LOG_FORMAT") == "json" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = clog.New(
			clog.WithWriter(os.Stdout),
			clog.WithColor(true),
			clog.WithSource(false),
		)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
