package logging

import (
	"log/slog"
	"os"
)

// StdoutHandler returns a JSON handler writing to stdout. Environments
// other than production log at debug level.
func StdoutHandler(env string) slog.Handler {
	level := slog.LevelInfo
	if env != "production" {
		level = slog.LevelDebug
	}
	return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
}

// Setup installs the stdout JSON handler as the process default logger.
func Setup(env string) {
	slog.SetDefault(slog.New(StdoutHandler(env)))
}
