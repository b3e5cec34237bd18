package logging

import (
	"os"

	"log/slog"
)

// New builds the process-wide JSON logger. Handlers receive it explicitly;
// nothing in this codebase logs through a package-level default.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
