package discord

import (
	"log/slog"
	"time"
)

func step(label string) func() {
	start := time.Now()
	return func() { slog.Debug("trace", slog.String("step", label), slog.Duration("took", time.Since(start))) }
}
