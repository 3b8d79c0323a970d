package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jose-valero/tempvoice-bot/internal/domain"
	"github.com/jose-valero/tempvoice-bot/internal/telemetry"
)

type sweepFunc func(ctx context.Context) (SweepReport, error)

// Sweeper corre el barrido apenas abre el gate y después cada interval.
type Sweeper struct {
	sweep    sweepFunc
	gate     *Gate
	interval time.Duration
	log      *slog.Logger
}

func NewSweeper(rooms *RoomsService, gate *Gate, interval time.Duration) *Sweeper {
	return newSweeper(rooms.Sweep, gate, interval)
}

func newSweeper(fn sweepFunc, gate *Gate, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = domain.SweepInterval
	}
	return &Sweeper{
		sweep:    fn,
		gate:     gate,
		interval: interval,
		log:      slog.Default().With(slog.String("component", "sweeper")),
	}
}

// Run bloquea hasta que ctx termina.
func (s *Sweeper) Run(ctx context.Context) error {
	s.log.Info("waiting for gateway ready")
	if err := s.gate.Wait(ctx); err != nil {
		return nil
	}
	s.log.Info("sweeper started", slog.Duration("interval", s.interval))

	s.RunOnce(ctx)

	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			s.log.Info("sweeper stopped")
			return nil
		case <-t.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce ejecuta una pasada y la loguea; también la usa la lambda janitor.
func (s *Sweeper) RunOnce(ctx context.Context) SweepReport {
	runID := uuid.NewString()
	log := s.log.With(slog.String("run_id", runID))
	start := time.Now()
	telemetry.Inc(telemetry.SweepRuns)

	rep, err := s.sweep(ctx)
	took := telemetry.ObserveSince(telemetry.SweepDuration, start)
	if err != nil {
		log.Error("sweep failed", slog.Any("err", err), slog.Duration("took", took))
		return rep
	}
	log.Info("sweep done",
		slog.Int("guilds", rep.Guilds),
		slog.Int("checked", rep.Checked),
		slog.Int("reclaimed", rep.Reclaimed),
		slog.Int("delete_failures", rep.DeleteFailures),
		slog.Duration("took", took))
	return rep
}
