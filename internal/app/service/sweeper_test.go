package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGate(t *testing.T) {
	g := NewGate()
	assert.False(t, g.IsOpen())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, g.Wait(ctx), context.DeadlineExceeded)

	g.Open()
	g.Open()
	assert.True(t, g.IsOpen())
	assert.NoError(t, g.Wait(context.Background()))
}

func TestSweeperWaitsForGate(t *testing.T) {
	var runs atomic.Int32
	gate := NewGate()
	sw := newSweeper(func(context.Context) (SweepReport, error) {
		runs.Add(1)
		return SweepReport{}, nil
	}, gate, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sw.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, runs.Load(), "no sweep before ready")

	gate.Open()
	require.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
	assert.EqualValues(t, 1, runs.Load())
}

func TestSweeperTicks(t *testing.T) {
	var runs atomic.Int32
	gate := NewGate()
	gate.Open()
	sw := newSweeper(func(context.Context) (SweepReport, error) {
		runs.Add(1)
		return SweepReport{}, errBoom
	}, gate, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = sw.Run(ctx) }()

	require.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestSweeperStopsBeforeReady(t *testing.T) {
	sw := newSweeper(func(context.Context) (SweepReport, error) {
		t.Fatal("must not sweep")
		return SweepReport{}, nil
	}, NewGate(), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, sw.Run(ctx))
}

func TestSweeperDefaultInterval(t *testing.T) {
	sw := newSweeper(nil, NewGate(), 0)
	assert.Equal(t, 6*time.Hour, sw.interval)
}

func TestRunOnceReturnsReport(t *testing.T) {
	h := newHarness(t)
	h.voice(testJoin)
	h.clk.Advance(3 * 24 * time.Hour)

	rep := NewSweeper(h.svc, NewGate(), time.Hour).RunOnce(context.Background())
	assert.Equal(t, SweepReport{Guilds: 1, Checked: 1, Reclaimed: 1}, rep)
}
