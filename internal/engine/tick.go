// Package engine provides the tick-based simulation loop and the town
// simulation it drives.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/talgya/cozy-town/internal/clock"
)

// Engine drives the simulation forward.
type Engine struct {
	Tick     uint64        // Current tick counter (monotonic, never resets)
	Speed    float64       // Multiplier: 1.0 = real-time, 0 = paused
	Interval time.Duration // Base tick interval (default 1 second)

	// Callbacks for each tick layer, populated during setup.
	OnTick func(tick uint64) // Every tick (sim-minute)
	OnHour func(tick uint64) // Every 60 ticks
	OnDay  func(tick uint64) // Every 1440 ticks
}

// NewEngine creates a simulation engine with default settings.
func NewEngine() *Engine {
	return &Engine{
		Speed:    1.0,
		Interval: time.Second,
	}
}

// Run starts the simulation loop. Blocks until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) {
	slog.Info("simulation engine started", "tick", e.Tick, "speed", e.Speed)

	for ctx.Err() == nil {
		if e.Speed <= 0 {
			// Paused.
			sleep(ctx, 100*time.Millisecond)
			continue
		}

		start := time.Now()
		e.Step()

		// Sleep for the remainder of the tick interval, adjusted for speed.
		elapsed := time.Since(start)
		target := time.Duration(float64(e.Interval) / e.Speed)
		if elapsed < target {
			sleep(ctx, target-elapsed)
		}
	}

	slog.Info("simulation engine stopped", "tick", e.Tick)
}

// Advance runs n ticks back to back without pacing.
func (e *Engine) Advance(n int) {
	for i := 0; i < n; i++ {
		e.Step()
	}
}

// Step advances the simulation by one tick.
func (e *Engine) Step() {
	e.Tick++

	if e.OnTick != nil {
		e.OnTick(e.Tick)
	}

	// Every sim-hour: healing.
	if e.Tick%clock.TicksPerSimHour == 0 && e.OnHour != nil {
		e.OnHour(e.Tick)
	}

	// Every sim-day: population upkeep, summaries, festival reports.
	if e.Tick%clock.TicksPerSimDay == 0 && e.OnDay != nil {
		e.OnDay(e.Tick)
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
