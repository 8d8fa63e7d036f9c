// Package engine provides the fixed-step simulation loop and the Simulation
// that it advances.
package engine

import (
	"log/slog"
	"math"
	"sync/atomic"
	"time"
)

const (
	DefaultInterval    = 100 * time.Millisecond // Real time per step at speed 1
	DefaultReportEvery = 600                    // Steps between reports (one minute at defaults)
)

// Stepper advances simulated state by dt seconds and returns the new tick.
type Stepper interface {
	Step(dt float64) uint64
}

// Engine drives a Stepper forward in real time. Each step always advances
// the simulation by Interval seconds; Speed only shortens or stretches the
// wall-clock wait between steps, so results do not depend on speed.
type Engine struct {
	Interval    time.Duration // Simulated time per step
	ReportEvery uint64        // OnReport cadence in steps; 0 disables

	// Callbacks, populated during setup.
	OnStep   func(tick uint64) // After every step
	OnReport func(tick uint64) // Every ReportEvery steps

	sim     Stepper
	tick    atomic.Uint64
	speed   atomic.Uint64 // math.Float64bits
	running atomic.Bool
}

// NewEngine creates an engine at speed 1 with default settings.
func NewEngine(sim Stepper) *Engine {
	e := &Engine{
		Interval:    DefaultInterval,
		ReportEvery: DefaultReportEvery,
		sim:         sim,
	}
	e.SetSpeed(1.0)
	return e
}

// Speed returns the current multiplier. 0 means paused.
func (e *Engine) Speed() float64 {
	return math.Float64frombits(e.speed.Load())
}

// SetSpeed changes the multiplier. Negative values pause.
func (e *Engine) SetSpeed(speed float64) {
	if speed < 0 || math.IsNaN(speed) {
		speed = 0
	}
	e.speed.Store(math.Float64bits(speed))
}

// Tick returns the last tick the engine stepped to.
func (e *Engine) Tick() uint64 {
	return e.tick.Load()
}

// Running reports whether Run is looping.
func (e *Engine) Running() bool {
	return e.running.Load()
}

// Delta is the simulated seconds per step.
func (e *Engine) Delta() float64 {
	return e.Interval.Seconds()
}

// Run starts the simulation loop. Blocks until Stop() is called.
func (e *Engine) Run() {
	e.running.Store(true)
	slog.Info("simulation engine started", "tick", e.Tick(), "speed", e.Speed(), "interval", e.Interval)

	for e.running.Load() {
		speed := e.Speed()
		if speed <= 0 {
			// Paused; check again shortly.
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()

		e.step()

		// Sleep for the remainder of the step interval, adjusted for speed.
		elapsed := time.Since(start)
		target := time.Duration(float64(e.Interval) / speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("simulation engine stopped", "tick", e.Tick())
}

// Stop halts the simulation loop after the current step.
func (e *Engine) Stop() {
	e.running.Store(false)
}

// Advance runs n steps of dt seconds outside the real-time loop, firing
// OnStep and OnReport exactly as Run does. It is safe to call while Run is
// looping. It returns the last tick reached.
func (e *Engine) Advance(n int, dt float64) uint64 {
	for i := 0; i < n; i++ {
		e.stepBy(dt)
	}
	return e.Tick()
}

// step advances the simulation by one fixed step.
func (e *Engine) step() {
	e.stepBy(e.Delta())
}

func (e *Engine) stepBy(dt float64) {
	tick := e.sim.Step(dt)
	for {
		prev := e.tick.Load()
		if tick <= prev || e.tick.CompareAndSwap(prev, tick) {
			break
		}
	}

	if e.OnStep != nil {
		e.OnStep(tick)
	}
	if e.ReportEvery > 0 && tick%e.ReportEvery == 0 && e.OnReport != nil {
		e.OnReport(tick)
	}
}

// SimTime formats a tick as elapsed simulated time for an interval.
func SimTime(tick uint64, interval time.Duration) string {
	return (time.Duration(tick) * interval).Round(time.Second).String()
}
