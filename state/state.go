package state

import (
	"context"
	"log/slog"
	"math/rand/v2"
)

// Env can be read from any Goroutine. Simulation state itself must only be
// touched on the goroutine running the dispatch loop.
type Env struct {
	SimCfg
	DispatchChannel chan<- func() error
	Context         context.Context
	Cancel          context.CancelCauseFunc
	Log             *slog.Logger
	LogLevel        *slog.LevelVar
	Rand            *rand.Rand
}

// UpdateDelay samples the periodic advertisement interval with jitter.
func (e *Env) UpdateDelay() int {
	return e.UpdateInterval + e.Rand.IntN(2*UpdateJitter+1) - UpdateJitter
}

// TriggerDelay samples the short delay before a triggered update fires.
func (e *Env) TriggerDelay() int {
	return 1 + e.Rand.IntN(3)
}
