package core

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/encodeous/ripsim/state"
	"github.com/stretchr/testify/require"
)

func newTestEnv(t *testing.T, opts ...func(*state.SimCfg)) *state.Env {
	t.Helper()
	cfg := state.SimCfg{Name: "test"}
	cfg.ApplyDefaults()
	for _, opt := range opts {
		opt(&cfg)
	}
	ctx, cancel := context.WithCancelCause(context.Background())
	t.Cleanup(func() { cancel(nil) })
	return &state.Env{
		SimCfg:   cfg,
		Context:  ctx,
		Cancel:   cancel,
		Log:      slog.New(slog.DiscardHandler),
		LogLevel: &slog.LevelVar{},
		Rand:     rand.New(rand.NewPCG(42, 42)),
	}
}

// buildLine creates routers connected in a line, in the given order.
func buildLine(t *testing.T, env *state.Env, names ...state.NodeId) *Network {
	t.Helper()
	n := NewNetwork(env)
	for _, name := range names {
		require.NoError(t, n.AddRouter(name))
	}
	for i := 1; i < len(names); i++ {
		require.NoError(t, n.AddRoute(names[i-1], names[i]))
	}
	return n
}

func runTicks(n *Network, count int) {
	for i := 0; i < count; i++ {
		n.Tick()
	}
}

// hops extracts destination -> hop count from a router's table.
func hops(r *Router) map[state.NodeId]int {
	out := make(map[state.NodeId]int)
	for _, entry := range r.Entries() {
		out[entry.Destination] = entry.HopCount
	}
	return out
}
