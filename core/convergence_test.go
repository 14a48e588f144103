package core

import (
	"testing"

	"github.com/encodeous/ripsim/state"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bfsDistances computes shortest hop distances over the current adjacencies.
func bfsDistances(n *Network, from state.NodeId) map[state.NodeId]int {
	dist := map[state.NodeId]int{from: 0}
	queue := []state.NodeId{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range n.Routers() {
			if _, seen := dist[next]; !seen && n.HasRoute(cur, next) {
				dist[next] = dist[cur] + 1
				queue = append(queue, next)
			}
		}
	}
	return dist
}

func TestLineConvergence(t *testing.T) {
	env := newTestEnv(t)
	n := buildLine(t, env, "a", "b", "c", "d")

	runTicks(n, 100)

	a, _ := n.Router("a")
	entry, ok := a.Entry("d")
	require.True(t, ok)
	assert.Equal(t, 3, entry.HopCount)
	assert.Equal(t, state.NodeId("b"), entry.NextHop)

	for _, id := range n.Routers() {
		r, _ := n.Router(id)
		if diff := cmp.Diff(bfsDistances(n, id), hops(r)); diff != "" {
			t.Errorf("router %s has not converged to shortest paths (-want +got):\n%s", id, diff)
		}
	}
}

func TestRingConvergence(t *testing.T) {
	env := newTestEnv(t)
	n := buildLine(t, env, "a", "b", "c", "d")
	require.NoError(t, n.AddRoute("d", "a"))

	runTicks(n, 150)

	for _, id := range n.Routers() {
		r, _ := n.Router(id)
		if diff := cmp.Diff(bfsDistances(n, id), hops(r)); diff != "" {
			t.Errorf("router %s has not converged to shortest paths (-want +got):\n%s", id, diff)
		}
	}
}

func TestShortcutAdoption(t *testing.T) {
	env := newTestEnv(t)
	n := buildLine(t, env, "a", "b", "c", "d")
	runTicks(n, 100)

	// a learns the direct path once the adjacency exists
	require.NoError(t, n.AddRoute("a", "d"))
	runTicks(n, 100)

	a, _ := n.Router("a")
	entry, ok := a.Entry("d")
	require.True(t, ok)
	assert.Equal(t, 1, entry.HopCount)
	assert.Equal(t, state.NodeId("d"), entry.NextHop)
}

func TestLinkCutAgesOutRoutes(t *testing.T) {
	env := newTestEnv(t, func(cfg *state.SimCfg) {
		cfg.RouteTimeout = 80
	})
	n := buildLine(t, env, "a", "b", "c", "d")
	runTicks(n, 100)

	require.NoError(t, n.DeleteRoute("b", "c"))

	// b's entries for c and d expire one timeout after the cut and are
	// deleted one garbage period later; a's entries stop being refreshed
	// once b's table no longer advertises them, so they need one more
	// timeout+garbage period to disappear
	aging := env.RouteTimeout + env.GarbageTimeout
	runTicks(n, 2*aging+60)

	for _, id := range []state.NodeId{"a", "b"} {
		r, _ := n.Router(id)
		_, ok := r.Entry("c")
		assert.False(t, ok, "router %s must have aged out its route to c", id)
		_, ok = r.Entry("d")
		assert.False(t, ok, "router %s must have aged out its route to d", id)
	}
	for _, id := range []state.NodeId{"c", "d"} {
		r, _ := n.Router(id)
		_, ok := r.Entry("a")
		assert.False(t, ok, "router %s must have aged out its route to a", id)
	}

	// routes on the surviving side stay alive
	a, _ := n.Router("a")
	entry, ok := a.Entry("b")
	require.True(t, ok)
	assert.Equal(t, 1, entry.HopCount)
}

func TestDeletedRouterAgesOutEverywhere(t *testing.T) {
	env := newTestEnv(t, func(cfg *state.SimCfg) {
		cfg.RouteTimeout = 80
	})
	n := buildLine(t, env, "a", "b", "c")
	runTicks(n, 100)

	require.NoError(t, n.DeleteRouter("c"))

	aging := env.RouteTimeout + env.GarbageTimeout
	runTicks(n, 2*aging+60)

	for _, id := range []state.NodeId{"a", "b"} {
		r, _ := n.Router(id)
		_, ok := r.Entry("c")
		assert.False(t, ok, "router %s must have aged out its route to deleted router c", id)
	}
}
