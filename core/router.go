package core

// This file makes references to RFC 1058:
// https://datatracker.ietf.org/doc/html/rfc1058

import (
	"slices"
	"strings"

	"github.com/encodeous/ripsim/perf"
	"github.com/encodeous/ripsim/state"
)

// Router runs the RIP state machine for a single simulated node.
type Router struct {
	Id    state.NodeId
	Table map[state.NodeId]*state.RouteEntry

	// TicksUntilUpdate counts down to the next periodic or triggered
	// advertisement.
	TicksUntilUpdate int
	// Outbound holds the staged advertisement snapshot. The Network consumes
	// and clears it within the same tick.
	Outbound []state.RouteEntry
	// Inbox holds advertisements delivered by adjacent routers, drained on
	// the next tick.
	Inbox []state.Advertisement

	env *state.Env
}

func NewRouter(env *state.Env, id state.NodeId) *Router {
	r := &Router{
		Id:  id,
		env: env,
		Table: map[state.NodeId]*state.RouteEntry{
			id: {Destination: id, HopCount: 0},
		},
	}
	r.resetUpdateInterval()
	return r
}

func (r *Router) resetUpdateInterval() {
	r.TicksUntilUpdate = r.env.UpdateDelay()
	if state.DBG_log_router {
		r.env.Log.Debug("reset update interval", "router", r.Id, "ticks", r.TicksUntilUpdate)
	}
}

// Tick advances the router by one simulated second.
func (r *Router) Tick() {
	r.TicksUntilUpdate--

	// 2.2.1. a changed route must not wait out the full periodic interval
	if r.hasChanged() {
		r.TicksUntilUpdate = min(r.TicksUntilUpdate, r.env.TriggerDelay())
	}

	if r.TicksUntilUpdate <= 0 {
		r.stageAdvertisement()
	}

	r.sweepTimers()
	r.collectGarbage()

	for _, adv := range r.Inbox {
		for _, entry := range adv.Entries {
			r.updateEntry(entry, adv.From)
		}
	}
	r.Inbox = r.Inbox[:0]

	if r.TicksUntilUpdate == 0 {
		r.resetUpdateInterval()
	}
}

func (r *Router) hasChanged() bool {
	for _, entry := range r.Table {
		if entry.Changed {
			return true
		}
	}
	return false
}

// stageAdvertisement snapshots the routing table into the outbound slot and
// clears the changed flags. The snapshot must be a copy, since the table
// keeps mutating before neighbours process it.
func (r *Router) stageAdvertisement() {
	snapshot := make([]state.RouteEntry, 0, len(r.Table))
	for _, entry := range r.Table {
		snapshot = append(snapshot, *entry)
		entry.Changed = false
	}
	slices.SortFunc(snapshot, func(a, b state.RouteEntry) int {
		return strings.Compare(string(a.Destination), string(b.Destination))
	})
	r.Outbound = snapshot
}

func (r *Router) sweepTimers() {
	for _, entry := range r.Table {
		if entry.Destination == r.Id {
			continue // the self-entry never expires
		}
		if entry.TimeoutTicks > 0 {
			entry.TimeoutTicks--
			if entry.TimeoutTicks == 0 {
				// route timed out; poison it and start aging toward deletion
				entry.HopCount = state.Infinity
				entry.Changed = true
				entry.TimeoutTicks = -1
				perf.RoutesExpired.Add(1)
				r.env.Log.Info("route timed out", "router", r.Id, "dest", entry.Destination)
			}
		} else {
			entry.GarbageTicks--
		}
	}
}

func (r *Router) collectGarbage() {
	for dest, entry := range r.Table {
		if dest == r.Id {
			continue
		}
		if entry.GarbageTicks <= 0 {
			delete(r.Table, dest)
			perf.RoutesCollected.Add(1)
			r.env.Log.Info("route garbage collected", "router", r.Id, "dest", dest)
		}
	}
}

// updateEntry is the Bellman-Ford relaxation step with poison reverse,
// applied to a single advertised entry.
func (r *Router) updateEntry(adv state.RouteEntry, from state.NodeId) {
	candidate := min(adv.HopCount+1, state.Infinity)
	if adv.NextHop == r.Id {
		// poison reverse: the sender's own route already transits through us,
		// we must not accept a path that loops back
		candidate = state.Infinity
	}

	if state.DBG_log_router {
		r.env.Log.Debug("eval advertised entry", "router", r.Id, "dest", adv.Destination, "from", from, "candidate", candidate)
	}

	entry, ok := r.Table[adv.Destination]
	if !ok {
		r.Table[adv.Destination] = &state.RouteEntry{
			Destination:  adv.Destination,
			HopCount:     candidate,
			NextHop:      from,
			Changed:      true,
			TimeoutTicks: r.env.RouteTimeout,
			GarbageTicks: r.env.GarbageTimeout,
		}
		perf.RoutesLearned.Add(1)
		r.env.Log.Info("learned route", "router", r.Id, "dest", adv.Destination, "hops", candidate, "via", from)
		return
	}

	// strict < only; an equal-cost candidate never replaces an existing
	// route, to avoid flapping on ties
	if candidate < entry.HopCount {
		entry.NextHop = from
		entry.HopCount = candidate
		entry.Changed = true
		r.env.Log.Info("improved route", "router", r.Id, "dest", adv.Destination, "hops", candidate, "via", from)
	}

	// any advertisement from the entry's current next hop is a liveness
	// signal, whether or not the metric changed
	if entry.NextHop == from {
		entry.TimeoutTicks = r.env.RouteTimeout
		entry.GarbageTicks = r.env.GarbageTimeout
	}
}

// Entry returns a copy of the table entry for dest.
func (r *Router) Entry(dest state.NodeId) (state.RouteEntry, bool) {
	entry, ok := r.Table[dest]
	if !ok {
		return state.RouteEntry{}, false
	}
	return *entry, true
}

// Entries returns a copy of the routing table, sorted by destination.
func (r *Router) Entries() []state.RouteEntry {
	entries := make([]state.RouteEntry, 0, len(r.Table))
	for _, entry := range r.Table {
		entries = append(entries, *entry)
	}
	slices.SortFunc(entries, func(a, b state.RouteEntry) int {
		return strings.Compare(string(a.Destination), string(b.Destination))
	})
	return entries
}

func (r *Router) String() string {
	var sb strings.Builder
	sb.WriteString("Router '" + string(r.Id) + "', table:\n")
	for _, entry := range r.Entries() {
		sb.WriteString("  " + entry.String() + "\n")
	}
	return sb.String()
}
