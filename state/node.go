package state

import "fmt"

// NodeId uniquely identifies a router within a network.
type NodeId string

// RouteEntry is a single destination's best-known route, together with the
// timers that govern its expiry. See RFC 1058, section 3.3.
type RouteEntry struct {
	Destination NodeId
	HopCount    int
	NextHop     NodeId // empty for the router's own entry
	Changed     bool   // metric or next hop changed since the last advertisement

	// TimeoutTicks counts down from RouteTimeout while the route is valid.
	// -1 means the route has already expired and is aging toward deletion.
	TimeoutTicks int
	// GarbageTicks counts down from GarbageTimeout, but only once
	// TimeoutTicks has run out. Reaching zero deletes the entry.
	GarbageTicks int
}

// Advertisement is a snapshot of a router's table, queued on a neighbour
// until its next tick.
type Advertisement struct {
	From    NodeId
	Entries []RouteEntry
}

func (e RouteEntry) String() string {
	nh := string(e.NextHop)
	if nh == "" {
		nh = "-"
	}
	return fmt.Sprintf("To: %-10s Hops: %2d Next: %-10s Changed: %-5v Timeout: %4d Garbage: %4d",
		e.Destination, e.HopCount, nh, e.Changed, e.TimeoutTicks, e.GarbageTicks)
}
