package core

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/encodeous/ripsim/perf"
	"github.com/encodeous/ripsim/state"
)

// topology mutation rejections; none of them leave partial state behind
var (
	ErrDuplicateRouter = errors.New("router already exists")
	ErrUnknownRouter   = errors.New("router does not exist")
	ErrDuplicateRoute  = errors.New("route already exists")
	ErrUnknownRoute    = errors.New("route does not exist")
)

// Network owns the router set and the undirected adjacency set, and drives
// the global simulation tick.
type Network struct {
	env     *state.Env
	order   []state.NodeId // registration order, also the tick order
	routers map[state.NodeId]*Router
	links   []state.Pair[state.NodeId, state.NodeId]
	ticks   uint64
}

func NewNetwork(env *state.Env) *Network {
	return &Network{
		env:     env,
		routers: make(map[state.NodeId]*Router),
	}
}

// BuildNetwork constructs a network from the scenario configuration.
func BuildNetwork(env *state.Env) (*Network, error) {
	n := NewNetwork(env)
	for _, id := range env.SimCfg.Routers {
		if err := n.AddRouter(id); err != nil {
			return nil, err
		}
	}
	pairs, err := state.ParseGraph(env.SimCfg.Graph, env.SimCfg.Routers)
	if err != nil {
		return nil, err
	}
	for _, pair := range pairs {
		if err := n.AddRoute(pair.V1, pair.V2); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (n *Network) AddRouter(name state.NodeId) error {
	if _, ok := n.routers[name]; ok {
		return fmt.Errorf("add router %s: %w", name, ErrDuplicateRouter)
	}
	n.routers[name] = NewRouter(n.env, name)
	n.order = append(n.order, name)
	n.env.Log.Info("added router", "router", name)
	return nil
}

func (n *Network) AddRoute(a, b state.NodeId) error {
	if _, ok := n.routers[a]; !ok {
		return fmt.Errorf("add route %s-%s: %s: %w", a, b, a, ErrUnknownRouter)
	}
	if _, ok := n.routers[b]; !ok {
		return fmt.Errorf("add route %s-%s: %s: %w", a, b, b, ErrUnknownRouter)
	}
	pair := state.MakeSortedPair(a, b)
	// a router is trivially adjacent to itself, reject self-pairs as duplicates
	if a == b || slices.Contains(n.links, pair) {
		return fmt.Errorf("add route %s-%s: %w", a, b, ErrDuplicateRoute)
	}
	n.links = append(n.links, pair)
	state.SortPairs(n.links)
	n.env.Log.Info("added route", "a", a, "b", b)
	return nil
}

func (n *Network) DeleteRoute(a, b state.NodeId) error {
	pair := state.MakeSortedPair(a, b)
	idx := slices.Index(n.links, pair)
	if idx == -1 {
		return fmt.Errorf("delete route %s-%s: %w", a, b, ErrUnknownRoute)
	}
	n.links = slices.Delete(n.links, idx, idx+1)
	n.env.Log.Info("deleted route", "a", a, "b", b)
	return nil
}

// DeleteRouter removes a router and every adjacency incident to it. Entries
// for it in other tables are not touched; they age out through the timer
// mechanism.
func (n *Network) DeleteRouter(name state.NodeId) error {
	if _, ok := n.routers[name]; !ok {
		return fmt.Errorf("delete router %s: %w", name, ErrUnknownRouter)
	}
	n.links = slices.DeleteFunc(n.links, func(p state.Pair[state.NodeId, state.NodeId]) bool {
		return p.V1 == name || p.V2 == name
	})
	delete(n.routers, name)
	n.order = slices.DeleteFunc(n.order, func(id state.NodeId) bool {
		return id == name
	})
	n.env.Log.Info("deleted router", "router", name)
	return nil
}

// Tick advances the whole network by one simulated second. Routers tick in
// registration order, and each staged advertisement is fanned out to
// adjacent inboxes immediately, so a router later in the order sees
// same-tick deliveries from earlier routers.
func (n *Network) Tick() {
	start := time.Now()
	n.ticks++
	for _, id := range n.order {
		r := n.routers[id]
		r.Tick()
		if r.Outbound != nil {
			n.broadcast(r)
			r.Outbound = nil
		}
	}
	perf.TickLatency.Add(float64(time.Since(start).Microseconds()))
	if state.DBG_log_route_table {
		for _, id := range n.order {
			n.env.Log.Debug(n.routers[id].String())
		}
	}
}

func (n *Network) broadcast(r *Router) {
	for _, id := range n.order {
		if id == r.Id || !n.HasRoute(r.Id, id) {
			continue
		}
		n.routers[id].Inbox = append(n.routers[id].Inbox, state.Advertisement{
			From:    r.Id,
			Entries: r.Outbound,
		})
		perf.BroadcastsPerSecond.Add(1)
		if state.DBG_log_router {
			n.env.Log.Debug("delivered broadcast", "from", r.Id, "to", id)
		}
	}
}

// Routers enumerates router identifiers in registration order.
func (n *Network) Routers() []state.NodeId {
	return slices.Clone(n.order)
}

func (n *Network) Router(id state.NodeId) (*Router, bool) {
	r, ok := n.routers[id]
	return r, ok
}

// Links returns a copy of the adjacency set as sorted unordered pairs.
func (n *Network) Links() []state.Pair[state.NodeId, state.NodeId] {
	return slices.Clone(n.links)
}

func (n *Network) HasRoute(a, b state.NodeId) bool {
	return slices.Contains(n.links, state.MakeSortedPair(a, b))
}

// Ticks reports how many ticks the network has run.
func (n *Network) Ticks() uint64 {
	return n.ticks
}
