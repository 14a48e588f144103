package core

import (
	"fmt"

	"github.com/encodeous/ripsim/state"
)

// DropReason explains why a traced packet could not be delivered.
type DropReason int

const (
	Delivered      DropReason = iota
	NoRoute                   // the current router has no table entry for the destination
	Unreachable               // the table entry carries the Infinity metric
	UnknownNextHop            // the next hop router no longer exists
	LinkDown                  // the adjacency toward the next hop no longer exists
	TooManyHops               // path exceeded Infinity hops, assumed to be looping
)

func (d DropReason) String() string {
	switch d {
	case Delivered:
		return "delivered"
	case NoRoute:
		return "no route to destination"
	case Unreachable:
		return "destination unreachable"
	case UnknownNextHop:
		return "next hop no longer exists"
	case LinkDown:
		return "link to next hop is down"
	case TooManyHops:
		return "too many hops"
	default:
		return "unknown"
	}
}

type TraceResult struct {
	Path      []state.NodeId
	Delivered bool
	Reason    DropReason
}

// Trace simulates a packet travelling from src to dst, consulting the
// current routing tables hop by hop. It never mutates any table.
func Trace(n *Network, src, dst state.NodeId) (TraceResult, error) {
	if _, ok := n.Router(src); !ok {
		return TraceResult{}, fmt.Errorf("trace %s-%s: %s: %w", src, dst, src, ErrUnknownRouter)
	}
	if _, ok := n.Router(dst); !ok {
		return TraceResult{}, fmt.Errorf("trace %s-%s: %s: %w", src, dst, dst, ErrUnknownRouter)
	}

	res := TraceResult{Path: []state.NodeId{src}}
	cur := src
	for cur != dst {
		if len(res.Path) > state.Infinity {
			res.Reason = TooManyHops
			return res, nil
		}
		r, _ := n.Router(cur)
		entry, ok := r.Entry(dst)
		if !ok {
			res.Reason = NoRoute
			return res, nil
		}
		if entry.HopCount >= state.Infinity {
			res.Reason = Unreachable
			return res, nil
		}
		next := entry.NextHop
		if _, ok := n.Router(next); !ok {
			res.Reason = UnknownNextHop
			return res, nil
		}
		if !n.HasRoute(cur, next) {
			res.Reason = LinkDown
			return res, nil
		}
		res.Path = append(res.Path, next)
		cur = next
	}
	res.Delivered = true
	res.Reason = Delivered
	return res, nil
}
