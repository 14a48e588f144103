package perf

import (
	"expvar"
	"net/http"

	"github.com/encodeous/metric"
)

var (
	DispatchLatency = metric.NewHistogram("1m1s")
	TickLatency     = metric.NewHistogram("1m1s")

	BroadcastsPerSecond = metric.NewCounter("10s1s")
	RoutesLearned       = metric.NewCounter("10s1s")
	RoutesExpired       = metric.NewCounter("10s1s")
	RoutesCollected     = metric.NewCounter("10s1s")
)

func init() {
	http.Handle("/debug/metrics", metric.Handler(metric.Exposed))
	expvar.Publish("ripsim:DispatchLatency (µs)", DispatchLatency)
	expvar.Publish("ripsim:TickLatency (µs)", TickLatency)
	expvar.Publish("ripsim:Broadcasts/s", BroadcastsPerSecond)
	expvar.Publish("ripsim:RoutesLearned/s", RoutesLearned)
	expvar.Publish("ripsim:RoutesExpired/s", RoutesExpired)
	expvar.Publish("ripsim:RoutesCollected/s", RoutesCollected)
}
