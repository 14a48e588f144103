package state

// Infinity is the RIP unreachable metric (RFC 1058, section 2.2).
const Infinity = 16

var (
	DefaultUpdateInterval = 30
	// UpdateJitter desynchronizes periodic updates between routers.
	UpdateJitter          = 5
	DefaultRouteTimeout   = 180
	DefaultGarbageTimeout = 120
)

// debug toggles, set from cmd flags
var (
	DBG_log_router      = false
	DBG_log_route_table = false
)
