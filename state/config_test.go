package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGraphPairs(t *testing.T) {
	pairs, err := ParseGraph([]string{"a, b", "b, c"}, []NodeId{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, []Pair[NodeId, NodeId]{
		{V1: "a", V2: "b"},
		{V1: "b", V2: "c"},
	}, pairs)
}

func TestParseGraphGroups(t *testing.T) {
	graph := []string{
		"backbone = a, b",
		"backbone, c",
	}
	pairs, err := ParseGraph(graph, []NodeId{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, []Pair[NodeId, NodeId]{
		{V1: "a", V2: "c"},
		{V1: "b", V2: "c"},
	}, pairs)
}

func TestParseGraphFullMesh(t *testing.T) {
	graph := []string{
		"core = a, b, c",
		"core, core",
	}
	pairs, err := ParseGraph(graph, []NodeId{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, []Pair[NodeId, NodeId]{
		{V1: "a", V2: "b"},
		{V1: "a", V2: "c"},
		{V1: "b", V2: "c"},
	}, pairs)
}

func TestParseGraphRejectsUnknownSymbol(t *testing.T) {
	_, err := ParseGraph([]string{"a, x"}, []NodeId{"a", "b"})
	assert.Error(t, err)
}

func TestParseGraphRejectsDuplicateGroup(t *testing.T) {
	graph := []string{
		"g = a",
		"g = b",
	}
	_, err := ParseGraph(graph, []NodeId{"a", "b"})
	assert.Error(t, err)
}

func TestParseGraphRejectsGroupNamedLikeRouter(t *testing.T) {
	_, err := ParseGraph([]string{"a = b"}, []NodeId{"a", "b"})
	assert.Error(t, err)
}

func TestLoadSimCfgDefaults(t *testing.T) {
	doc := []byte(`
name: lab
routers: [a, b, c, d]
graph:
  - a, b
  - b, c
  - c, d
`)
	cfg, err := LoadSimCfg(doc)
	require.NoError(t, err)
	assert.Equal(t, "lab", cfg.Name)
	assert.Equal(t, DefaultRouteTimeout, cfg.RouteTimeout)
	assert.Equal(t, DefaultGarbageTimeout, cfg.GarbageTimeout)
	assert.Equal(t, DefaultUpdateInterval, cfg.UpdateInterval)
}

func TestLoadSimCfgAlternateTimeout(t *testing.T) {
	doc := []byte(`
routers: [a, b]
graph: [ "a, b" ]
route_timeout: 80
seed: 7
`)
	cfg, err := LoadSimCfg(doc)
	require.NoError(t, err)
	assert.Equal(t, 80, cfg.RouteTimeout)
	assert.Equal(t, DefaultGarbageTimeout, cfg.GarbageTimeout)
	assert.Equal(t, uint64(7), cfg.Seed)
}

func TestLoadSimCfgRejectsDuplicateRouter(t *testing.T) {
	doc := []byte(`
routers: [a, a]
`)
	_, err := LoadSimCfg(doc)
	assert.Error(t, err)
}

func TestLoadSimCfgRejectsBadGraph(t *testing.T) {
	doc := []byte(`
routers: [a, b]
graph: [ "a, z" ]
`)
	_, err := LoadSimCfg(doc)
	assert.Error(t, err)
}

func TestSimConfigValidatorRejectsTinyInterval(t *testing.T) {
	cfg := &SimCfg{
		Routers:        []NodeId{"a"},
		RouteTimeout:   180,
		GarbageTimeout: 120,
		UpdateInterval: UpdateJitter, // jitter could drive the interval to zero
	}
	assert.Error(t, SimConfigValidator(cfg))
}
