package state

import (
	"fmt"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
)

// SimCfg describes a simulated network scenario.
type SimCfg struct {
	Name    string   `yaml:"name,omitempty"`
	Routers []NodeId `yaml:"routers"`
	// Graph describes the initial adjacencies, see ParseGraph for the syntax.
	Graph []string `yaml:"graph,omitempty"`

	// timer configuration, in ticks
	RouteTimeout   int `yaml:"route_timeout,omitempty"`
	GarbageTimeout int `yaml:"garbage_timeout,omitempty"`
	UpdateInterval int `yaml:"update_interval,omitempty"`

	Seed    uint64 `yaml:"seed,omitempty"` // 0 seeds from entropy
	LogPath string `yaml:"log_path,omitempty"`
}

func LoadSimCfg(data []byte) (*SimCfg, error) {
	var cfg SimCfg
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := SimConfigValidator(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *SimCfg) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "ripsim"
	}
	if c.RouteTimeout == 0 {
		c.RouteTimeout = DefaultRouteTimeout
	}
	if c.GarbageTimeout == 0 {
		c.GarbageTimeout = DefaultGarbageTimeout
	}
	if c.UpdateInterval == 0 {
		c.UpdateInterval = DefaultUpdateInterval
	}
}

func SimConfigValidator(c *SimCfg) error {
	seen := make(map[NodeId]bool)
	for _, r := range c.Routers {
		if r == "" {
			return fmt.Errorf("router name must not be empty")
		}
		if seen[r] {
			return fmt.Errorf("duplicate router name: %s", r)
		}
		seen[r] = true
	}
	if c.RouteTimeout <= 0 || c.GarbageTimeout <= 0 || c.UpdateInterval <= 0 {
		return fmt.Errorf("timers must be positive: route_timeout=%d garbage_timeout=%d update_interval=%d",
			c.RouteTimeout, c.GarbageTimeout, c.UpdateInterval)
	}
	if c.UpdateInterval <= UpdateJitter {
		return fmt.Errorf("update_interval must be larger than the +/-%d jitter", UpdateJitter)
	}
	_, err := ParseGraph(c.Graph, c.Routers)
	return err
}

func parseSymbolList(s string, valid []string) ([]string, error) {
	spl := strings.Split(strings.TrimSpace(s), ",")
	line := make([]string, 0)
	for _, sym := range spl {
		x := strings.TrimSpace(sym)
		if x == "" {
			continue
		}
		if !slices.Contains(valid, x) {
			return nil, fmt.Errorf(`%s is not a valid router/group`, x)
		}
		line = append(line, x)
	}
	if len(line) == 0 {
		return nil, fmt.Errorf(`router/group list must not be empty`)
	}
	return line, nil
}

/*
ParseGraph parses the adjacency description of a scenario into a set of
unordered router pairs. The syntax is line based:

	backbone = a, b, c

defines a group named backbone (groups may only list routers), and

	backbone, d

interconnects every listed term with every other, expanding groups. A term
paired with itself yields no edge.
*/
func ParseGraph(graph []string, routers []NodeId) ([]Pair[NodeId, NodeId], error) {
	nodes := make([]string, 0, len(routers))
	for _, r := range routers {
		nodes = append(nodes, string(r))
	}

	groups := make(map[string][]string)
	symbols := slices.Clone(nodes)

	// pass 0, collect group names
	for _, line := range graph {
		line = strings.TrimSpace(line)
		if strings.Contains(line, "=") {
			spl := strings.Split(line, "=")
			if len(spl) != 2 {
				return nil, fmt.Errorf("invalid graph: %s. group definition must contain one '='", line)
			}
			grp := strings.TrimSpace(spl[0])
			if slices.Contains(nodes, grp) {
				return nil, fmt.Errorf("group name must not be a router name: %s", grp)
			}
			symbols = append(symbols, grp)
		}
	}
	slices.Sort(symbols)
	symbols = slices.Compact(symbols)

	// pass 1, collect group members; groups may be referenced before they
	// are defined
	for _, line := range graph {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, "=") {
			continue
		}
		spl := strings.Split(line, "=")
		grp := strings.TrimSpace(spl[0])
		if _, ok := groups[grp]; ok {
			return nil, fmt.Errorf("duplicate group name: %s", grp)
		}
		members, err := parseSymbolList(spl[1], nodes)
		if err != nil {
			return nil, fmt.Errorf("group %s: %w", grp, err)
		}
		groups[grp] = members
	}

	expand := func(term string) []string {
		if exp, ok := groups[term]; ok {
			return exp
		}
		return []string{term}
	}

	// pass 2, expand pairing lines
	pairings := make([]Pair[NodeId, NodeId], 0)
	for _, line := range graph {
		line = strings.TrimSpace(line)
		if strings.Contains(line, "=") {
			continue
		}
		terms, err := parseSymbolList(line, symbols)
		if err != nil {
			return nil, err
		}
		if len(terms) < 2 {
			return nil, fmt.Errorf("invalid pairing, %v", terms)
		}
		interconnect := make([]string, 0)
		for _, term := range terms {
			for _, x := range expand(term) {
				for _, y := range interconnect {
					if x != y {
						pairings = append(pairings, MakeSortedPair(NodeId(x), NodeId(y)))
					}
				}
			}
			interconnect = append(interconnect, expand(term)...)
		}
	}
	SortPairs(pairings)
	return slices.Compact(pairings), nil
}
