package core

import (
	"fmt"
	"strings"
)

// ExportDot renders the router set and adjacency set as an undirected
// Graphviz graph. It only consumes the introspection surface, table contents
// are not included.
func ExportDot(n *Network) string {
	var sb strings.Builder
	sb.WriteString("graph network {\n")
	for _, id := range n.Routers() {
		sb.WriteString(fmt.Sprintf("  %q;\n", string(id)))
	}
	for _, link := range n.Links() {
		sb.WriteString(fmt.Sprintf("  %q -- %q;\n", string(link.V1), string(link.V2)))
	}
	sb.WriteString("}\n")
	return sb.String()
}
