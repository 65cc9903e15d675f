// Package dataflow holds the RAW dependency edge list in a form external
// tools can render; this package itself only produces a plain-text edge
// dump, mirroring the reference tool's DFG.output — actual graph image
// rendering (graphviz/dot) is an external collaborator's job.
package dataflow

import (
	"fmt"
	"strings"

	"github.com/oisee/tascompile/pkg/ir"
)

// Graph is a typed view over an optimized listing's dependency edges.
type Graph struct {
	Listing ir.Listing
	Edges   []ir.Edge
}

// New builds a Graph from an optimized listing and its edges.
func New(listing ir.Listing, edges []ir.Edge) Graph {
	return Graph{Listing: listing, Edges: edges}
}

// Text renders the graph as a plain-text edge list: one "idx: text" line
// per node followed by one "from->to" line per edge, matching the
// reference tool's DFG.output content (minus the graphviz image it also
// produced, which is out of scope here).
func (g Graph) Text() string {
	var b strings.Builder
	for i, in := range g.Listing {
		fmt.Fprintf(&b, "%d: %s\n", i, in.Text())
	}
	for _, e := range g.Edges {
		fmt.Fprintf(&b, "%d->%d\n", e.From, e.To)
	}
	return b.String()
}
