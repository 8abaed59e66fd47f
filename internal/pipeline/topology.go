package pipeline

import (
	"io"

	"github.com/desertthunder/heydj/internal/models"
	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"
)

// Topology builds the pipeline's node and edge table as a directed acyclic graph.
//
// Vertices are node names. The classify edges carry the route label that selects them.
func Topology() (graph.Graph[string, string], error) {
	g := graph.New(graph.StringHash, graph.Directed(), graph.Acyclic(), graph.PreventCycles())

	for n := Classify; n <= End; n++ {
		if err := g.AddVertex(n.String()); err != nil {
			return nil, err
		}
	}

	for _, label := range models.RouteLabels {
		err := g.AddEdge(Classify.String(), branches[label].String(), graph.EdgeAttribute("label", string(label)))
		if err != nil {
			return nil, err
		}
	}

	for n := Classify; n < End; n++ {
		next, ok := transitions[n]
		if !ok {
			continue
		}
		if err := g.AddEdge(n.String(), next.String()); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// WriteDOT renders the topology in Graphviz DOT format.
func WriteDOT(w io.Writer) error {
	g, err := Topology()
	if err != nil {
		return err
	}
	return draw.DOT(g, w, draw.GraphAttribute("rankdir", "LR"))
}
