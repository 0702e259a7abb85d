package graph

import (
	"fmt"

	gographviz "github.com/awalterschulze/gographviz"

	"github.com/storyflow/storyflow/pkg/domain"
)

// kind → Graphviz shape. Mirrors the Mermaid styling.
var dotShapes = map[domain.NodeKind]string{
	domain.KindStart:  "circle",
	domain.KindIntent: "parallelogram",
	domain.KindAction: "box",
	domain.KindEnd:    "doublecircle",
}

// GenerateDOT renders the snapshot as a Graphviz digraph, for tooling that
// prefers DOT over Mermaid.
func GenerateDOT(g domain.Graph) (string, error) {
	out := gographviz.NewGraph()
	if err := out.SetName("storyflow"); err != nil {
		return "", fmt.Errorf("dot graph name: %w", err)
	}
	if err := out.SetDir(true); err != nil {
		return "", fmt.Errorf("dot graph direction: %w", err)
	}

	for _, node := range g.Nodes {
		attrs := map[string]string{
			"label": fmt.Sprintf("%q", nodeLabel(node)),
			"shape": dotShapes[node.Kind],
		}
		if err := out.AddNode("storyflow", fmt.Sprintf("%q", node.ID), attrs); err != nil {
			return "", fmt.Errorf("dot node %s: %w", node.ID, err)
		}
	}
	for _, e := range g.Edges {
		if err := out.AddEdge(fmt.Sprintf("%q", e.Source), fmt.Sprintf("%q", e.Target), true, nil); err != nil {
			return "", fmt.Errorf("dot edge %s -> %s: %w", e.Source, e.Target, err)
		}
	}

	return out.String(), nil
}
