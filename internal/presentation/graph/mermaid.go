package graph

import (
	"fmt"
	"strings"

	"github.com/storyflow/storyflow/pkg/domain"
)

// GenerateMermaid produces a Mermaid flowchart syntax string from a graph
// snapshot. It applies semantic styling:
// - Start: ((Circle))
// - Intent: [/Parallelogram/]
// - Action: [[Subroutine]]
// - End: [Rectangle]
func GenerateMermaid(g domain.Graph) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, node := range g.Nodes {
		// Sanitize ID for Mermaid
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		switch node.Kind {
		case domain.KindStart:
			opener, closer = "((", "))"
		case domain.KindIntent:
			opener, closer = "[/", "/]"
		case domain.KindAction:
			opener, closer = "[[", "]]"
		}

		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, nodeLabel(node), closer))
	}

	for _, e := range g.Edges {
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", sanitizeMermaidID(e.Source), sanitizeMermaidID(e.Target)))
	}

	return sb.String()
}

// nodeLabel picks the most descriptive text available for a node.
func nodeLabel(n domain.Node) string {
	switch n.Kind {
	case domain.KindStart:
		if n.Start != nil && n.Start.StoryName != "" {
			return "▶ " + n.Start.StoryName
		}
		return "▶ start"
	case domain.KindIntent:
		if n.Intent != nil && n.Intent.IntentID != "" {
			return n.Intent.IntentID
		}
		return "intent"
	case domain.KindAction:
		if n.Action != nil && n.Action.Name != "" {
			return n.Action.Name
		}
		return "action"
	case domain.KindEnd:
		return "end"
	}
	return n.ID
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
