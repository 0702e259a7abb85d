// Package traverse linearizes a flow graph into stories, one per start
// node, surfacing structural problems as warnings instead of failures.
package traverse

import (
	"fmt"

	"github.com/storyflow/storyflow/pkg/domain"
)

// StepKind classifies a story step.
type StepKind string

const (
	StepIntent StepKind = "intent"
	StepAction StepKind = "action"
)

// Step is one entry of a linearized story.
type Step struct {
	Kind StepKind
	Name string
}

// Story is the ordered step list reachable from one start node.
type Story struct {
	StartNodeID string
	Name        string
	Steps       []Step
}

// WarningCode identifies a class of topology problem.
type WarningCode string

const (
	WarnNoStart       WarningCode = "no_start"
	WarnCycle         WarningCode = "cycle"
	WarnNoEnd         WarningCode = "no_end"
	WarnBranchIgnored WarningCode = "branch_ignored"
)

// Warning is a non-fatal topology finding. Export proceeds regardless.
type Warning struct {
	Code    WarningCode
	NodeID  string
	Message string
}

func (w Warning) String() string { return w.Message }

// Result is the best-effort output of a traversal.
type Result struct {
	Stories  []Story
	Warnings []Warning
}

// Traverse walks the graph from every start node and returns the resulting
// stories in start-node insertion order.
//
// Branching is not supported: when a node has several outgoing edges the
// earliest-created one is followed and the rest are ignored (with a
// warning). This is a product constraint of the editor, not an oversight.
//
// Malformed topology never fails the traversal. The only error returned is
// an edge pointing at a node id absent from the graph, which the store's
// cascading delete makes unreachable; hitting it indicates a bug upstream.
func Traverse(g domain.Graph) (Result, error) {
	var res Result

	starts := g.StartNodes()
	if len(starts) == 0 {
		res.Warnings = append(res.Warnings, Warning{
			Code:    WarnNoStart,
			Message: "graph has no start node; exporting an empty story list",
		})
		return res, nil
	}

	for _, start := range starts {
		story, warns, err := walk(g, start)
		if err != nil {
			return Result{}, err
		}
		res.Stories = append(res.Stories, story)
		res.Warnings = append(res.Warnings, warns...)
	}
	return res, nil
}

// walk follows the single-edge chain from one start node.
func walk(g domain.Graph, start domain.Node) (Story, []Warning, error) {
	story := Story{StartNodeID: start.ID}
	if start.Start != nil {
		story.Name = start.Start.StoryName
	}

	var warns []Warning
	visited := map[string]bool{start.ID: true}
	current := start
	reachedEnd := false

	for {
		out := g.OutgoingEdges(current.ID)
		if len(out) == 0 {
			// Terminal without an end node: a partial story is a valid
			// result, but flag the missing end for the author.
			if !reachedEnd {
				warns = append(warns, Warning{
					Code:    WarnNoEnd,
					NodeID:  current.ID,
					Message: fmt.Sprintf("story %q stops at node %s without reaching an end node", storyLabel(story), current.ID),
				})
			}
			break
		}
		if len(out) > 1 {
			warns = append(warns, Warning{
				Code:    WarnBranchIgnored,
				NodeID:  current.ID,
				Message: fmt.Sprintf("node %s has %d outgoing edges; stories are linear, following the first", current.ID, len(out)),
			})
		}

		next, ok := g.NodeByID(out[0].Target)
		if !ok {
			return Story{}, nil, fmt.Errorf("%w: edge %s -> %s", domain.ErrDanglingEdge, out[0].Source, out[0].Target)
		}

		if visited[next.ID] {
			warns = append(warns, Warning{
				Code:    WarnCycle,
				NodeID:  next.ID,
				Message: fmt.Sprintf("cycle detected at node %s; story %q truncated", next.ID, storyLabel(story)),
			})
			break
		}

		if next.Kind == domain.KindEnd {
			reachedEnd = true
			break
		}

		switch next.Kind {
		case domain.KindIntent:
			story.Steps = append(story.Steps, Step{Kind: StepIntent, Name: next.Intent.IntentID})
		case domain.KindAction:
			story.Steps = append(story.Steps, Step{Kind: StepAction, Name: next.Action.Name})
		default:
			// A stray start node mid-chain contributes no step but the walk
			// continues through it.
		}

		visited[next.ID] = true
		current = next
	}

	return story, warns, nil
}

func storyLabel(s Story) string {
	if s.Name != "" {
		return s.Name
	}
	return "Story_" + s.StartNodeID
}
