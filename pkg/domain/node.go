package domain

// NodeKind discriminates the payload a node carries.
type NodeKind string

const (
	// KindStart marks the entry point of a story. A graph may hold any
	// number of start nodes; each one yields its own story on export.
	KindStart NodeKind = "start"
	// KindIntent matches user input against a catalogued intent.
	KindIntent NodeKind = "intent"
	// KindAction performs a bot response (utterance, API call, function).
	KindAction NodeKind = "action"
	// KindEnd terminates a story. End nodes carry no payload and emit no step.
	KindEnd NodeKind = "end"
)

// Valid reports whether k is one of the four node kinds.
func (k NodeKind) Valid() bool {
	switch k {
	case KindStart, KindIntent, KindAction, KindEnd:
		return true
	}
	return false
}

// Position is the node's location on the editor canvas.
// Presentational only; the traverser never reads it.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// StartPayload configures a start node.
type StartPayload struct {
	// StoryName is the display name of the exported story.
	// When empty, export falls back to "Story_<nodeID>".
	StoryName string `json:"storyName,omitempty" yaml:"story_name,omitempty"`
	StoryID   string `json:"storyId,omitempty" yaml:"story_id,omitempty"`
}

// IntentPayload binds a node to an intent definition by id.
// Examples is the node's own copy of the definition's training phrases;
// selecting a different definition overwrites it, editing it in place
// writes back into the catalog.
type IntentPayload struct {
	IntentID string   `json:"intentId" yaml:"intent_id"`
	Examples []string `json:"examples,omitempty" yaml:"examples,omitempty"`
}

// ActionPayload is a full denormalized copy of an ActionDefinition.
// It is not a foreign key: once copied onto a node it may drift from the
// catalog entry it originated from.
type ActionPayload struct {
	Title     string    `json:"title" yaml:"title"`
	Name      string    `json:"name" yaml:"name"`
	Value     string    `json:"value" yaml:"value"`
	ValueType ValueType `json:"valueType" yaml:"value_type"`
}

// Node is a typed vertex of the flow graph. Exactly one payload pointer is
// set, matching Kind; end nodes carry none.
type Node struct {
	ID       string   `json:"id" yaml:"id"`
	Kind     NodeKind `json:"kind" yaml:"kind"`
	Position Position `json:"position" yaml:"position"`

	Start  *StartPayload  `json:"start,omitempty" yaml:"start,omitempty"`
	Intent *IntentPayload `json:"intent,omitempty" yaml:"intent,omitempty"`
	Action *ActionPayload `json:"action,omitempty" yaml:"action,omitempty"`
}

// Clone returns a deep copy of the node.
func (n Node) Clone() Node {
	c := n
	if n.Start != nil {
		s := *n.Start
		c.Start = &s
	}
	if n.Intent != nil {
		i := *n.Intent
		i.Examples = append([]string(nil), n.Intent.Examples...)
		c.Intent = &i
	}
	if n.Action != nil {
		a := *n.Action
		c.Action = &a
	}
	return c
}

// Edge is a directed connection between two node ids.
type Edge struct {
	ID     string `json:"id" yaml:"id"`
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
}

// Graph is an immutable snapshot of the editor state: the node and edge
// lists plus both definition catalogs. Slices preserve insertion order,
// which fixes story order and the branch tie-break across one export.
type Graph struct {
	Nodes   []Node             `json:"nodes" yaml:"nodes"`
	Edges   []Edge             `json:"edges" yaml:"edges"`
	Intents []IntentDefinition `json:"intents" yaml:"intents"`
	Actions []ActionDefinition `json:"actions" yaml:"actions"`
}

// NodeByID returns the node with the given id, or false when absent.
func (g Graph) NodeByID(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// OutgoingEdges returns every edge whose source is the given node id,
// in insertion order.
func (g Graph) OutgoingEdges(id string) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.Source == id {
			out = append(out, e)
		}
	}
	return out
}

// StartNodes returns the start nodes in insertion order.
func (g Graph) StartNodes() []Node {
	var out []Node
	for _, n := range g.Nodes {
		if n.Kind == KindStart {
			out = append(out, n)
		}
	}
	return out
}
