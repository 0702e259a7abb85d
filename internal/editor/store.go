package editor

import (
	"fmt"
	"sync"

	"github.com/mitchellh/mapstructure"

	"github.com/storyflow/storyflow/pkg/domain"
)

// fallbackIntent is bound to new intent nodes when the catalog is empty.
var fallbackIntent = domain.IntentDefinition{
	ID:    "intent_default",
	Label: "Default Intent",
}

// fallbackAction is copied onto new action nodes when the catalog is empty.
var fallbackAction = domain.ActionDefinition{
	Title:     "New Action",
	Name:      "new_action",
	Value:     "Configure me...",
	ValueType: domain.ValueText,
}

// Store owns the editing session: the node list, edge list, and both
// definition catalogs. All state is transient; a fresh store is rebuilt
// from a seed each session.
//
// Safe for concurrent use. The editor has one logical writer, but the HTTP
// adapter may read snapshots while a mutation is in flight.
type Store struct {
	mu        sync.RWMutex
	nodes     []domain.Node
	edges     []domain.Edge
	intents   []domain.IntentDefinition
	actions   []domain.ActionDefinition
	functions []domain.AvailableFunction
}

// NewStore creates an empty store. Use NewStoreFromSeed to start from a
// pre-built graph.
func NewStore() *Store {
	return &Store{}
}

// NewStoreFromSeed creates a store pre-populated with the seed's graph and
// catalogs.
func NewStoreFromSeed(seed Seed) *Store {
	s := &Store{
		functions: append([]domain.AvailableFunction(nil), seed.Functions...),
	}
	for _, d := range seed.Intents {
		s.intents = append(s.intents, d.Clone())
	}
	s.actions = append(s.actions, seed.Actions...)
	for _, n := range seed.Nodes {
		c := n.Clone()
		// Seed files may omit payloads; normalize so the rest of the store
		// can rely on Kind implying a non-nil payload.
		switch {
		case c.Kind == domain.KindStart && c.Start == nil:
			c.Start = &domain.StartPayload{}
		case c.Kind == domain.KindIntent && c.Intent == nil:
			c.Intent = &domain.IntentPayload{}
		case c.Kind == domain.KindAction && c.Action == nil:
			p := fallbackAction.Payload()
			c.Action = &p
		}
		s.nodes = append(s.nodes, c)
	}
	s.edges = append(s.edges, seed.Edges...)
	return s
}

// AddNode appends a node of the given kind with its kind-specific default
// payload and returns the stored copy.
//
// New intent nodes bind to the catalog's first entry (or a built-in default
// when the catalog is empty) and copy its examples. New action nodes copy
// the first defined action. Start and end nodes begin empty. There is no
// uniqueness constraint on start nodes.
func (s *Store) AddNode(kind domain.NodeKind, pos domain.Position) (domain.Node, error) {
	if !kind.Valid() {
		return domain.Node{}, fmt.Errorf("%w: %q", domain.ErrUnknownKind, kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	n := domain.Node{
		ID:       newID("node"),
		Kind:     kind,
		Position: pos,
	}

	switch kind {
	case domain.KindStart:
		n.Start = &domain.StartPayload{}
	case domain.KindIntent:
		def := fallbackIntent
		if len(s.intents) > 0 {
			def = s.intents[0]
		}
		n.Intent = &domain.IntentPayload{
			IntentID: def.ID,
			Examples: append([]string(nil), def.Examples...),
		}
	case domain.KindAction:
		def := fallbackAction
		if len(s.actions) > 0 {
			def = s.actions[0]
		}
		p := def.Payload()
		n.Action = &p
	}

	s.nodes = append(s.nodes, n)
	return n.Clone(), nil
}

// Connect creates a directed edge between two existing nodes. Self-loops and
// parallel edges are allowed; the traverser copes with both.
func (s *Store) Connect(sourceID, targetID string) (domain.Edge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOfNode(sourceID) < 0 {
		return domain.Edge{}, fmt.Errorf("%w: source %q", domain.ErrInvalidReference, sourceID)
	}
	if s.indexOfNode(targetID) < 0 {
		return domain.Edge{}, fmt.Errorf("%w: target %q", domain.ErrInvalidReference, targetID)
	}

	e := domain.Edge{ID: newID("edge"), Source: sourceID, Target: targetID}
	s.edges = append(s.edges, e)
	return e, nil
}

// RemoveNode deletes the node and every edge touching it. The cascade keeps
// the traverser from ever meeting a dangling reference.
func (s *Store) RemoveNode(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfNode(id)
	if idx < 0 {
		return fmt.Errorf("%w: %q", domain.ErrNodeNotFound, id)
	}
	s.nodes = append(s.nodes[:idx], s.nodes[idx+1:]...)

	kept := s.edges[:0]
	for _, e := range s.edges {
		if e.Source != id && e.Target != id {
			kept = append(kept, e)
		}
	}
	s.edges = kept
	return nil
}

// RemoveEdge deletes a single edge by id.
func (s *Store) RemoveEdge(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.edges {
		if e.ID == id {
			s.edges = append(s.edges[:i], s.edges[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", domain.ErrEdgeNotFound, id)
}

// SelectIntent is the change-mode operation: the node adopts the given
// intent id and a copy of the catalog entry's examples. The catalog itself
// is never mutated here; that asymmetry with SaveIntentEdits is deliberate.
//
// An id absent from the catalog is accepted (the sidebar allows free-text
// entry) and leaves the node's examples empty.
func (s *Store) SelectIntent(nodeID, intentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.nodeOfKind(nodeID, domain.KindIntent)
	if err != nil {
		return err
	}

	n.Intent.IntentID = intentID
	n.Intent.Examples = nil
	if i := s.indexOfIntent(intentID); i >= 0 {
		n.Intent.Examples = append([]string(nil), s.intents[i].Examples...)
	}
	return nil
}

// SaveIntentEdits is the edit-mode save: the examples are written onto the
// node and back into the catalog entry matching the node's current intent
// id. An uncatalogued id updates only the node.
func (s *Store) SaveIntentEdits(nodeID string, examples []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.nodeOfKind(nodeID, domain.KindIntent)
	if err != nil {
		return err
	}

	n.Intent.Examples = append([]string(nil), examples...)
	if i := s.indexOfIntent(n.Intent.IntentID); i >= 0 {
		s.intents[i].Examples = append([]string(nil), examples...)
	}
	return nil
}

// SelectAction is the change-mode operation for action nodes: the catalog
// entry's full payload is copied onto the node, catalog untouched.
func (s *Store) SelectAction(nodeID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.nodeOfKind(nodeID, domain.KindAction)
	if err != nil {
		return err
	}

	i := s.indexOfAction(name)
	if i < 0 {
		return fmt.Errorf("%w: action definition %q", domain.ErrInvalidReference, name)
	}
	p := s.actions[i].Payload()
	n.Action = &p
	return nil
}

// SaveActionEdits is the edit-mode save for action nodes: the payload is
// written onto the node and upserted into the catalog, matched by Name.
// Inserting when no entry matches is intentional tolerance for users
// renaming an action's identifier mid-edit.
func (s *Store) SaveActionEdits(nodeID string, payload domain.ActionPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.nodeOfKind(nodeID, domain.KindAction)
	if err != nil {
		return err
	}
	if payload.Name == "" {
		return fmt.Errorf("action name is required")
	}
	if payload.ValueType == "" {
		payload.ValueType = domain.ValueText
	}

	p := payload
	n.Action = &p
	s.upsertActionLocked(domain.ActionDefinition{
		Title:     payload.Title,
		Name:      payload.Name,
		Value:     payload.Value,
		ValueType: payload.ValueType,
	})
	return nil
}

// SetStoryName updates the display name on a start node.
func (s *Store) SetStoryName(nodeID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.nodeOfKind(nodeID, domain.KindStart)
	if err != nil {
		return err
	}
	n.Start.StoryName = name
	return nil
}

// UpdateNodePayload merges a partial payload (decoded JSON object) into the
// node's kind-specific payload. Used by the HTTP adapter, where the caller
// ships only the fields it changed. Catalogs are never touched here; the
// write-back paths are SaveIntentEdits and SaveActionEdits.
func (s *Store) UpdateNodePayload(nodeID string, partial map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfNode(nodeID)
	if idx < 0 {
		return fmt.Errorf("%w: %q", domain.ErrNodeNotFound, nodeID)
	}
	n := &s.nodes[idx]

	var target any
	switch n.Kind {
	case domain.KindStart:
		target = n.Start
	case domain.KindIntent:
		target = n.Intent
	case domain.KindAction:
		target = n.Action
	default:
		return fmt.Errorf("%w: %s nodes carry no payload", domain.ErrUnknownKind, n.Kind)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  target,
	})
	if err != nil {
		return fmt.Errorf("build payload decoder: %w", err)
	}
	if err := dec.Decode(partial); err != nil {
		return fmt.Errorf("merge payload: %w", err)
	}
	return nil
}

// DefineIntent inserts a new catalog entry. A colliding id is rejected and
// the catalog is left unchanged.
func (s *Store) DefineIntent(def domain.IntentDefinition) error {
	if def.ID == "" {
		return fmt.Errorf("intent id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOfIntent(def.ID) >= 0 {
		return fmt.Errorf("%w: intent %q", domain.ErrDuplicateDefinition, def.ID)
	}
	s.intents = append(s.intents, def.Clone())
	return nil
}

// DefineAction inserts a new catalog entry. A colliding name is rejected and
// the catalog is left unchanged.
func (s *Store) DefineAction(def domain.ActionDefinition) error {
	if def.Name == "" {
		return fmt.Errorf("action name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOfAction(def.Name) >= 0 {
		return fmt.Errorf("%w: action %q", domain.ErrDuplicateDefinition, def.Name)
	}
	if def.ValueType == "" {
		def.ValueType = domain.ValueText
	}
	if def.Title == "" {
		def.Title = def.Name
	}
	s.actions = append(s.actions, def)
	return nil
}

// UpsertActionDefinition updates the catalog entry matching def.Name, or
// inserts a new one when none matches. Unlike DefineAction it never fails on
// a collision; it exists as a named operation so the insert-new and
// update-existing paths stay distinguishable.
func (s *Store) UpsertActionDefinition(def domain.ActionDefinition) error {
	if def.Name == "" {
		return fmt.Errorf("action name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.upsertActionLocked(def)
	return nil
}

// Snapshot returns a deep copy of the current graph and catalogs. The
// traverser and exporter operate on snapshots only, so an export is a pure
// function of its input even while the store keeps mutating.
func (s *Store) Snapshot() domain.Graph {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g := domain.Graph{
		Edges: append([]domain.Edge(nil), s.edges...),
	}
	for _, n := range s.nodes {
		g.Nodes = append(g.Nodes, n.Clone())
	}
	for _, d := range s.intents {
		g.Intents = append(g.Intents, d.Clone())
	}
	g.Actions = append(g.Actions, s.actions...)
	return g
}

// Functions returns the read-only function catalog.
func (s *Store) Functions() []domain.AvailableFunction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.AvailableFunction(nil), s.functions...)
}

// --- internal helpers (callers hold s.mu) ---

func (s *Store) indexOfNode(id string) int {
	for i, n := range s.nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) indexOfIntent(id string) int {
	for i, d := range s.intents {
		if d.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) indexOfAction(name string) int {
	for i, d := range s.actions {
		if d.Name == name {
			return i
		}
	}
	return -1
}

// nodeOfKind returns a mutable pointer to the node, checking its kind.
func (s *Store) nodeOfKind(id string, kind domain.NodeKind) (*domain.Node, error) {
	idx := s.indexOfNode(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", domain.ErrNodeNotFound, id)
	}
	n := &s.nodes[idx]
	if n.Kind != kind {
		return nil, fmt.Errorf("node %q is %s, expected %s", id, n.Kind, kind)
	}
	return n, nil
}

func (s *Store) upsertActionLocked(def domain.ActionDefinition) {
	if def.ValueType == "" {
		def.ValueType = domain.ValueText
	}
	if def.Title == "" {
		def.Title = def.Name
	}
	if i := s.indexOfAction(def.Name); i >= 0 {
		s.actions[i] = def
		return
	}
	s.actions = append(s.actions, def)
}
