// Package export converts a graph snapshot and its traversal result into
// the training document consumed by the bot-training backend.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/storyflow/storyflow/internal/traverse"
	"github.com/storyflow/storyflow/pkg/domain"
	"github.com/storyflow/storyflow/pkg/ports"
)

// Wire-format action types.
const (
	TypeText   = "text"
	TypeAction = "action"
	TypeButton = "button"
)

// IntentEntry is one entry of the intents block. Entities is always an
// empty placeholder; entity extraction does not exist in this editor.
type IntentEntry struct {
	Name     string   `json:"name"`
	Examples []string `json:"examples"`
	Entities []string `json:"entities"`
}

// ActionEntry is one entry of the actions block. Value is omitted for
// action-type entries and holds either a raw string or a parsed button
// array otherwise.
type ActionEntry struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Value any    `json:"value,omitempty"`
}

// StoryStep mirrors one traversal step on the wire.
type StoryStep struct {
	Node string `json:"node"`
	Name string `json:"name"`
}

// StoryEntry is one exported story.
type StoryEntry struct {
	Name  string      `json:"name"`
	Steps []StoryStep `json:"steps"`
}

// Document is the full export payload.
type Document struct {
	Intents []IntentEntry `json:"intents"`
	Actions []ActionEntry `json:"actions"`
	Stories []StoryEntry  `json:"stories"`
}

// Build assembles the document from a snapshot and its traversal result.
// It is pure and idempotent: identical input produces identical output, and
// the graph is never touched.
//
// The intents and actions blocks are catalog-driven: every definition is
// exported whether or not a story references it.
func Build(g domain.Graph, res traverse.Result) Document {
	doc := Document{
		Intents: make([]IntentEntry, 0, len(g.Intents)),
		Actions: make([]ActionEntry, 0, len(g.Actions)),
		Stories: make([]StoryEntry, 0, len(res.Stories)),
	}

	for _, def := range g.Intents {
		examples := def.Examples
		if examples == nil {
			examples = []string{}
		}
		doc.Intents = append(doc.Intents, IntentEntry{
			Name:     def.ID,
			Examples: examples,
			Entities: []string{},
		})
	}

	for _, def := range g.Actions {
		doc.Actions = append(doc.Actions, classify(def))
	}

	for _, story := range res.Stories {
		entry := StoryEntry{
			Name:  story.Name,
			Steps: make([]StoryStep, 0, len(story.Steps)),
		}
		if entry.Name == "" {
			entry.Name = "Story_" + story.StartNodeID
		}
		for _, step := range story.Steps {
			entry.Steps = append(entry.Steps, StoryStep{Node: string(step.Kind), Name: step.Name})
		}
		doc.Stories = append(doc.Stories, entry)
	}

	return doc
}

// classify maps a catalog entry onto its wire type.
//
// The name prefix rules come from the training backend's conventions:
// "action_" names are always backend actions (even with a text valueType),
// and "utter_" names holding a well-formed button array become button
// responses.
func classify(def domain.ActionDefinition) ActionEntry {
	if def.ValueType == domain.ValueFunction || strings.HasPrefix(def.Name, "action_") {
		return ActionEntry{Type: TypeAction, Name: def.Name}
	}

	if strings.HasPrefix(def.Name, "utter_") {
		if buttons, ok := parseButtons(def.Value); ok {
			return ActionEntry{Type: TypeButton, Name: def.Name, Value: buttons}
		}
	}

	return ActionEntry{Type: TypeText, Name: def.Name, Value: def.Value}
}

// parseButtons reports whether value is a JSON array whose every element is
// an object carrying both "title" and "payload" keys. On success the parsed
// array itself becomes the wire value.
func parseButtons(value string) ([]map[string]any, bool) {
	var raw []map[string]any
	if err := json.Unmarshal([]byte(value), &raw); err != nil {
		return nil, false
	}
	if len(raw) == 0 {
		return nil, false
	}

	for _, el := range raw {
		if _, ok := el["title"]; !ok {
			return nil, false
		}
		if _, ok := el["payload"]; !ok {
			return nil, false
		}
	}
	return raw, true
}

// JSON renders the document as deterministic, indented bytes. Field order
// is fixed by the struct definitions, so unchanged input yields
// byte-identical output.
func (d Document) JSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("encode export document: %w", err)
	}
	return buf.Bytes(), nil
}

// Export serializes the document and hands the bytes to the sink. A sink
// failure is returned as-is for the caller to surface; the graph and
// catalogs are unaffected, so the user can simply retry.
func Export(ctx context.Context, doc Document, sink ports.ExportSink) error {
	raw, err := doc.JSON()
	if err != nil {
		return err
	}
	if err := sink.Deliver(ctx, raw); err != nil {
		return fmt.Errorf("deliver export: %w", err)
	}
	return nil
}
