package editor

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/storyflow/storyflow/pkg/domain"
)

// Seed is the initial session state: a starter graph plus the definition
// and function catalogs. Sessions are transient, so every store begins from
// a seed rather than from persisted state.
type Seed struct {
	Nodes     []domain.Node              `yaml:"nodes"`
	Edges     []domain.Edge              `yaml:"edges"`
	Intents   []domain.IntentDefinition  `yaml:"intents"`
	Actions   []domain.ActionDefinition  `yaml:"actions"`
	Functions []domain.AvailableFunction `yaml:"functions"`
}

// DefaultSeed returns the built-in starter session: a linear greeting flow
// (start → greet intent → utter_message → end) and the stock catalogs.
func DefaultSeed() Seed {
	return Seed{
		Nodes: []domain.Node{
			{ID: "0", Kind: domain.KindStart, Position: domain.Position{X: 50, Y: 200},
				Start: &domain.StartPayload{StoryName: "Greeting"}},
			{ID: "1", Kind: domain.KindIntent, Position: domain.Position{X: 300, Y: 200},
				Intent: &domain.IntentPayload{IntentID: "intent_greet", Examples: []string{"hello", "hi", "hey"}}},
			{ID: "2", Kind: domain.KindAction, Position: domain.Position{X: 550, Y: 200},
				Action: &domain.ActionPayload{
					Title:     "Send Greeting",
					Name:      "utter_message",
					Value:     "Hello! How can I help you today?",
					ValueType: domain.ValueText,
				}},
			{ID: "3", Kind: domain.KindEnd, Position: domain.Position{X: 800, Y: 200}},
		},
		Edges: []domain.Edge{
			{ID: "e0-1", Source: "0", Target: "1"},
			{ID: "e1-2", Source: "1", Target: "2"},
			{ID: "e2-3", Source: "2", Target: "3"},
		},
		Intents: []domain.IntentDefinition{
			{ID: "intent_greet", Label: "Greeting", Examples: []string{"hello", "hi", "hey"}},
			{ID: "intent_order", Label: "Place Order", Examples: []string{"order", "buy", "purchase"}},
			{ID: "intent_support", Label: "Request Support", Examples: []string{"support", "help", "assist"}},
			{ID: "intent_goodbye", Label: "Goodbye", Examples: []string{"bye", "goodbye", "see you"}},
			{ID: "intent_faq_shipping", Label: "FAQ - Shipping", Examples: []string{"shipping", "delivery", "ship"}},
			{ID: "intent_faq_returns", Label: "FAQ - Returns", Examples: []string{"return", "exchange", "refund"}},
		},
		Actions: []domain.ActionDefinition{
			{Title: "Send Message", Name: "utter_message", Value: "Default message text...", ValueType: domain.ValueText},
			{Title: "API Call", Name: "api_call", Value: "https://api.example.com/data", ValueType: domain.ValueText},
			{Title: "Transfer to Agent", Name: "transfer_to_agent", Value: "support_queue", ValueType: domain.ValueText},
			{Title: "Update Context", Name: "update_context", Value: `{ "user_status": "verified" }`, ValueType: domain.ValueText},
			{Title: "Get User Data", Name: "get_user_data", Value: "getUserData", ValueType: domain.ValueFunction},
		},
		Functions: []domain.AvailableFunction{
			{Name: "getUserData", Description: "Fetches current user data"},
			{Name: "createSupportTicket", Description: "Creates a new support ticket"},
			{Name: "lookupOrder", Description: "Looks up an order by ID"},
			{Name: "sendConfirmationEmail", Description: "Sends a confirmation email"},
		},
	}
}

// LoadSeed reads a seed from a YAML file. Missing sections fall back to the
// built-in defaults for the catalogs, so a seed file can declare just a
// graph.
func LoadSeed(path string) (Seed, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed file: %w", err)
	}

	var seed Seed
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return Seed{}, fmt.Errorf("parse seed file %s: %w", path, err)
	}

	def := DefaultSeed()
	if seed.Intents == nil {
		seed.Intents = def.Intents
	}
	if seed.Actions == nil {
		seed.Actions = def.Actions
	}
	if seed.Functions == nil {
		seed.Functions = def.Functions
	}

	if err := seed.validate(); err != nil {
		return Seed{}, err
	}
	return seed, nil
}

// validate rejects seeds that would put the store into a state normal
// mutation can never reach (dangling edges, payload/kind mismatches).
func (s Seed) validate() error {
	ids := make(map[string]bool, len(s.Nodes))
	for _, n := range s.Nodes {
		if n.ID == "" {
			return fmt.Errorf("seed node missing id")
		}
		if !n.Kind.Valid() {
			return fmt.Errorf("seed node %q: %w: %q", n.ID, domain.ErrUnknownKind, n.Kind)
		}
		if ids[n.ID] {
			return fmt.Errorf("seed node id %q duplicated", n.ID)
		}
		ids[n.ID] = true
	}
	for _, e := range s.Edges {
		if !ids[e.Source] || !ids[e.Target] {
			return fmt.Errorf("seed edge %q: %w", e.ID, domain.ErrInvalidReference)
		}
	}
	return nil
}
