package editor_test

import (
	"errors"
	"testing"

	"github.com/storyflow/storyflow/internal/editor"
	"github.com/storyflow/storyflow/pkg/domain"
)

func TestStore_AddNode(t *testing.T) {
	t.Run("Intent Defaults From Catalog", func(t *testing.T) {
		store := editor.NewStoreFromSeed(editor.DefaultSeed())

		node, err := store.AddNode(domain.KindIntent, domain.Position{X: 10, Y: 20})
		if err != nil {
			t.Fatalf("AddNode failed: %v", err)
		}
		if node.Intent == nil {
			t.Fatal("intent node missing payload")
		}
		if node.Intent.IntentID != "intent_greet" {
			t.Errorf("Expected default intent 'intent_greet', got %q", node.Intent.IntentID)
		}
		if len(node.Intent.Examples) != 3 {
			t.Errorf("Expected examples copied from catalog, got %v", node.Intent.Examples)
		}
	})

	t.Run("Intent Fallback On Empty Catalog", func(t *testing.T) {
		store := editor.NewStore()

		node, err := store.AddNode(domain.KindIntent, domain.Position{})
		if err != nil {
			t.Fatalf("AddNode failed: %v", err)
		}
		if node.Intent.IntentID != "intent_default" {
			t.Errorf("Expected fallback 'intent_default', got %q", node.Intent.IntentID)
		}
	})

	t.Run("Action Copies First Definition", func(t *testing.T) {
		store := editor.NewStoreFromSeed(editor.DefaultSeed())

		node, err := store.AddNode(domain.KindAction, domain.Position{})
		if err != nil {
			t.Fatalf("AddNode failed: %v", err)
		}
		if node.Action == nil || node.Action.Name != "utter_message" {
			t.Errorf("Expected first defined action copied, got %+v", node.Action)
		}
	})

	t.Run("Multiple Start Nodes Allowed", func(t *testing.T) {
		store := editor.NewStore()
		for i := 0; i < 3; i++ {
			if _, err := store.AddNode(domain.KindStart, domain.Position{}); err != nil {
				t.Fatalf("AddNode failed: %v", err)
			}
		}
		if got := len(store.Snapshot().StartNodes()); got != 3 {
			t.Errorf("Expected 3 start nodes, got %d", got)
		}
	})

	t.Run("Unknown Kind Rejected", func(t *testing.T) {
		store := editor.NewStore()
		if _, err := store.AddNode("decision", domain.Position{}); !errors.Is(err, domain.ErrUnknownKind) {
			t.Errorf("Expected ErrUnknownKind, got %v", err)
		}
	})

	t.Run("Unique IDs", func(t *testing.T) {
		store := editor.NewStore()
		seen := map[string]bool{}
		for i := 0; i < 100; i++ {
			node, err := store.AddNode(domain.KindEnd, domain.Position{})
			if err != nil {
				t.Fatalf("AddNode failed: %v", err)
			}
			if seen[node.ID] {
				t.Fatalf("Duplicate node id %q", node.ID)
			}
			seen[node.ID] = true
		}
	})
}

func TestStore_Connect(t *testing.T) {
	store := editor.NewStore()
	a, _ := store.AddNode(domain.KindStart, domain.Position{})
	b, _ := store.AddNode(domain.KindEnd, domain.Position{})

	t.Run("Valid Connection", func(t *testing.T) {
		edge, err := store.Connect(a.ID, b.ID)
		if err != nil {
			t.Fatalf("Connect failed: %v", err)
		}
		if edge.Source != a.ID || edge.Target != b.ID {
			t.Errorf("Edge endpoints wrong: %+v", edge)
		}
	})

	t.Run("Unknown Source", func(t *testing.T) {
		if _, err := store.Connect("ghost", b.ID); !errors.Is(err, domain.ErrInvalidReference) {
			t.Errorf("Expected ErrInvalidReference, got %v", err)
		}
	})

	t.Run("Unknown Target", func(t *testing.T) {
		if _, err := store.Connect(a.ID, "ghost"); !errors.Is(err, domain.ErrInvalidReference) {
			t.Errorf("Expected ErrInvalidReference, got %v", err)
		}
	})

	t.Run("Self Loop Permitted", func(t *testing.T) {
		if _, err := store.Connect(a.ID, a.ID); err != nil {
			t.Errorf("Self loop should be allowed at the store level: %v", err)
		}
	})
}

func TestStore_RemoveNode_Cascades(t *testing.T) {
	store := editor.NewStore()
	a, _ := store.AddNode(domain.KindStart, domain.Position{})
	b, _ := store.AddNode(domain.KindIntent, domain.Position{})
	c, _ := store.AddNode(domain.KindEnd, domain.Position{})
	store.Connect(a.ID, b.ID)
	store.Connect(b.ID, c.ID)

	if err := store.RemoveNode(b.ID); err != nil {
		t.Fatalf("RemoveNode failed: %v", err)
	}

	snap := store.Snapshot()
	if len(snap.Nodes) != 2 {
		t.Errorf("Expected 2 nodes after removal, got %d", len(snap.Nodes))
	}
	if len(snap.Edges) != 0 {
		t.Errorf("Expected all touching edges removed, got %d", len(snap.Edges))
	}
	for _, e := range snap.Edges {
		if _, ok := snap.NodeByID(e.Source); !ok {
			t.Errorf("Edge %s references removed node", e.ID)
		}
	}

	if err := store.RemoveNode("ghost"); !errors.Is(err, domain.ErrNodeNotFound) {
		t.Errorf("Expected ErrNodeNotFound, got %v", err)
	}
}

func TestStore_IntentCatalogRules(t *testing.T) {
	t.Run("Select Copies Without Mutating Catalog", func(t *testing.T) {
		store := editor.NewStoreFromSeed(editor.DefaultSeed())
		node, _ := store.AddNode(domain.KindIntent, domain.Position{})

		if err := store.SelectIntent(node.ID, "intent_order"); err != nil {
			t.Fatalf("SelectIntent failed: %v", err)
		}

		snap := store.Snapshot()
		got, _ := snap.NodeByID(node.ID)
		if got.Intent.IntentID != "intent_order" {
			t.Errorf("Node intent not switched: %q", got.Intent.IntentID)
		}
		if len(got.Intent.Examples) != 3 || got.Intent.Examples[0] != "order" {
			t.Errorf("Examples not copied from catalog: %v", got.Intent.Examples)
		}
		// Catalog entry must be untouched
		for _, def := range snap.Intents {
			if def.ID == "intent_order" && len(def.Examples) != 3 {
				t.Errorf("Catalog mutated by select: %v", def.Examples)
			}
		}
	})

	t.Run("Select Uncatalogued ID Accepted", func(t *testing.T) {
		store := editor.NewStoreFromSeed(editor.DefaultSeed())
		node, _ := store.AddNode(domain.KindIntent, domain.Position{})

		if err := store.SelectIntent(node.ID, "intent_custom"); err != nil {
			t.Fatalf("SelectIntent failed: %v", err)
		}
		got, _ := store.Snapshot().NodeByID(node.ID)
		if got.Intent.IntentID != "intent_custom" || len(got.Intent.Examples) != 0 {
			t.Errorf("Uncatalogued select wrong: %+v", got.Intent)
		}
	})

	t.Run("Edit Save Writes Back To Catalog", func(t *testing.T) {
		store := editor.NewStoreFromSeed(editor.DefaultSeed())
		node, _ := store.AddNode(domain.KindIntent, domain.Position{}) // binds intent_greet

		edited := []string{"howdy", "yo"}
		if err := store.SaveIntentEdits(node.ID, edited); err != nil {
			t.Fatalf("SaveIntentEdits failed: %v", err)
		}

		snap := store.Snapshot()
		got, _ := snap.NodeByID(node.ID)
		if len(got.Intent.Examples) != 2 {
			t.Errorf("Node examples not updated: %v", got.Intent.Examples)
		}
		found := false
		for _, def := range snap.Intents {
			if def.ID == "intent_greet" {
				found = true
				if len(def.Examples) != 2 || def.Examples[0] != "howdy" {
					t.Errorf("Catalog not updated by edit save: %v", def.Examples)
				}
			}
		}
		if !found {
			t.Fatal("intent_greet missing from catalog")
		}
	})

	t.Run("Wrong Kind Rejected", func(t *testing.T) {
		store := editor.NewStoreFromSeed(editor.DefaultSeed())
		node, _ := store.AddNode(domain.KindEnd, domain.Position{})
		if err := store.SelectIntent(node.ID, "intent_greet"); err == nil {
			t.Error("Expected error selecting intent on an end node")
		}
	})
}

func TestStore_ActionCatalogRules(t *testing.T) {
	t.Run("Select Copies Full Payload", func(t *testing.T) {
		store := editor.NewStoreFromSeed(editor.DefaultSeed())
		node, _ := store.AddNode(domain.KindAction, domain.Position{})

		if err := store.SelectAction(node.ID, "get_user_data"); err != nil {
			t.Fatalf("SelectAction failed: %v", err)
		}
		got, _ := store.Snapshot().NodeByID(node.ID)
		if got.Action.ValueType != domain.ValueFunction || got.Action.Value != "getUserData" {
			t.Errorf("Payload not copied: %+v", got.Action)
		}
	})

	t.Run("Select Unknown Definition Rejected", func(t *testing.T) {
		store := editor.NewStoreFromSeed(editor.DefaultSeed())
		node, _ := store.AddNode(domain.KindAction, domain.Position{})
		if err := store.SelectAction(node.ID, "nope"); !errors.Is(err, domain.ErrInvalidReference) {
			t.Errorf("Expected ErrInvalidReference, got %v", err)
		}
	})

	t.Run("Edit Save Updates Existing Entry", func(t *testing.T) {
		store := editor.NewStoreFromSeed(editor.DefaultSeed())
		node, _ := store.AddNode(domain.KindAction, domain.Position{}) // copies utter_message

		err := store.SaveActionEdits(node.ID, domain.ActionPayload{
			Title:     "Send Message",
			Name:      "utter_message",
			Value:     "Updated text",
			ValueType: domain.ValueText,
		})
		if err != nil {
			t.Fatalf("SaveActionEdits failed: %v", err)
		}

		snap := store.Snapshot()
		count := 0
		for _, def := range snap.Actions {
			if def.Name == "utter_message" {
				count++
				if def.Value != "Updated text" {
					t.Errorf("Catalog entry not updated: %q", def.Value)
				}
			}
		}
		if count != 1 {
			t.Errorf("Expected exactly one utter_message entry, got %d", count)
		}
	})

	t.Run("Edit Save Inserts When Renamed", func(t *testing.T) {
		store := editor.NewStoreFromSeed(editor.DefaultSeed())
		node, _ := store.AddNode(domain.KindAction, domain.Position{})
		before := len(store.Snapshot().Actions)

		err := store.SaveActionEdits(node.ID, domain.ActionPayload{
			Title:     "Renamed",
			Name:      "utter_renamed",
			Value:     "hi",
			ValueType: domain.ValueText,
		})
		if err != nil {
			t.Fatalf("SaveActionEdits failed: %v", err)
		}
		if got := len(store.Snapshot().Actions); got != before+1 {
			t.Errorf("Expected catalog insert on rename, %d -> %d", before, got)
		}
	})

	t.Run("Empty Name Rejected", func(t *testing.T) {
		store := editor.NewStoreFromSeed(editor.DefaultSeed())
		node, _ := store.AddNode(domain.KindAction, domain.Position{})
		if err := store.SaveActionEdits(node.ID, domain.ActionPayload{}); err == nil {
			t.Error("Expected error saving an action without a name")
		}
	})
}

func TestStore_Definitions(t *testing.T) {
	t.Run("Duplicate Intent Rejected Unchanged", func(t *testing.T) {
		store := editor.NewStoreFromSeed(editor.DefaultSeed())
		before := store.Snapshot().Intents

		err := store.DefineIntent(domain.IntentDefinition{ID: "intent_greet", Label: "Again"})
		if !errors.Is(err, domain.ErrDuplicateDefinition) {
			t.Fatalf("Expected ErrDuplicateDefinition, got %v", err)
		}

		after := store.Snapshot().Intents
		if len(after) != len(before) {
			t.Errorf("Catalog changed on rejected insert: %d -> %d", len(before), len(after))
		}
		for i := range after {
			if after[i].Label != before[i].Label {
				t.Errorf("Catalog entry %d mutated on rejected insert", i)
			}
		}
	})

	t.Run("Duplicate Action Rejected", func(t *testing.T) {
		store := editor.NewStoreFromSeed(editor.DefaultSeed())
		err := store.DefineAction(domain.ActionDefinition{Name: "api_call", Value: "x"})
		if !errors.Is(err, domain.ErrDuplicateDefinition) {
			t.Errorf("Expected ErrDuplicateDefinition, got %v", err)
		}
	})

	t.Run("Define New Intent", func(t *testing.T) {
		store := editor.NewStore()
		err := store.DefineIntent(domain.IntentDefinition{ID: "intent_pizza", Label: "Order Pizza", Examples: []string{"I want a pizza"}})
		if err != nil {
			t.Fatalf("DefineIntent failed: %v", err)
		}
		if len(store.Snapshot().Intents) != 1 {
			t.Error("Intent not inserted")
		}
	})

	t.Run("Missing Identifier Rejected", func(t *testing.T) {
		store := editor.NewStore()
		if err := store.DefineIntent(domain.IntentDefinition{Label: "No ID"}); err == nil {
			t.Error("Expected error for intent without id")
		}
		if err := store.DefineAction(domain.ActionDefinition{Title: "No Name"}); err == nil {
			t.Error("Expected error for action without name")
		}
	})

	t.Run("Upsert Updates Then Inserts", func(t *testing.T) {
		store := editor.NewStoreFromSeed(editor.DefaultSeed())
		before := len(store.Snapshot().Actions)

		// Update existing
		if err := store.UpsertActionDefinition(domain.ActionDefinition{Name: "api_call", Value: "https://new.example.com"}); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
		if got := len(store.Snapshot().Actions); got != before {
			t.Errorf("Upsert of existing entry changed catalog size: %d -> %d", before, got)
		}

		// Insert new
		if err := store.UpsertActionDefinition(domain.ActionDefinition{Name: "brand_new", Value: "x"}); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
		if got := len(store.Snapshot().Actions); got != before+1 {
			t.Errorf("Upsert of new entry did not insert: %d -> %d", before, got)
		}
	})
}

func TestStore_UpdateNodePayload(t *testing.T) {
	store := editor.NewStoreFromSeed(editor.DefaultSeed())

	t.Run("Partial Merge Keeps Other Fields", func(t *testing.T) {
		node, _ := store.AddNode(domain.KindAction, domain.Position{})

		if err := store.UpdateNodePayload(node.ID, map[string]any{"value": "changed"}); err != nil {
			t.Fatalf("UpdateNodePayload failed: %v", err)
		}
		got, _ := store.Snapshot().NodeByID(node.ID)
		if got.Action.Value != "changed" {
			t.Errorf("Value not merged: %q", got.Action.Value)
		}
		if got.Action.Name != "utter_message" {
			t.Errorf("Untouched field lost: %q", got.Action.Name)
		}
	})

	t.Run("Start Node Story Name", func(t *testing.T) {
		node, _ := store.AddNode(domain.KindStart, domain.Position{})
		if err := store.UpdateNodePayload(node.ID, map[string]any{"storyName": "Checkout"}); err != nil {
			t.Fatalf("UpdateNodePayload failed: %v", err)
		}
		got, _ := store.Snapshot().NodeByID(node.ID)
		if got.Start.StoryName != "Checkout" {
			t.Errorf("Story name not merged: %q", got.Start.StoryName)
		}
	})

	t.Run("End Node Has No Payload", func(t *testing.T) {
		node, _ := store.AddNode(domain.KindEnd, domain.Position{})
		if err := store.UpdateNodePayload(node.ID, map[string]any{"x": 1}); err == nil {
			t.Error("Expected error updating payload of an end node")
		}
	})
}

func TestStore_SnapshotIsolation(t *testing.T) {
	store := editor.NewStoreFromSeed(editor.DefaultSeed())

	snap := store.Snapshot()
	// Mutate the snapshot aggressively
	snap.Intents[0].Examples[0] = "hacked"
	snap.Nodes[1].Intent.IntentID = "hacked"

	fresh := store.Snapshot()
	if fresh.Intents[0].Examples[0] == "hacked" {
		t.Error("Snapshot shares catalog memory with the store")
	}
	if fresh.Nodes[1].Intent.IntentID == "hacked" {
		t.Error("Snapshot shares node memory with the store")
	}
}
