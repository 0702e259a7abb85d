/*
Package storyflow is the core of a visual editor for conversational-bot
flows: a graph of start, intent, action, and end nodes that linearizes into
"stories" and exports to a bot-training JSON document.

The package separates three concerns behind one Workspace facade:

  - Graph store: the canonical node/edge lists plus the intent and action
    catalogs, with the editor's consistency rules (selecting a definition
    copies it onto the node; saving edits writes back into the catalog).
  - Traverser: walks the graph from every start node, producing ordered
    step lists and non-fatal warnings for cycles, dead ends, and branches.
  - Exporter: assembles the {intents, actions, stories} document and hands
    it to a sink (local file or a training-service POST).

# Usage

	ws, err := storyflow.New()
	if err != nil {
		log.Fatal(err)
	}

	node, _ := ws.Store().AddNode(domain.KindIntent, domain.Position{X: 100, Y: 50})
	_ = ws.Store().SelectIntent(node.ID, "intent_order")

	doc, warnings, err := ws.Export(ctx, file.NewSink(".", ""))

Everything is transient: a Workspace is rebuilt from a seed each session,
and export never mutates the graph.
*/
package storyflow
