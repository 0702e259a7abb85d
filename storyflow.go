package storyflow

import (
	"context"
	"log/slog"

	"github.com/storyflow/storyflow/internal/editor"
	"github.com/storyflow/storyflow/internal/export"
	"github.com/storyflow/storyflow/internal/logging"
	"github.com/storyflow/storyflow/internal/traverse"
	"github.com/storyflow/storyflow/pkg/domain"
	"github.com/storyflow/storyflow/pkg/ports"
)

// Version is the library version reported by the CLI.
var Version = "0.4.0"

// Workspace is the high-level entry point for the storyflow library.
// It owns one editing session (graph + catalogs) and wires the traverser
// and exporter over it.
type Workspace struct {
	store  *editor.Store
	logger *slog.Logger
}

// Option defines a functional option for configuring the Workspace.
type Option func(*Workspace) error

// WithLogger injects a custom logger. Defaults to a no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Workspace) error {
		w.logger = l
		return nil
	}
}

// WithSeed starts the session from the given seed instead of the built-in
// default.
func WithSeed(seed editor.Seed) Option {
	return func(w *Workspace) error {
		w.store = editor.NewStoreFromSeed(seed)
		return nil
	}
}

// WithSeedFile starts the session from a YAML seed file.
func WithSeedFile(path string) Option {
	return func(w *Workspace) error {
		seed, err := editor.LoadSeed(path)
		if err != nil {
			return err
		}
		w.store = editor.NewStoreFromSeed(seed)
		return nil
	}
}

// WithEmptySession starts with no nodes and empty catalogs.
func WithEmptySession() Option {
	return func(w *Workspace) error {
		w.store = editor.NewStore()
		return nil
	}
}

// New creates a Workspace seeded with the default session unless an option
// says otherwise.
func New(opts ...Option) (*Workspace, error) {
	w := &Workspace{
		store:  editor.NewStoreFromSeed(editor.DefaultSeed()),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		if err := opt(w); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// Store exposes the mutable graph store for adapters driving edits.
func (w *Workspace) Store() *editor.Store { return w.store }

// Snapshot returns a deep copy of the current graph and catalogs.
func (w *Workspace) Snapshot() domain.Graph { return w.store.Snapshot() }

// Functions returns the read-only function catalog.
func (w *Workspace) Functions() []domain.AvailableFunction { return w.store.Functions() }

// Validate traverses the current graph and returns the topology warnings.
func (w *Workspace) Validate() ([]traverse.Warning, error) {
	res, err := traverse.Traverse(w.Snapshot())
	if err != nil {
		return nil, err
	}
	return res.Warnings, nil
}

// BuildDocument traverses the current graph and assembles the export
// document without delivering it.
func (w *Workspace) BuildDocument() (export.Document, []traverse.Warning, error) {
	snap := w.Snapshot()
	res, err := traverse.Traverse(snap)
	if err != nil {
		return export.Document{}, nil, err
	}
	return export.Build(snap, res), res.Warnings, nil
}

// Export builds the document and hands it to the sink. The session is
// untouched either way; a sink failure is simply retried by calling again.
func (w *Workspace) Export(ctx context.Context, sink ports.ExportSink) (export.Document, []traverse.Warning, error) {
	doc, warnings, err := w.BuildDocument()
	if err != nil {
		return export.Document{}, nil, err
	}
	for _, warn := range warnings {
		w.logger.Warn("topology warning", "code", warn.Code, "node", warn.NodeID, "msg", warn.Message)
	}
	if err := export.Export(ctx, doc, sink); err != nil {
		return export.Document{}, warnings, err
	}
	w.logger.Info("export delivered",
		"stories", len(doc.Stories),
		"intents", len(doc.Intents),
		"actions", len(doc.Actions),
	)
	return doc, warnings, nil
}
