package ports

import "github.com/storyflow/storyflow/pkg/domain"

// GraphSource provides read access to the current graph state. The editor
// store is the canonical implementation; adapters that only inspect or
// export depend on this instead of the full store.
type GraphSource interface {
	// Snapshot returns a deep copy of the current graph and catalogs.
	Snapshot() domain.Graph

	// Functions returns the read-only function catalog.
	Functions() []domain.AvailableFunction
}
