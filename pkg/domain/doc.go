// Package domain holds the core types of the flow editor: the typed node
// graph, the intent and action catalogs, and the sentinel errors shared by
// the store, traverser, and exporter.
//
// Nodes are a tagged union: Kind selects which payload pointer is set. This
// keeps the traverser free of defensive optional-field access.
package domain
