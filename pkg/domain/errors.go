package domain

import "errors"

// ErrNodeNotFound is returned when a node id cannot be found in the store.
var ErrNodeNotFound = errors.New("node not found")

// ErrEdgeNotFound is returned when an edge id cannot be found in the store.
var ErrEdgeNotFound = errors.New("edge not found")

// ErrInvalidReference is returned when a connection names a node id that
// does not exist.
var ErrInvalidReference = errors.New("invalid node reference")

// ErrDuplicateDefinition is returned when defining an intent or action whose
// id/name collides with an existing catalog entry. The store is left
// unchanged; callers surface the message and abort, nothing unwinds.
var ErrDuplicateDefinition = errors.New("definition already exists")

// ErrUnknownKind is returned when a node kind outside the four variants is
// requested.
var ErrUnknownKind = errors.New("unknown node kind")

// ErrDanglingEdge signals an edge pointing at a node absent from the store.
// The cascading delete keeps this unreachable through normal mutation, so
// hitting it means a programming error, not a user mistake.
var ErrDanglingEdge = errors.New("edge references missing node")
