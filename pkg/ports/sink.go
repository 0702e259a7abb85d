package ports

import "context"

// ExportSink receives the serialized export document. The serializer's
// contract ends at producing the bytes; delivery (file write, HTTP POST) is
// the sink's concern, and a failed delivery leaves the editing session
// untouched so the user can retry.
type ExportSink interface {
	// Deliver ships the finished document. The payload is a complete JSON
	// document; sinks must not mutate it.
	Deliver(ctx context.Context, payload []byte) error
}

// SinkFunc adapts a function to the ExportSink interface.
type SinkFunc func(ctx context.Context, payload []byte) error

// Deliver calls f.
func (f SinkFunc) Deliver(ctx context.Context, payload []byte) error {
	return f(ctx, payload)
}
