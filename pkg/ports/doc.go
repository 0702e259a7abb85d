/*
Package ports defines the driven ports (interfaces) for the flow editor core.

These interfaces decouple the store, traverser, and exporter from external
implementations, so the same export pipeline can write a local file, POST to
a training service, or feed a test buffer.

# Key Interfaces

  - ExportSink: receives the serialized training document.
  - GraphSource: read-only access to a graph snapshot, implemented by the
    editor store and consumed by the adapters.
*/
package ports
