// Package file implements ports.ExportSink on the local filesystem,
// mirroring the browser editor's "download JSON" flow.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultName matches the filename the browser editor offers for download.
const DefaultName = "story-flow-export.json"

// Sink writes the export document to a file inside Dir.
type Sink struct {
	Dir  string
	Name string
}

// NewSink creates a file sink. Empty dir means the working directory,
// empty name falls back to DefaultName.
func NewSink(dir, name string) *Sink {
	if name == "" {
		name = DefaultName
	}
	return &Sink{Dir: dir, Name: name}
}

// Path returns the destination path.
func (s *Sink) Path() string {
	return filepath.Join(s.Dir, s.Name)
}

// Deliver writes the payload. The directory is created if missing.
func (s *Sink) Deliver(_ context.Context, payload []byte) error {
	if s.Dir != "" {
		if err := os.MkdirAll(s.Dir, 0755); err != nil {
			return fmt.Errorf("ensure export directory: %w", err)
		}
	}
	if err := os.WriteFile(s.Path(), payload, 0644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	return nil
}
