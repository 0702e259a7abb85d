package editor

import "github.com/google/uuid"

// newID returns a collision-resistant identifier for nodes and edges.
// The original editor derived ids from the wall clock, which collides when
// two elements are created within the same tick; random UUIDs close that gap.
func newID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}
