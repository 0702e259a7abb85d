package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyflow/storyflow/pkg/adapters/file"
)

func TestSink_Deliver(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports", "nested")
	sink := file.NewSink(dir, "")

	require.NoError(t, sink.Deliver(context.Background(), []byte(`{"intents":[]}`)))

	raw, err := os.ReadFile(filepath.Join(dir, file.DefaultName))
	require.NoError(t, err)
	assert.Equal(t, `{"intents":[]}`, string(raw))
}

func TestSink_CustomName(t *testing.T) {
	dir := t.TempDir()
	sink := file.NewSink(dir, "custom.json")

	require.NoError(t, sink.Deliver(context.Background(), []byte("x")))
	assert.FileExists(t, filepath.Join(dir, "custom.json"))
}

func TestSink_Overwrites(t *testing.T) {
	dir := t.TempDir()
	sink := file.NewSink(dir, "")

	require.NoError(t, sink.Deliver(context.Background(), []byte("first")))
	require.NoError(t, sink.Deliver(context.Background(), []byte("second")))

	raw, err := os.ReadFile(sink.Path())
	require.NoError(t, err)
	assert.Equal(t, "second", string(raw))
}
