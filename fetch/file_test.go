package fetch

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/arkival/ragcore/core"
	"github.com/arkival/ragcore/ingestion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeItems(t *testing.T, dir, name string, items []ingestion.Item) {
	t.Helper()
	data, err := json.Marshal(items)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0644))
}

func docItem(title, body string, tags ...string) ingestion.Item {
	return ingestion.Item{
		Payload: ingestion.RawPayload{Title: title, Body: body, Tags: tags},
		Type:    core.TypeAPIDocumentation,
		Source:  core.SourceDocumentation,
	}
}

func TestNewFileFetcher(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid", func(t *testing.T) {
		f, err := NewFileFetcher(dir, core.SourceDocumentation)
		require.NoError(t, err)
		assert.Equal(t, core.SourceDocumentation, f.Source())
	})

	t.Run("bad source", func(t *testing.T) {
		_, err := NewFileFetcher(dir, core.SourceType("bogus"))
		assert.ErrorIs(t, err, core.ErrInvalidSourceType)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := NewFileFetcher(filepath.Join(dir, "nope"), core.SourceDocumentation)
		assert.Error(t, err)
	})
}

func TestFileFetcher_Fetch(t *testing.T) {
	dir := t.TempDir()
	writeItems(t, dir, "stdlib.json", []ingestion.Item{
		docItem("net/http timeouts", "Servers need ReadTimeout and WriteTimeout set."),
		docItem("encoding/json streaming", "Use Decoder for large inputs.", "json"),
	})
	writeItems(t, dir, "db.json", []ingestion.Item{
		docItem("database/sql pooling", "SetMaxOpenConns bounds the pool."),
	})

	f, err := NewFileFetcher(dir, core.SourceDocumentation)
	require.NoError(t, err)

	items, err := f.Fetch(context.Background(), "timeouts")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "net/http timeouts", items[0].Payload.Title)

	// Tag matches count too.
	items, err = f.Fetch(context.Background(), "json")
	require.NoError(t, err)
	assert.Len(t, items, 1)

	// Empty query returns everything.
	items, err = f.Fetch(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestFileFetcher_SkipsForeignSources(t *testing.T) {
	dir := t.TempDir()
	foreign := docItem("forum post", "Not documentation.")
	foreign.Source = core.SourceForum
	writeItems(t, dir, "mixed.json", []ingestion.Item{
		foreign,
		docItem("real docs", "Documentation body."),
	})

	f, err := NewFileFetcher(dir, core.SourceDocumentation)
	require.NoError(t, err)

	items, err := f.Fetch(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "real docs", items[0].Payload.Title)
}

func TestFileFetcher_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0644))

	f, err := NewFileFetcher(dir, core.SourceDocumentation)
	require.NoError(t, err)

	_, err = f.Fetch(context.Background(), "anything")
	assert.Error(t, err)
}
