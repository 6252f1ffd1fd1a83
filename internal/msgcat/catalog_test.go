package msgcat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog_ConnectionTexts(t *testing.T) {
	c := MustDefault()

	s, err := c.Render("connection.peer_closed", nil)
	require.NoError(t, err)
	assert.Equal(t, "Lost the connection to the server. Check your connection and try again.", s)

	s, err = c.Render("connection.refused", nil)
	require.NoError(t, err)
	assert.Equal(t, "Couldn't connect to the server.", s)
}

func TestRender_TemplateData(t *testing.T) {
	c := MustDefault()
	s, err := c.Render("cli.rejected", map[string]any{"Action": "place_piece", "Error": "occupied"})
	require.NoError(t, err)
	assert.Equal(t, "place_piece rejected: occupied", s)

	_, err = c.Render("cli.rejected", map[string]any{"Action": "place_piece"})
	assert.Error(t, err)
}

func TestText_Fallback(t *testing.T) {
	var nilCat *Catalog
	assert.Equal(t, "fb", nilCat.Text("connection.other", nil, "fb"))
	assert.Equal(t, "fb", MustDefault().Text("no.such.key", nil, "fb"))
}

func TestOverrideDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("connection:\n  refused: \"Server down.\"\n"), 0o644))

	c, err := New(dir)
	require.NoError(t, err)
	s, err := c.Render("connection.refused", nil)
	require.NoError(t, err)
	assert.Equal(t, "Server down.", s)

	s, err = c.Render("connection.other", nil)
	require.NoError(t, err)
	assert.Equal(t, "An error occurred with the connection to the server.", s)
}

func TestOverrideDir_DuplicateKeys(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("cli:\n  connected: a\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yml"), []byte("cli:\n  connected: b\n"), 0o644))

	_, err := New(dir)
	assert.ErrorContains(t, err, "duplicate override key")
}
