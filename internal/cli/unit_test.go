package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sigil/internal/testutil"
	"github.com/roach88/sigil/internal/types"
)

func TestLoadUnitManifest(t *testing.T) {
	path := testutil.WriteUnitManifest(t, testutil.BasicUnitYAML)

	manifest, err := LoadUnitManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "libwidgets", manifest.Unit.Name)
	require.Len(t, manifest.Unit.Symbols, 3)
	assert.Equal(t, "_widget_make", manifest.Unit.Symbols[0].Name)
	assert.Equal(t, "pointer", manifest.Unit.Symbols[0].Kind)
}

func TestLoadUnitManifestMissingFile(t *testing.T) {
	_, err := LoadUnitManifest("/nonexistent/unit.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading unit manifest")
}

func TestLoadUnitManifestMissingName(t *testing.T) {
	path := testutil.WriteUnitManifest(t, `unit:
  symbols:
    - name: _f
      kind: function
`)
	_, err := LoadUnitManifest(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unit name is required")
}

func TestLoadUnitManifestNoSymbols(t *testing.T) {
	path := testutil.WriteUnitManifest(t, `unit:
  name: "empty"
`)
	_, err := LoadUnitManifest(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one symbol")
}

func TestLoadUnitManifestUnnamedSymbol(t *testing.T) {
	path := testutil.WriteUnitManifest(t, `unit:
  name: "libwidgets"
  symbols:
    - kind: function
`)
	_, err := LoadUnitManifest(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "symbols[0]: name is required")
}

func TestLoadUnitManifestUnknownKind(t *testing.T) {
	path := testutil.WriteUnitManifest(t, `unit:
  name: "libwidgets"
  symbols:
    - name: _f
      kind: method
`)
	_, err := LoadUnitManifest(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown symbol kind "method"`)
}

func TestSymbolTypeClassification(t *testing.T) {
	fn, err := symbolType("function")
	require.NoError(t, err)
	assert.True(t, types.IsFunction(fn))

	ptr, err := symbolType("pointer")
	require.NoError(t, err)
	assert.True(t, types.IsFunctionPointer(ptr))

	ref, err := symbolType("reference")
	require.NoError(t, err)
	assert.True(t, types.IsFunctionReference(ref))
}
