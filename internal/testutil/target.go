package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/sigil/internal/abi"
)

// SignedFunctionPointers builds pointer-auth options with an enabled
// function-pointer schema. Tests construct independent option values
// per case; the session-wide registry is never hidden global state.
func SignedFunctionPointers(key abi.Key, mode abi.AuthMode) *abi.PointerAuthOptions {
	return &abi.PointerAuthOptions{
		FunctionPointers: abi.Schema{
			Enabled:            true,
			Key:                key,
			AuthenticationMode: mode,
		},
	}
}

// UnsignedFunctionPointers builds pointer-auth options with the
// function-pointer schema disabled.
func UnsignedFunctionPointers() *abi.PointerAuthOptions {
	return &abi.PointerAuthOptions{}
}

// WriteTargetDir writes a CUE target description into a fresh temp
// directory and returns the directory path.
func WriteTargetDir(t *testing.T, cueSource string) string {
	t.Helper()
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "target.cue"), []byte(cueSource), 0o644)
	require.NoError(t, err)
	return dir
}

// Arm64eTargetCUE is a well-formed target description used across
// command tests.
const Arm64eTargetCUE = `target: {
	name: "arm64e-apple-darwin"
	pointer_auth: {
		function_pointers: {
			enabled:             true
			key:                 "asia"
			authentication_mode: "sign-and-auth"
		}
	}
}
`

// PlainTargetCUE is a target description with signing disabled.
const PlainTargetCUE = `target: {
	name: "arm64-apple-darwin"
}
`

// WriteUnitManifest writes a YAML unit manifest into a fresh temp
// directory and returns the file path.
func WriteUnitManifest(t *testing.T, yamlSource string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "unit.yaml")
	err := os.WriteFile(path, []byte(yamlSource), 0o644)
	require.NoError(t, err)
	return path
}

// BasicUnitYAML is a small unit manifest used across command tests.
const BasicUnitYAML = `unit:
  name: "libwidgets"
  symbols:
    - name: _widget_make
      kind: pointer
      signature: "func(i32) i32"
    - name: _widget_free
      kind: function
    - name: _widget_clone
      kind: reference
`
