package target

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/sigil/internal/abi"
	"github.com/roach88/sigil/internal/testutil"
)

func TestLoadValidTarget(t *testing.T) {
	dir := testutil.WriteTargetDir(t, testutil.Arm64eTargetCUE)

	result, errs := Load(dir)
	require.Empty(t, errs)
	require.NotNil(t, result.Target)

	assert.Equal(t, "arm64e-apple-darwin", result.Target.Name)
	assert.Equal(t, 1, result.FileCount)

	schema := result.Target.PointerAuth.FunctionPointers
	assert.True(t, schema.Enabled)
	assert.Equal(t, abi.KeyASIA, schema.Key)
	assert.Equal(t, abi.ModeSignAndAuth, schema.AuthenticationMode)
	assert.False(t, schema.AddressDiscriminated)
	assert.False(t, schema.OtherDiscrimination)
}

func TestLoadTargetWithoutPointerAuth(t *testing.T) {
	dir := testutil.WriteTargetDir(t, testutil.PlainTargetCUE)

	result, errs := Load(dir)
	require.Empty(t, errs)
	require.NotNil(t, result.Target)

	assert.Equal(t, "arm64-apple-darwin", result.Target.Name)
	assert.False(t, result.Target.PointerAuth.FunctionPointers.Enabled)
}

func TestLoadUnknownKey(t *testing.T) {
	dir := testutil.WriteTargetDir(t, `target: {
	name: "arm64e"
	pointer_auth: function_pointers: {
		enabled:             true
		key:                 "pac"
		authentication_mode: "sign"
	}
}
`)

	_, errs := Load(dir)
	require.Len(t, errs, 1)

	var loadErr *LoadError
	require.True(t, errors.As(errs[0], &loadErr))
	assert.Equal(t, ErrCodeInvalidKey, loadErr.Code)
}

func TestLoadUnknownMode(t *testing.T) {
	dir := testutil.WriteTargetDir(t, `target: {
	name: "arm64e"
	pointer_auth: function_pointers: {
		enabled:             true
		key:                 "asia"
		authentication_mode: "verify"
	}
}
`)

	_, errs := Load(dir)
	require.Len(t, errs, 1)

	var loadErr *LoadError
	require.True(t, errors.As(errs[0], &loadErr))
	assert.Equal(t, ErrCodeInvalidMode, loadErr.Code)
}

func TestLoadEnabledSchemaRequiresKey(t *testing.T) {
	dir := testutil.WriteTargetDir(t, `target: {
	name: "arm64e"
	pointer_auth: function_pointers: {
		enabled:             true
		authentication_mode: "sign"
	}
}
`)

	_, errs := Load(dir)
	require.Len(t, errs, 1)

	var loadErr *LoadError
	require.True(t, errors.As(errs[0], &loadErr))
	assert.Equal(t, ErrCodeInvalidKey, loadErr.Code)
}

func TestLoadAddressDiscriminatedRejected(t *testing.T) {
	dir := testutil.WriteTargetDir(t, `target: {
	name: "arm64e"
	pointer_auth: function_pointers: {
		enabled:               true
		key:                   "asia"
		authentication_mode:   "sign"
		address_discriminated: true
	}
}
`)

	result, errs := Load(dir)
	require.NotNil(t, result.Target)
	require.Len(t, errs, 1)

	var verr ValidationError
	require.True(t, errors.As(errs[0], &verr))
	assert.Equal(t, ErrCodeAddressDisc, verr.Code)
}

func TestLoadOtherDiscriminationRejected(t *testing.T) {
	dir := testutil.WriteTargetDir(t, `target: {
	name: "arm64e"
	pointer_auth: function_pointers: {
		enabled:              true
		key:                  "asia"
		authentication_mode:  "sign"
		other_discrimination: true
	}
}
`)

	result, errs := Load(dir)
	require.NotNil(t, result.Target)
	require.Len(t, errs, 1)

	var verr ValidationError
	require.True(t, errors.As(errs[0], &verr))
	assert.Equal(t, ErrCodeOtherDisc, verr.Code)
}

func TestLoadNoTargetStruct(t *testing.T) {
	dir := testutil.WriteTargetDir(t, `other: {name: "x"}
`)

	_, errs := Load(dir)
	require.Len(t, errs, 1)

	var loadErr *LoadError
	require.True(t, errors.As(errs[0], &loadErr))
	assert.Equal(t, ErrCodeNoTarget, loadErr.Code)
}

func TestLoadMissingDirectory(t *testing.T) {
	_, errs := Load(filepath.Join(t.TempDir(), "missing"))
	require.Len(t, errs, 1)

	var loadErr *LoadError
	require.True(t, errors.As(errs[0], &loadErr))
	assert.Equal(t, ErrCodeNotFound, loadErr.Code)
}

func TestLoadEmptyDirectory(t *testing.T) {
	_, errs := Load(t.TempDir())
	require.Len(t, errs, 1)

	var loadErr *LoadError
	require.True(t, errors.As(errs[0], &loadErr))
	assert.Equal(t, ErrCodeNoFiles, loadErr.Code)
}
