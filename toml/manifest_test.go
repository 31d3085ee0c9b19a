package toml_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/shinra"
	"github.com/fwojciec/shinra/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadManifest(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "manifest.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[[archives]]
name = "JP-5_20190712.zip"
md5 = "d278548f38abb9778d4d24e78487b4fd"

[[archives]]
name = "JP-30_20190712.zip"
md5 = "6d4db54cb2a3d047779eb5bda5ac6c49"
`), 0o644))

	manifest, err := toml.LoadManifest(path)
	require.NoError(t, err)

	require.Len(t, manifest.Archives, 2)
	assert.Equal(t, "JP-5_20190712.zip", manifest.Archives[0].Name)
	assert.Equal(t, "d278548f38abb9778d4d24e78487b4fd", manifest.Archives[0].MD5)
}

func TestLoadManifest_NotFound(t *testing.T) {
	t.Parallel()

	_, err := toml.LoadManifest(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Equal(t, shinra.ENOTFOUND, shinra.ErrorCode(err))
}

func TestLoadManifest_Invalid(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "manifest.toml")
	require.NoError(t, os.WriteFile(path, []byte("not toml ["), 0o644))

	_, err := toml.LoadManifest(path)
	assert.Equal(t, shinra.EINVALID, shinra.ErrorCode(err))
}

func TestSaveManifest_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "manifest.toml")
	require.NoError(t, toml.SaveManifest(path, shinra.DefaultManifest()))

	manifest, err := toml.LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, shinra.DefaultManifest(), manifest)
}
