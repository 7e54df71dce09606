package defsource

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadParsesDefinitionsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shared.rex")
	require.NoError(t, os.WriteFile(path, []byte("def(host, txt(example.com)) def(sep, txt(@))"), 0o644))

	defs, err := New().Load(path)
	require.NoError(t, err)
	assert.Len(t, defs.Names(), 2)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := New().Load(filepath.Join(t.TempDir(), "missing.rex"))
	assert.Error(t, err, "Load() should fail for a missing file")
}

func TestLoadResolvesYAMLSidecar(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "host.rex"), []byte("def(host, txt(example.com))"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sep.rex"), []byte("def(sep, txt(@))"), 0o644))
	sidecar := filepath.Join(dir, "bundle.yaml")
	require.NoError(t, os.WriteFile(sidecar, []byte("hostnames: host.rex\nseparators: sep.rex\n"), 0o644))

	defs, err := New().Load(sidecar)
	require.NoError(t, err)
	assert.True(t, defs.Has("host"))
	assert.True(t, defs.Has("sep"))
}

func TestLoadSidecarRejectsDuplicateNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.rex"), []byte("def(shared, txt(a))"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.rex"), []byte("def(shared, txt(b))"), 0o644))
	sidecar := filepath.Join(dir, "bundle.yml")
	require.NoError(t, os.WriteFile(sidecar, []byte("first: a.rex\nsecond: b.rex\n"), 0o644))

	_, err := New().Load(sidecar)
	assert.Error(t, err, "Load() should fail when a sidecar's files declare the same name twice")
}

func TestLoadRejectsGarbageContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.rex")
	require.NoError(t, os.WriteFile(path, []byte("not a definitions file {{{"), 0o644))

	_, err := New().Load(path)
	assert.Error(t, err, "Load() should fail to parse a malformed definitions file")
}
