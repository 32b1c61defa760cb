package restic

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindBinaryOverride(t *testing.T) {
	fake := filepath.Join(t.TempDir(), "restic")
	require.NoError(t, os.WriteFile(fake, []byte("#!/bin/sh\n"), 0o755))

	path, err := FindBinary(fake)
	require.NoError(t, err)
	assert.Equal(t, fake, path)
}

func TestFindBinaryOverrideMissing(t *testing.T) {
	_, err := FindBinary(filepath.Join(t.TempDir(), "restic"))
	assert.ErrorContains(t, err, "was not found")
}

func TestFindBinaryOnPath(t *testing.T) {
	dir := t.TempDir()
	fake := filepath.Join(dir, "restic")
	require.NoError(t, os.WriteFile(fake, []byte("#!/bin/sh\n"), 0o755))
	t.Setenv("PATH", dir)

	path, err := FindBinary("")
	require.NoError(t, err)
	assert.Equal(t, fake, path)
}
