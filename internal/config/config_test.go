package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/standardbeagle/logdex/internal/errors"
	"github.com/standardbeagle/logdex/internal/fasthash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_SeedsLogLevels(t *testing.T) {
	cfg := Default()
	assert.Equal(t, uint64(DefaultMaxPostings), cfg.MaxPostings)
	assert.Equal(t, uint64(DefaultStaleSecs), cfg.StaleSecs)
	assert.Equal(t, 4, cfg.LogLevels[fasthash.HashToken("ERROR")])
	assert.Equal(t, 0, cfg.LogLevels[fasthash.HashToken("TRACE")])
}

func TestRegisterService_IsIdempotentAndSequential(t *testing.T) {
	cfg := Default()
	a := cfg.RegisterService("auth")
	b := cfg.RegisterService("billing")
	again := cfg.RegisterService("auth")

	assert.Equal(t, uint8(0), a)
	assert.Equal(t, uint8(1), b)
	assert.Equal(t, a, again)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.kdl"))
	require.NoError(t, err)
	assert.Equal(t, Default().MaxPostings, cfg.MaxPostings)
}

func TestLoad_ParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".logdex.kdl")
	content := `
max_postings 1000
stale_secs 60
enable_ngrams false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), cfg.MaxPostings)
	assert.Equal(t, uint64(60), cfg.StaleSecs)
	assert.False(t, cfg.EnableNgrams)
}

func TestLoad_UnparsableFileReturnsConfigIOError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".logdex.kdl")
	require.NoError(t, os.WriteFile(path, []byte("{{{not kdl"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	var ioErr *errors.ConfigIOError
	assert.ErrorAs(t, err, &ioErr)
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".logdex.kdl")
	require.NoError(t, os.WriteFile(path, []byte("max_postings 1000\n"), 0o644))

	updates, cancel, err := Watch(path)
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, os.WriteFile(path, []byte("max_postings 2000\n"), 0o644))

	select {
	case cfg := <-updates:
		assert.Equal(t, uint64(2000), cfg.MaxPostings)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}
