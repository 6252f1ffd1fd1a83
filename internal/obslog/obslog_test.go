package obslog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestBuild_RotatesPreviousLog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "client.log")
	require.NoError(t, os.WriteFile(path, []byte("previous run\n"), 0o644))
	require.NoError(t, os.WriteFile(path+".bak", []byte("older run\n"), 0o644))

	logger, err := Build(Options{Level: zapcore.InfoLevel, ToFile: true, FilePath: path, Format: "json", KeepBackup: true})
	require.NoError(t, err)
	logger.Info("ws_open")
	_ = logger.Sync()

	bak, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, "previous run\n", string(bak))

	cur, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(cur), `"msg":"ws_open"`)
}

func TestBuild_NoSinksFallsBackToStdout(t *testing.T) {
	logger, err := Build(Options{Level: zapcore.WarnLevel})
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}
