package logger

import (
	"path/filepath"
	"testing"

	"go-erp/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestNew_FileOutput(t *testing.T) {
	dir := t.TempDir()
	l, err := New(config.LoggerConfig{
		Level:    "info",
		Output:   "file",
		FilePath: filepath.Join(dir, "nested", "erp.log"),
		MaxSize:  1,
	})
	require.NoError(t, err)
	l.Info("hello")
	assert.DirExists(t, filepath.Join(dir, "nested"))
}
