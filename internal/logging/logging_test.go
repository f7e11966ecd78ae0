package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, DEBUG, level)

	level, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, INFO, level)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}

func TestLoggerRespectsLevels(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)

	logger, err := NewLogger("test")
	require.NoError(t, err)

	logger.Debug("скрыто")
	logger.Info("видно %d", 42)

	out := buf.String()
	assert.NotContains(t, out, "скрыто")
	assert.Contains(t, out, "[INFO] [test] видно 42")
}

func TestLoggerWritesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, InitLogger(dir, ERROR))
	defer func() {
		CloseLogger()
		require.NoError(t, InitLogger("", INFO))
	}()

	Debug("в файл")
	CloseLogger()

	files, err := filepath.Glob(filepath.Join(dir, "server_*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "[DEBUG] [server] в файл")
}

func TestLoggerManagerCachesComponents(t *testing.T) {
	lm := GetLoggerManager()
	a := lm.MustGetLogger("cache-test")
	b := lm.MustGetLogger("cache-test")
	assert.Same(t, a, b)
	assert.Contains(t, lm.ListComponents(), "cache-test")

	require.NoError(t, lm.SetLogLevel("cache-test", WARN, ERROR))
	assert.Error(t, lm.SetLogLevel("missing", WARN, ERROR))
}

func TestHexDump(t *testing.T) {
	assert.Equal(t, "No data", HexDump(nil))
	assert.Contains(t, HexDump([]byte{0xde, 0xad}), "de ad")
}
