package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/cleanbuild/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func newBufferedLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	lg, ok := logger.New().(*logger.Logger)
	require.True(t, ok)

	var buf bytes.Buffer
	lg.SetOutput(&buf)
	return lg, &buf
}

func TestLogger_Info(t *testing.T) {
	lg, buf := newBufferedLogger(t)

	lg.Info("some message")

	assert.Equal(t, "some message\n", buf.String())
}

func TestLogger_Warn(t *testing.T) {
	lg, buf := newBufferedLogger(t)

	lg.Warn("some warning")

	assert.Equal(t, "! some warning\n", buf.String())
}

func TestLogger_Error(t *testing.T) {
	lg, buf := newBufferedLogger(t)

	lg.Error(zerr.Wrap(os.ErrPermission, "failed to remove build output directory"))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "✗ Error: failed to remove build output directory"))
	assert.Contains(t, out, "Caused by:")
	assert.Contains(t, out, "→ permission denied")
}

func TestLogger_ErrorNil(t *testing.T) {
	lg, buf := newBufferedLogger(t)

	lg.Error(nil)

	assert.Empty(t, buf.String())
}

func TestLogger_JSON(t *testing.T) {
	lg, buf := newBufferedLogger(t)
	lg.SetJSON(true)

	lg.Error(errors.New("boom"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "operation failed", record["msg"])
	assert.Equal(t, "boom", record["error"])

	buf.Reset()
	lg.SetJSON(false)
	lg.Info("back to pretty")
	assert.Equal(t, "back to pretty\n", buf.String())
}
