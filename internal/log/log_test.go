package log

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T, asJSON bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevLevel := GetLogLevel()
	SetOutput(&buf)
	SetJSON(asJSON)
	t.Cleanup(func() {
		SetJSON(false)
		SetOutput(os.Stderr)
		_ = SetLogLevel(prevLevel)
	})
	return &buf
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: "info"},
		{in: "error", want: "error"},
		{in: "WARNING", want: "warn"},
		{in: "debug", want: "debug"},
		{in: "Trace", want: "trace"},
		{in: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			captureLogs(t, false)
			err := SetLogLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, GetLogLevel())
		})
	}
}

func TestLogWithFields_JSON(t *testing.T) {
	buf := captureLogs(t, true)
	require.NoError(t, SetLogLevel("info"))
	buf.Reset()

	LogInfoWithFields("batch", "Batch finished", map[string]any{
		"total": 3,
	})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Batch finished", entry["msg"])
	assert.Equal(t, "batch", entry["component"])
	assert.Equal(t, float64(3), entry["total"])
	assert.Contains(t, entry, "timestamp")
}

func TestLogTrace_RespectsLevel(t *testing.T) {
	buf := captureLogs(t, false)

	require.NoError(t, SetLogLevel("debug"))
	buf.Reset()
	LogTrace("hidden %d", 1)
	assert.Empty(t, buf.String())

	require.NoError(t, SetLogLevel("trace"))
	buf.Reset()
	LogTraceWithFields("emailutil", "visible", nil)
	assert.True(t, strings.Contains(buf.String(), "level=TRACE"), buf.String())
}
