package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	t.Run("Should map known levels and default to info", func(t *testing.T) {
		testCases := []struct {
			in       string
			expected LogLevel
		}{
			{"debug", DebugLevel},
			{" WARN ", WarnLevel},
			{"error", ErrorLevel},
			{"", InfoLevel},
			{"verbose", InfoLevel},
		}
		for _, tc := range testCases {
			assert.Equal(t, tc.expected, ParseLevel(tc.in), "level %q", tc.in)
		}
	})
}

func TestDefaultConfig(t *testing.T) {
	t.Run("Should log info and above to stderr", func(t *testing.T) {
		cfg := DefaultConfig()

		assert.Equal(t, InfoLevel, cfg.Level)
		assert.Equal(t, os.Stderr, cfg.Output)
		assert.False(t, cfg.JSON)
		assert.Equal(t, "15:04:05", cfg.TimeFormat)
	})
}

func TestNew(t *testing.T) {
	t.Run("Should write key value pairs at or above the level", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(&Config{Level: InfoLevel, Output: &buf})

		log.Debug("hidden")
		log.Info("step done", "step", "read csv")

		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, "step done")
		assert.Contains(t, out, "step=\"read csv\"")
	})

	t.Run("Should emit JSON when asked", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(&Config{Level: DebugLevel, Output: &buf, JSON: true})

		log.Warn("careful", "rows", 2)

		assert.Contains(t, buf.String(), `"msg":"careful"`)
		assert.Contains(t, buf.String(), `"rows":2`)
	})
}
