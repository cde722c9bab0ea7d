package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	t.Run("known levels", func(t *testing.T) {
		for raw, want := range map[string]zerolog.Level{
			"trace":   zerolog.TraceLevel,
			"DEBUG":   zerolog.DebugLevel,
			" info ":  zerolog.InfoLevel,
			"warning": zerolog.WarnLevel,
			"error":   zerolog.ErrorLevel,
			"off":     zerolog.Disabled,
		} {
			got, ok := ParseLevel(raw)
			assert.True(t, ok, raw)
			assert.Equal(t, want, got, raw)
		}
	})

	t.Run("unknown level", func(t *testing.T) {
		_, ok := ParseLevel("loud")
		assert.False(t, ok)
	})
}

func TestNew(t *testing.T) {
	t.Run("disabled logger writes nothing", func(t *testing.T) {
		t.Setenv(EnvLogLevel, "")
		var buf bytes.Buffer

		logger := New(DefaultConfig(), &buf)
		logger.Error().Msg("hidden")

		assert.Empty(t, buf.String())
	})

	t.Run("env overrides level", func(t *testing.T) {
		t.Setenv(EnvLogLevel, "debug")
		t.Setenv(EnvLogNoColor, "true")
		var buf bytes.Buffer

		logger := New(DefaultConfig(), &buf)
		logger.Debug().Str("token", "1").Msg("registered observation")

		assert.Contains(t, buf.String(), "registered observation")
		assert.Contains(t, buf.String(), "token=1")
	})
}
