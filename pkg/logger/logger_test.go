package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug": zerolog.DebugLevel,
		"WARN":  zerolog.WarnLevel,
		"error": zerolog.ErrorLevel,
		"":      zerolog.InfoLevel,
		"nope":  zerolog.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestComponent_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "info", Service: "smartwms-station", Out: &buf})

	c := l.Component("stocktake")
	c.Info().Str("session_id", "st-1").Msg("inventario iniciado")
	c.Debug().Msg("no se emite")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "smartwms-station", rec["service"])
	assert.Equal(t, "stocktake", rec["component"])
	assert.Equal(t, "st-1", rec["session_id"])
	assert.Equal(t, "inventario iniciado", rec["message"])
}
