package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestSetOutputAndLevel(t *testing.T) {
	original := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(original) })

	var buf bytes.Buffer
	SetOutput(&buf)

	log.Info().Str("sku", "SKU-1000").Msg("evaluated")
	assert.Contains(t, buf.String(), `"sku":"SKU-1000"`)
	assert.Contains(t, buf.String(), `"level":"info"`)

	buf.Reset()
	SetLevel("warn")
	Log.Info().Msg("hidden")
	assert.Empty(t, buf.String())
	Log.Warn().Msg("shown")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	SetLevel("not-a-level")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	assert.Contains(t, buf.String(), "invalid log level")
}
