package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("warn", &buf)

	log.Info("hidden")
	log.Warn("folder fetch failed:", "404")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"message":"folder fetch failed: 404"`)
	assert.Contains(t, out, `"level":"warn"`)
}

func TestWithAddsField(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("debug", &buf).With("folder_id", "ABC123")

	log.Debug("listing folder")

	assert.Contains(t, buf.String(), `"folder_id":"ABC123"`)
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	assert.Equal(t, "info", parseLevel("nonsense").String())
	assert.Equal(t, "warn", parseLevel("WARNING").String())
}
