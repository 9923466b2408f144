package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_FormatsAndFilters(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerTo(&buf, &Config{Level: "warn"}).With("bot", "telegram")

	log.Info("chat %d: ignored", 1)
	log.Warn("chat %d: countdown update failed", 42)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "chat 42: countdown update failed", record["msg"])
	assert.Equal(t, "telegram", record["bot"])
}

func TestGetLoggerLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", getLoggerLevel("debug").String())
	assert.Equal(t, "INFO", getLoggerLevel("INFO").String())
	assert.Equal(t, "ERROR", getLoggerLevel("error").String())
	assert.Equal(t, "DEBUG", getLoggerLevel("verbose").String())
}
