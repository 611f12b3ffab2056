package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Output: &buf, JSON: true})

	log.Error("Failed to update user", "user_id", "42", "status", 401)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "Failed to update user", line["msg"])
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "42", line["user_id"])
	assert.Equal(t, float64(401), line["status"])
}

func TestLoggerDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Output: &buf})
	log.Debug("hidden")
	assert.Empty(t, buf.String())

	log = New(Options{Output: &buf, Debug: true})
	log.Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Output: &buf, JSON: true}).With("component", "screen")
	log.Info("mounted", "odd")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "screen", line["component"])
	assert.Equal(t, "odd", line["!BADKEY"])
}
