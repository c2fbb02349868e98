package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfo_WithFields(t *testing.T) {
	var buf bytes.Buffer
	log = New(&buf)

	Info("class session created", "class_session_id", 7, "room_id", 3)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "class session created", entry["message"])
	assert.Equal(t, float64(7), entry["class_session_id"])
	assert.Equal(t, float64(3), entry["room_id"])
}

func TestError(t *testing.T) {
	var buf bytes.Buffer
	log = New(&buf)

	Error("test error")

	assert.Contains(t, buf.String(), "test error")
	assert.Contains(t, buf.String(), `"level":"error"`)
}

func TestErrorf(t *testing.T) {
	var buf bytes.Buffer
	log = New(&buf)

	Errorf("failed after %d attempts", 3)

	assert.Contains(t, buf.String(), "failed after 3 attempts")
}

func TestSetup_LevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	Setup(&buf, "info", "json")

	Debug("hidden")
	Debugf("hidden %s", "too")
	assert.Empty(t, buf.String())

	Setup(&buf, "debug", "json")
	Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestSetup_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	Setup(&buf, "loud", "json")

	Info("still logged")
	assert.Contains(t, buf.String(), "still logged")
}

func TestSetup_Console(t *testing.T) {
	var buf bytes.Buffer
	Setup(&buf, "info", "console")

	Warn("room busy", "room_id", 1)

	out := buf.String()
	assert.Contains(t, out, "room busy")
	assert.Contains(t, out, "room_id")
}
