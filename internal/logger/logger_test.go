package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure_Levels(t *testing.T) {
	var buf bytes.Buffer
	Configure(Options{Level: "info", Out: &buf})
	t.Cleanup(UseTestMode)

	Debug("hidden %d", 1)
	Info("shown %d", 2)
	Warn("careful")
	LogError("broken")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown 2")
	assert.Contains(t, out, "careful")
	assert.Contains(t, out, "broken")
}

func TestSetLevel_Debug(t *testing.T) {
	var buf bytes.Buffer
	Configure(Options{Level: "error", Out: &buf})
	t.Cleanup(UseTestMode)

	Info("before")
	SetLevel("debug")
	Debug("after")

	out := buf.String()
	assert.NotContains(t, out, "before")
	assert.Contains(t, out, "after")
}

func TestConfigure_JSON(t *testing.T) {
	var buf bytes.Buffer
	Configure(Options{Level: "info", JSON: true, Out: &buf})
	t.Cleanup(UseTestMode)

	Success("Extension is up!")

	line := strings.TrimSpace(buf.String())
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Contains(t, entry["msg"], "Extension is up!")
	assert.NotContains(t, line, "\x1b[", "JSON lines carry no color codes")
}

func TestConfigureLoggerFromFlags_Quiet(t *testing.T) {
	FlagQuiet = true
	t.Cleanup(func() {
		FlagQuiet = false
		UseTestMode()
	})

	ConfigureLoggerFromFlags()
	var buf bytes.Buffer
	SetOutput(&buf)

	Info("noise")
	LogError("signal")

	assert.NotContains(t, buf.String(), "noise")
	assert.Contains(t, buf.String(), "signal")
}
