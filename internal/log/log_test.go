package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T, debug bool) *bytes.Buffer {
	t.Helper()

	buf := &bytes.Buffer{}
	prevNoColor := color.NoColor
	color.NoColor = true
	SetOutput(buf)
	SetDebugMode(debug)

	t.Cleanup(func() {
		color.NoColor = prevNoColor
		SetOutput(os.Stderr)
		SetDebugMode(false)
	})
	return buf
}

func TestDebug_OnlyInDebugMode(t *testing.T) {
	buf := captureOutput(t, false)
	Debug("hidden %d", 1)
	assert.Empty(t, buf.String())

	SetDebugMode(true)
	Debug("shown %d", 2)
	assert.Equal(t, "[DEBUG] shown 2\n", buf.String())
}

func TestWarnAndError_Prefixes(t *testing.T) {
	buf := captureOutput(t, false)

	Warn("could not save %s", "config")
	Error("boom")

	out := buf.String()
	assert.Contains(t, out, "Warning: could not save config")
	assert.Contains(t, out, "Error: boom")
}

func TestDebugResponse_TruncatesBody(t *testing.T) {
	buf := captureOutput(t, true)

	DebugResponse(500, []byte(strings.Repeat("x", maxBodyLog+100)))

	out := buf.String()
	assert.Contains(t, out, "API Response: 500")
	assert.Contains(t, out, strings.Repeat("x", maxBodyLog)+"...")
	assert.NotContains(t, out, strings.Repeat("x", maxBodyLog+1))
}

func TestDebugDuration(t *testing.T) {
	buf := captureOutput(t, true)

	DebugDuration("scan", 1500*time.Millisecond)
	assert.Contains(t, buf.String(), "scan took 1.5s")
}

func TestDebugConfig_SkipsHiddenFields(t *testing.T) {
	buf := captureOutput(t, true)

	DebugConfig("Configuration", struct {
		Model  string `json:"model"`
		Secret string `json:"-"`
	}{Model: "openai/gpt-3.5-turbo", Secret: "sk-hidden"})

	out := buf.String()
	assert.Contains(t, out, "[DEBUG] Configuration:")
	assert.Contains(t, out, `"model": "openai/gpt-3.5-turbo"`)
	assert.NotContains(t, out, "sk-hidden")
}

func TestDebugConfig_Silent(t *testing.T) {
	buf := captureOutput(t, false)
	DebugConfig("Configuration", map[string]int{"a": 1})
	assert.Empty(t, buf.String())
}
