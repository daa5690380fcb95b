// Package log writes diagnostics to stderr, keeping stdout for the
// commit message and prompts.
package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
)

var (
	debugMode           = false
	output    io.Writer = os.Stderr
)

// maxBodyLog bounds how much of a raw response body is echoed in debug mode
const maxBodyLog = 500

var (
	debugColor = color.New(color.FgHiBlack)
	warnColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed)
)

func SetDebugMode(enabled bool) {
	debugMode = enabled
}

// SetOutput redirects all log output, mainly for tests
func SetOutput(w io.Writer) {
	output = w
}

func emit(c *color.Color, prefix, format string, args ...interface{}) {
	_, _ = c.Fprintf(output, prefix+format+"\n", args...)
}

// Debug prints only in debug mode
func Debug(format string, args ...interface{}) {
	if debugMode {
		emit(debugColor, "[DEBUG] ", format, args...)
	}
}

// DebugConfig dumps v as indented JSON. Fields tagged json:"-", such as
// the API key, never appear.
func DebugConfig(label string, v interface{}) {
	if !debugMode {
		return
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		Debug("%s: (failed to serialize: %v)", label, err)
		return
	}
	Debug("%s:\n%s", label, data)
}

// DebugRequest logs a provider call. The body carries the diff and is not echoed.
func DebugRequest(method, url string, bodySize int) {
	if debugMode {
		emit(color.New(color.FgCyan), "[DEBUG] ", "API Request: %s %s (%d bytes)", method, url, bodySize)
	}
}

// DebugResponse logs the status and a bounded prefix of the body
func DebugResponse(statusCode int, body []byte) {
	if !debugMode {
		return
	}
	c := color.New(color.FgGreen)
	if statusCode >= 300 {
		c = errorColor
	}
	emit(c, "[DEBUG] ", "API Response: %d", statusCode)
	if len(body) > 0 {
		_, _ = fmt.Fprintf(output, "[DEBUG] Response Body: %s\n", truncate(string(body), maxBodyLog))
	}
}

func DebugDuration(operation string, d time.Duration) {
	if debugMode {
		emit(color.New(color.FgBlue), "[DEBUG] ", "%s took %v", operation, d)
	}
}

func Warn(format string, args ...interface{}) {
	emit(warnColor, "Warning: ", format, args...)
}

func Error(format string, args ...interface{}) {
	emit(errorColor, "Error: ", format, args...)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
