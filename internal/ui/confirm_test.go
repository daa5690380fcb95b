package ui

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmScanner(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		defaultYes bool
		want       bool
		wantPrompt string
	}{
		{name: "yes", input: "y\n", want: true, wantPrompt: "[y/N]"},
		{name: "no", input: "n\n", defaultYes: true, want: false, wantPrompt: "[Y/n]"},
		{name: "upper case", input: "Y\n", want: true},
		{name: "full yes", input: "yes\n", want: true},
		{name: "full no", input: "no\n", defaultYes: true, want: false},
		{name: "empty takes default yes", input: "\n", defaultYes: true, want: true},
		{name: "empty takes default no", input: "\n", want: false},
		{name: "padded", input: "  y  \n", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := &bytes.Buffer{}
			scanner := bufio.NewScanner(strings.NewReader(tt.input))

			got, err := ConfirmScanner("Commit with this message?", tt.defaultYes, scanner, output)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, output.String(), "Commit with this message?")
			if tt.wantPrompt != "" {
				assert.Contains(t, output.String(), tt.wantPrompt)
			}
		})
	}
}

func TestConfirmScanner_RepromptsOnInvalidAnswer(t *testing.T) {
	output := &bytes.Buffer{}
	scanner := bufio.NewScanner(strings.NewReader("perhaps\ny\n"))

	got, err := ConfirmScanner("Use this message?", false, scanner, output)
	require.NoError(t, err)
	assert.True(t, got)
	assert.Equal(t, 2, strings.Count(output.String(), "Use this message? [y/N]: "))
	assert.Contains(t, output.String(), "Please enter 'y' or 'n'")
}

func TestConfirmScanner_EOF(t *testing.T) {
	got, err := ConfirmScanner("Use this message?", true, bufio.NewScanner(strings.NewReader("")), &bytes.Buffer{})
	assert.Equal(t, io.EOF, err)
	assert.False(t, got)
}

func TestConfirmScanner_SharesInputAcrossQuestions(t *testing.T) {
	scanner := bufio.NewScanner(strings.NewReader("n\nmaybe\ny\n"))
	output := &bytes.Buffer{}

	first, err := ConfirmScanner("Use this message?", true, scanner, output)
	require.NoError(t, err)
	assert.False(t, first)

	second, err := ConfirmScanner("Commit with this message?", true, scanner, output)
	require.NoError(t, err)
	assert.True(t, second)
	assert.Contains(t, output.String(), "Please enter 'y' or 'n'")
}

func TestShowCommitMessage(t *testing.T) {
	output := &bytes.Buffer{}

	message := "Add login endpoint\n\nImplement token authentication"
	err := ShowCommitMessage(message, false, output)
	require.NoError(t, err)

	outputStr := output.String()
	assert.Contains(t, outputStr, "Generated Commit Message")
	assert.Contains(t, outputStr, "Add login endpoint")
	assert.Contains(t, outputStr, "token authentication")
}

func TestShowCommitMessage_Fallback(t *testing.T) {
	output := &bytes.Buffer{}

	err := ShowCommitMessage("Update documentation", true, output)
	require.NoError(t, err)
	assert.Contains(t, output.String(), "offline fallback")
	assert.Contains(t, output.String(), "Update documentation")
}
