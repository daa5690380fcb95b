package diff

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numberedLines(n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("+line %d", i+1)
	}
	return lines
}

func TestFilter_IdentityUnderBudget(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxLines int
	}{
		{name: "empty", text: "", maxLines: 0},
		{name: "exactly at budget", text: strings.Join(numberedLines(5), "\n"), maxLines: 5},
		{name: "trailing newline kept", text: strings.Join(numberedLines(3), "\n") + "\n", maxLines: 3},
		{name: "well under budget", text: "diff --git a/x b/x\n+hello\r\n", maxLines: 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.text, Filter(tt.text, tt.maxLines))
		})
	}
}

func TestFilter_TruncationShape(t *testing.T) {
	input := numberedLines(30)

	out := Lines(Filter(strings.Join(input, "\n"), 25))

	require.Len(t, out, 21)
	assert.Equal(t, input[:10], out[:10])
	assert.Equal(t, TruncationMarker, out[10])
	assert.Equal(t, input[20:], out[11:])
	assert.Equal(t, 1, strings.Count(strings.Join(out, "\n"), TruncationMarker))
}

func TestFilter_NoTailWhenTwentyOrFewer(t *testing.T) {
	input := numberedLines(15)

	out := Lines(Filter(strings.Join(input, "\n"), 5))

	require.Len(t, out, 11)
	assert.Equal(t, input[:10], out[:10])
	assert.Equal(t, TruncationMarker, out[10])
}

func TestFilter_ClampsSmallInput(t *testing.T) {
	input := numberedLines(3)

	out := Lines(Filter(strings.Join(input, "\n"), 0))

	assert.Equal(t, append(input, TruncationMarker), out)
}

func TestFilter_ExactlyTwentyOneLines(t *testing.T) {
	input := numberedLines(21)

	out := Lines(Filter(strings.Join(input, "\n"), 20))

	require.Len(t, out, 21)
	assert.Equal(t, input[:10], out[:10])
	assert.Equal(t, TruncationMarker, out[10])
	assert.Equal(t, input[11:], out[11:])
}

func TestLines(t *testing.T) {
	assert.Nil(t, Lines(""))
	assert.Equal(t, []string{"a", "b"}, Lines("a\nb\n"))
	assert.Equal(t, []string{"a", "", "b"}, Lines("a\n\nb"))
	assert.Equal(t, []string{"a", "b"}, Lines("a\r\nb\r\n"))
}
