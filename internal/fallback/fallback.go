// Package fallback derives a commit message offline from file names and
// diff statistics when no language model is available.
package fallback

import (
	"strings"

	"github.com/huimingz/commitgen/internal/diff"
)

// Rule messages, in decision order.
const (
	TestsMessage = "Add/update tests"
	DocsMessage  = "Update documentation"
	FixMessage   = "Fix bug"
)

// keywordRules are checked against the lowercased diff. First match wins.
var keywordRules = []struct {
	keywords []string
	message  string
}{
	{keywords: []string{"test", "spec"}, message: TestsMessage},
	{keywords: []string{"readme", "doc"}, message: DocsMessage},
	{keywords: []string{"fix", "bug"}, message: FixMessage},
}

// Classify returns a commit message for the given files and diff. It never fails.
func Classify(files []string, diffText string) string {
	joined := strings.Join(files, ", ")
	if diffText == "" {
		return "Update " + joined
	}

	added, deleted := CountLines(diffText)

	lower := strings.ToLower(diffText)
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.message
			}
		}
	}

	switch {
	case added > deleted*2:
		return "Add new functionality to " + joined
	case deleted > added*2:
		return "Remove/cleanup code from " + joined
	default:
		return "Update " + joined
	}
}

// CountLines counts '+' and '-' prefixed lines, skipping the
// "+++" and "---" file headers.
func CountLines(diffText string) (added, deleted int) {
	for _, line := range diff.Lines(diffText) {
		switch {
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			added++
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			deleted++
		}
	}
	return added, deleted
}
