package llm

import (
	"fmt"
	"strings"

	"github.com/huimingz/commitgen/pkg/lang"
)

const promptTemplate = `Generate a concise, meaningful commit message for the following changes:

Files changed: %s

Diff:
%s

Please provide only the commit message, no explanations or quotes. Follow conventional commit format if applicable.`

// BuildPrompt renders the single user message sent to the model.
func BuildPrompt(req GenerationRequest) string {
	prompt := fmt.Sprintf(promptTemplate, strings.Join(req.Files, ", "), req.Diff)
	if req.Language != "" && req.Language != lang.English {
		prompt += fmt.Sprintf("\nWrite the commit message in %s.", req.Language.DisplayName())
	}
	return prompt
}
