package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// ConfirmScanner asks a yes/no question. An empty answer picks the default.
// The scanner is shared with the other prompts of a session so answers typed
// ahead are not lost between questions.
func ConfirmScanner(message string, defaultYes bool, scanner *bufio.Scanner, output io.Writer) (bool, error) {
	var prompt string
	if defaultYes {
		prompt = fmt.Sprintf("%s [Y/n]: ", message)
	} else {
		prompt = fmt.Sprintf("%s [y/N]: ", message)
	}

	for {
		_, err := fmt.Fprint(output, prompt)
		if err != nil {
			return false, err
		}

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return false, err
			}
			return false, io.EOF
		}

		response := strings.TrimSpace(strings.ToLower(scanner.Text()))

		switch response {
		case "":
			return defaultYes, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		default:
			_, err := fmt.Fprintln(output, "Please enter 'y' or 'n'")
			if err != nil {
				return false, err
			}
		}
	}
}

// ShowCommitMessage displays a formatted commit message.
// fallback marks messages produced offline instead of by the model.
func ShowCommitMessage(message string, fallback bool, output io.Writer) error {
	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)

	title := "\n📝 Generated Commit Message:"
	if fallback {
		title = "\n📝 Commit Message (offline fallback):"
	}

	_, err := bold.Fprintln(output, title)
	if err != nil {
		return err
	}

	_, err = cyan.Fprintln(output, "─────────────────────────────")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(output, message)
	if err != nil {
		return err
	}

	_, err = cyan.Fprintln(output, "─────────────────────────────")
	return err
}
