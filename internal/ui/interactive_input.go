package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
)

var (
	// ErrEmptyInput is returned when the user provides no input
	ErrEmptyInput = errors.New("empty input")

	// ErrInterrupted is returned when the user interrupts input with Ctrl+C
	ErrInterrupted = errors.New("input interrupted")
)

// MultilinePrompt collects a multi-line message, typically a commit message.
// Input ends with Ctrl+D (EOF). An empty answer keeps Initial when it is set.
type MultilinePrompt struct {
	Prompt  string // The main prompt message
	Hint    string // Hint text shown to help users
	Initial string // Current text, shown and kept on empty input
}

// ShowWithContext displays the prompt and collects the message. On a real
// terminal (stdin and stdout) it reads through readline.
func (p *MultilinePrompt) ShowWithContext(ctx context.Context, input io.Reader, output io.Writer) (string, error) {
	if err := ctxErr(ctx); err != nil {
		return "", err
	}

	if err := p.displayPrompt(output); err != nil {
		return "", err
	}

	// Use readline for better terminal experience if using stdin/stdout
	if input == os.Stdin && output == os.Stdout {
		return p.readWithReadline(ctx)
	}

	return p.readInput(ctx, bufio.NewScanner(input))
}

// ShowScanner is ShowWithContext over a scanner shared with other prompts
func (p *MultilinePrompt) ShowScanner(ctx context.Context, scanner *bufio.Scanner, output io.Writer) (string, error) {
	if err := ctxErr(ctx); err != nil {
		return "", err
	}
	if err := p.displayPrompt(output); err != nil {
		return "", err
	}
	return p.readInput(ctx, scanner)
}

// ctxErr reports a cancelled context as an interrupt
func ctxErr(ctx context.Context) error {
	err := ctx.Err()
	if errors.Is(err, context.Canceled) {
		return ErrInterrupted
	}
	return err
}

// displayPrompt shows the prompt, hint and the current text
func (p *MultilinePrompt) displayPrompt(output io.Writer) error {
	bold := color.New(color.Bold)
	dim := color.New(color.FgHiBlack)

	_, err := bold.Fprintf(output, "\n✏️  %s\n", p.Prompt)
	if err != nil {
		return err
	}

	if p.Hint != "" {
		_, err = dim.Fprintf(output, "   %s\n", p.Hint)
		if err != nil {
			return err
		}
	}

	if p.Initial != "" {
		_, err = dim.Fprintln(output, "   Current message (submit nothing to keep it):")
		if err != nil {
			return err
		}
		for _, line := range strings.Split(p.Initial, "\n") {
			if _, err = dim.Fprintf(output, "   │ %s\n", line); err != nil {
				return err
			}
		}
	}

	_, err = fmt.Fprint(output, "\n> ")
	return err
}

// readInput reads lines until EOF or a Ctrl+D character
func (p *MultilinePrompt) readInput(ctx context.Context, scanner *bufio.Scanner) (string, error) {
	var lines []string
	sawInput := false

	for {
		if err := ctxErr(ctx); err != nil {
			return "", err
		}

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", err
			}
			break
		}
		sawInput = true

		line := scanner.Text()

		// Some terminals deliver Ctrl+D inline
		if before, _, found := strings.Cut(line, "\x04"); found {
			if before != "" {
				lines = append(lines, before)
			}
			break
		}

		lines = append(lines, line)
	}

	return p.finish(lines, sawInput)
}

func (p *MultilinePrompt) finish(lines []string, sawInput bool) (string, error) {
	result := strings.TrimSpace(strings.Join(lines, "\n"))
	if result != "" {
		return result, nil
	}
	if p.Initial != "" {
		return p.Initial, nil
	}
	if sawInput {
		return "", ErrEmptyInput
	}
	return "", io.EOF
}

// readWithReadline uses readline for line editing on a real terminal
func (p *MultilinePrompt) readWithReadline(ctx context.Context) (string, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "^D",
	})
	if err != nil {
		// Fallback to regular input if readline fails
		return p.readInput(ctx, bufio.NewScanner(os.Stdin))
	}
	defer rl.Close()

	var lines []string
	sawInput := false

	for {
		if err := ctxErr(ctx); err != nil {
			return "", err
		}

		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				fmt.Println("\nInput cancelled.")
				return "", ErrInterrupted
			} else if errors.Is(err, io.EOF) {
				break
			}
			return "", err
		}
		sawInput = true

		if before, _, found := strings.Cut(line, "\x04"); found {
			if before != "" {
				lines = append(lines, before)
			}
			break
		}

		lines = append(lines, line)
	}

	return p.finish(lines, sawInput)
}

// ReadSecret prompts for a single secret line. On a terminal the typed
// characters are masked; other inputs are read as plain lines.
func ReadSecret(prompt string, input io.Reader, output io.Writer) (string, error) {
	if input == os.Stdin && output == os.Stdout {
		rl, err := readline.NewEx(&readline.Config{
			Prompt:          prompt,
			EnableMask:      true,
			MaskRune:        '*',
			InterruptPrompt: "^C",
		})
		if err == nil {
			defer rl.Close()
			line, err := rl.Readline()
			if errors.Is(err, readline.ErrInterrupt) {
				return "", ErrInterrupted
			}
			if err != nil {
				return "", err
			}
			return nonEmptySecret(line)
		}
	}

	return ReadSecretScanner(prompt, bufio.NewScanner(input), output)
}

// ReadSecretScanner reads a secret as a plain line from a scanner shared
// with the prompts that follow it.
func ReadSecretScanner(prompt string, scanner *bufio.Scanner, output io.Writer) (string, error) {
	if _, err := fmt.Fprint(output, prompt); err != nil {
		return "", err
	}
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return nonEmptySecret(scanner.Text())
}

func nonEmptySecret(line string) (string, error) {
	secret := strings.TrimSpace(line)
	if secret == "" {
		return "", ErrEmptyInput
	}
	return secret, nil
}
