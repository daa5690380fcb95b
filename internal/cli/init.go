package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/huimingz/commitgen/internal/config"
	"github.com/spf13/cobra"
)

const defaultConfigTemplate = `# commitgen configuration file

# Provider: openrouter (default), openai, deepseek, ollama, gemini, grok
provider: openrouter

# Model identifier as understood by the provider
default_model: openai/gpt-3.5-turbo

# Optional API base URL, e.g. a proxy or a local Ollama
# base_url: http://localhost:11434/v1

# Where the API key lives: config (this file), keyring (OS keychain) or env
# (COMMITGEN_API_KEY). Run 'commitgen config set-api-key' to store it.
secret_backend: config

# Diffs longer than this are cut to their first and last lines
max_diff_lines: 1000

# Generation parameters
temperature: 0.7
max_tokens: 150

# Request timeout in seconds
timeout: 30

# Language of the generated message (en, zh, zh-tw, ja, ko, de, fr, es)
language: en

# Retries for transient API failures
retry:
  enabled: true
  max_attempts: 2
  backoff_base: 1.0
  backoff_max: 4.0
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file",
	Long: `Create a commented configuration file at the --config path, or at
~/.config/commitgen/config.yaml when none is given.

An existing file is only replaced with --force.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := configFile
		if configPath == "" {
			var err error
			configPath, err = config.GlobalPath()
			if err != nil {
				return err
			}
		}

		// Check if file exists
		if _, err := os.Stat(configPath); err == nil && !force {
			return fmt.Errorf("config file already exists: %s\nUse --force to overwrite", configPath)
		}

		if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
		if err := os.WriteFile(configPath, []byte(defaultConfigTemplate), 0o600); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}

		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "✅ Configuration file created: %s\n", configPath)
		_, _ = fmt.Fprintln(out, "\nNext steps:")
		_, _ = fmt.Fprintln(out, "  1. Run 'commitgen config set-api-key' to store your API key")
		_, _ = fmt.Fprintln(out, "  2. Run 'commitgen commit' to generate a message and commit")

		return nil
	},
}

func init() {
	configCmd.AddCommand(initCmd)
}
