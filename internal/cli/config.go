package cli

import (
	"fmt"

	"github.com/huimingz/commitgen/internal/config"
	"github.com/huimingz/commitgen/internal/secret"
	"github.com/huimingz/commitgen/internal/ui"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure API keys and settings",
}

var setAPIKeyCmd = &cobra.Command{
	Use:   "set-api-key",
	Short: "Set the API key",
	Long: `Prompt for the API key and store it in the configured secret backend
(config file by default, or the OS keychain with secret_backend: keyring).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadForUpdate(configFile)
		if err != nil {
			return err
		}
		store, err := secret.ForConfig(cfg)
		if err != nil {
			return err
		}

		key, err := ui.ReadSecret(keyPrompt(cfg.Provider), cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return fmt.Errorf("failed to read API key: %w", err)
		}
		if err := store.Set(secret.APIKey, key); err != nil {
			return err
		}

		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "✅ API key saved")
		return nil
	},
}

var setModelCmd = &cobra.Command{
	Use:   "set-model <model>",
	Short: "Set the default model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadForUpdate(configFile)
		if err != nil {
			return err
		}

		cfg.DefaultModel = args[0]
		if err := config.Save(cfg); err != nil {
			return err
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "✅ Default model set to: %s\n", args[0])
		return nil
	},
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		store, err := secret.ForConfig(cfg)
		if err != nil {
			return err
		}

		keyState := "Not set"
		if _, err := store.Get(secret.APIKey); err == nil {
			keyState = "Set"
		}

		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintln(out, "📋 Current configuration:")
		_, _ = fmt.Fprintf(out, "  Config File: %s\n", cfg.Path())
		_, _ = fmt.Fprintf(out, "  API Key: %s\n", keyState)
		_, _ = fmt.Fprintf(out, "  Secret Backend: %s\n", cfg.SecretBackend)
		_, _ = fmt.Fprintf(out, "  Provider: %s\n", cfg.Provider)
		_, _ = fmt.Fprintf(out, "  Default Model: %s\n", cfg.ModelName(modelName))
		_, _ = fmt.Fprintf(out, "  Max Diff Lines: %d\n", cfg.MaxDiffLines)
		_, _ = fmt.Fprintf(out, "  Temperature: %v\n", cfg.Temperature)
		_, _ = fmt.Fprintf(out, "  Max Tokens: %d\n", cfg.MaxTokens)
		_, _ = fmt.Fprintf(out, "  Timeout: %ds\n", cfg.Timeout)
		_, _ = fmt.Fprintf(out, "  Language: %s\n", cfg.Language)
		return nil
	},
}

var installHookCmd = &cobra.Command{
	Use:   "install-hook",
	Short: "Install as git prepare-commit-msg hook",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "🚧 Hook installation not implemented yet")
	},
}

func init() {
	configCmd.AddCommand(setAPIKeyCmd)
	configCmd.AddCommand(setModelCmd)
	configCmd.AddCommand(showConfigCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(installHookCmd)
}
