package cli

import (
	"github.com/fatih/color"
	"github.com/huimingz/commitgen/internal/config"
	"github.com/huimingz/commitgen/internal/llm"
	"github.com/spf13/cobra"
)

// providerEndpoints are the URLs used when base_url is not set
var providerEndpoints = map[string]string{
	"openrouter": llm.OpenRouterEndpoint,
	"openai":     "https://api.openai.com/v1",
	"deepseek":   llm.DeepseekDefaultBaseURL,
	"ollama":     llm.OllamaDefaultBaseURL,
	"gemini":     "Google Gemini API",
	"grok":       llm.GrokDefaultBaseURL,
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List supported model providers",
	Long:  `List the providers that can be set with "provider:" in the configuration file.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		bold := color.New(color.Bold)
		green := color.New(color.FgGreen)
		cyan := color.New(color.FgCyan)

		_, _ = bold.Fprintln(out, "Supported Providers:")
		_, _ = bold.Fprintln(out)

		for _, name := range config.SupportedProviders() {
			if name == cfg.Provider {
				_, _ = green.Fprintf(out, "  ✓ %s (configured)\n", name)
				if cfg.BaseURL != "" {
					_, _ = cyan.Fprintf(out, "      Base URL: %s\n", cfg.BaseURL)
					continue
				}
			} else {
				_, _ = cyan.Fprintf(out, "    %s\n", name)
			}
			_, _ = cyan.Fprintf(out, "      Endpoint: %s\n", providerEndpoints[name])
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(providersCmd)
}
