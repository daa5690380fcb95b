package cli

import (
	"errors"
	"strings"

	"github.com/huimingz/commitgen/internal/log"
	"github.com/huimingz/commitgen/pkg/lang"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	dryRun      bool
	interactive bool
	force       bool
	verbose     bool
	debugMode   bool
	configFile  string
	modelName   string
	apiKeyFlag  string
	language    string

	// Version info
	version   = "dev"
	gitCommit = "unknown"
	buildTime = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "commitgen",
	Short: "AI-powered commit message generation",
	Long: `commitgen writes a commit message for your pending changes.

Staged changes are described when there are any; otherwise the unstaged
working tree changes are used. When the model cannot be reached, an offline
heuristic still proposes a message.

Use "commitgen [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Set debug mode before any command runs
		if debugMode {
			log.SetDebugMode(true)
			log.Debug("Debug mode enabled")
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if dryRun {
			return runGenerate(cmd, args)
		}
		return cmd.Help()
	},
}

// reportedError marks an error a command has already shown to the user
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error {
	return e.error
}

// IsReported reports whether err was already printed and only needs a
// non-zero exit status.
func IsReported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets version information from build flags
func SetVersionInfo(v, commit, time string) {
	version = v
	gitCommit = commit
	buildTime = time
}

// GetVersionInfo returns version information
func GetVersionInfo() (string, string, string) {
	return version, gitCommit, buildTime
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&dryRun, "dry-run", "d", false, "Generate a commit message without committing")
	flags.BoolVarP(&interactive, "interactive", "i", false, "Review and edit the message before committing")
	flags.BoolVarP(&force, "force", "f", false, "Commit without asking for confirmation")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Show files, diff size and timing")
	flags.BoolVar(&debugMode, "debug", false, "Enable debug logging")
	flags.StringVar(&configFile, "config", "", "Config file path (default: ./.commitgen.yaml or ~/.config/commitgen/config.yaml)")
	flags.StringVar(&modelName, "model", "", "Model to use (overrides config)")
	flags.StringVar(&apiKeyFlag, "api-key", "", "API key (overrides config and keychain)")
	flags.StringVarP(&language, "language", "l", "", "Output language ("+strings.Join(lang.Codes(), ", ")+")")
}
