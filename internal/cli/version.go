package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print detailed version information about commitgen.`,
	Run: func(cmd *cobra.Command, args []string) {
		v, commit, buildTime := GetVersionInfo()
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "commitgen %s\n", v)
		_, _ = fmt.Fprintf(out, "  Git Commit: %s\n", commit)
		_, _ = fmt.Fprintf(out, "  Build Time: %s\n", buildTime)
		_, _ = fmt.Fprintf(out, "  Go Version: %s\n", runtime.Version())
		_, _ = fmt.Fprintf(out, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
