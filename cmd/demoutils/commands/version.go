package commands

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/spf13/cobra"
)

// Version information, overridden at build time with -ldflags
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Display the version number, build time, Git commit hash and Go runtime
version of this demoutils build.`,
	Example: `  # Show version information
  demoutils version

  # Print just the version number
  demoutils version --short`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		out := cmd.OutOrStdout()
		if versionShort {
			fmt.Fprintln(out, Version)
			return
		}
		fmt.Fprintln(out, "demoutils - LocalStack CI/CD Workshop sample app")
		fmt.Fprintf(out, "Version:    %s\n", Version)
		fmt.Fprintf(out, "Build Time: %s\n", BuildTime)
		fmt.Fprintf(out, "Git Commit: %s\n", GitCommit)
		fmt.Fprintf(out, "Go Version: %s\n", runtime.Version())
		fmt.Fprintf(out, "OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

var (
	initVersionOnce sync.Once
	versionShort    bool
)

// InitVersionCommand registers the version command
func InitVersionCommand() {
	initVersionOnce.Do(func() {
		versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print just the version number")
		rootCmd.AddCommand(versionCmd)
	})
}
