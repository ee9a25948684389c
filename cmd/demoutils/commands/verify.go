package commands

import (
	"sync"

	"github.com/compozy/demoutils/engine/verify"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:     "verify",
	Aliases: []string{"test"},
	Short:   "Run the app's self-checks",
	Long: `Verify runs the sample app's checks in order and prints one line per passed
check. It stops at the first failure, prints the failing check and exits
with status 1. When every check passes it exits with status 0, which makes it
suitable as the test step of a CI pipeline.`,
	Example: `  # Run the checks
  demoutils verify

  # Use it as a pipeline gate
  demoutils verify && echo "ready to publish"`,
	Args: cobra.NoArgs,
	// the reporter already printed the failing check
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		reporter := verify.NewConsoleReporter(cmd.OutOrStdout(), cmd.ErrOrStderr())
		return verify.Run(verifyChecks(), reporter)
	},
}

var (
	initVerifyOnce sync.Once
	verifyChecks   = verify.DefaultChecks
)

// InitVerifyCommand registers the verify command
func InitVerifyCommand() {
	initVerifyOnce.Do(func() {
		rootCmd.AddCommand(verifyCmd)
	})
}
