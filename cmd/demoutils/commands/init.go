package commands

import (
	"fmt"
	"os"
	"sync"

	"github.com/compozy/demoutils/pkg/config"
	"github.com/spf13/cobra"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new demoutils configuration file",
	Long: `Initialize creates a new demoutils.yaml configuration file in the current
directory with default settings.

The configuration file includes:
  • Demo settings (greeting name, random range)
  • Server settings (host, port, port fallback, rate limits, proxy trust, timeouts)
  • Logging preferences (level, format)

Every key can also be set through the environment, e.g.
DEMOUTILS_SERVER_PORT=9000, or through a .env file.`,
	Example: `  # Create a default configuration file
  demoutils init

  # Overwrite an existing one
  demoutils init --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		configFile := config.DefaultConfigFileName + ".yaml"
		if cfgFile != "" {
			configFile = cfgFile
		}

		// Check if file exists and force flag is not set
		if _, err := os.Stat(configFile); err == nil && !forceOverwrite {
			return fmt.Errorf("config file %s already exists. Use --force to overwrite", configFile)
		}

		if err := config.Save(config.DefaultConfig(), configFile); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✓ Configuration file '%s' created successfully\n", configFile)
		fmt.Fprintln(out, "\nNext steps:")
		fmt.Fprintln(out, "1. Edit the config file to change the greeting or server port")
		fmt.Fprintln(out, "2. Run 'demoutils verify' to check the app")
		return nil
	},
}

var (
	initInitOnce   sync.Once
	forceOverwrite bool
)

// InitInitCommand registers the init command
func InitInitCommand() {
	initInitOnce.Do(func() {
		initCmd.Flags().BoolVar(&forceOverwrite, "force", false, "Force overwrite existing config file")
		rootCmd.AddCommand(initCmd)
	})
}
