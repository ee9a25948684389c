package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/compozy/demoutils/pkg/config"
	"github.com/compozy/demoutils/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "demoutils",
	Short: "Sample utility app for the LocalStack CI/CD workshop",
	Long: `demoutils is the sample application built, tested and deployed during the
LocalStack CI/CD workshop. It bundles a handful of helper functions together
with the checks a pipeline runs before publishing the app.

Helpers:
  • greet            workshop greeting
  • add, multiply    integer and float arithmetic
  • is-even          parity check
  • date             UTC calendar date (YYYY-MM-DD)
  • random           uniform integer in an inclusive range

Example workflow:
  1. Print the demo output:     demoutils
  2. Run the pipeline checks:   demoutils verify
  3. Open the browser demo:     demoutils serve`,
	Args:              cobra.NoArgs,
	PersistentPreRunE: setupLogging,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runDemoCommand(cmd)
	},
}

var (
	initRootOnce sync.Once
	cfgFile      string
	debugMode    bool
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	InitConfig()

	InitDemoCommand()
	InitVerifyCommand()
	InitServeCommand()
	InitInitCommand()
	InitVersionCommand()

	// cobra has already printed the error unless the command silenced it
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// InitConfig initializes the configuration
func InitConfig() {
	initRootOnce.Do(func() {
		rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./demoutils.yaml)")
		rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")
		cobra.OnInitialize(initConfigFile)
	})
}

func initConfigFile() {
	// .env values become regular environment variables before viper reads them
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: Could not load .env file: %s\n", err)
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(config.DefaultConfigFileName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	config.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		// Only report errors that are not "file not found" errors
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if cfgFile != "" {
				fmt.Fprintf(os.Stderr, "Warning: Could not read config file %s: %s\n", cfgFile, err)
			} else {
				fmt.Fprintf(os.Stderr, "Error reading config file: %s\n", err)
				os.Exit(1)
			}
		}
	}
}

// loadConfig decodes the merged flag, env, file and default settings
func loadConfig() (*config.Config, error) {
	return config.FromViper(viper.GetViper())
}

func setupLogging(_ *cobra.Command, _ []string) error {
	if err := logger.Configure(viper.GetString("log.level"), viper.GetString("log.format")); err != nil {
		return err
	}
	if debugMode {
		logger.SetDebug(true)
	}
	return nil
}
