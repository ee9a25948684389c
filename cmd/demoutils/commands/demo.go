package commands

import (
	"fmt"
	"io"
	"sync"

	"github.com/compozy/demoutils/engine/demo"
	"github.com/compozy/demoutils/pkg/config"
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Print a sample run of every helper",
	Long: `Demo calls each helper once and prints the results. This is also what
runs when demoutils is invoked without a subcommand.

The greeting name and the random range come from the configuration:
  demo.name         (default: World)
  demo.random_min   (default: 1)
  demo.random_max   (default: 100)`,
	Example: `  # Print the demo output
  demoutils demo

  # Example output:
  # Hello, World! Welcome to LocalStack CI/CD Workshop
  # Today is: 2025-01-15
  # Random number: 42
  # 2 + 3 = 5
  # 4 * 5 = 20
  # 10 is even: true`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runDemoCommand(cmd)
	},
}

var initDemoOnce sync.Once

// InitDemoCommand registers the demo command
func InitDemoCommand() {
	initDemoOnce.Do(func() {
		rootCmd.AddCommand(demoCmd)
	})
}

func runDemoCommand(cmd *cobra.Command) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return printDemo(cmd.OutOrStdout(), cfg.Demo)
}

func printDemo(w io.Writer, cfg config.DemoConfig) error {
	n, err := demo.RandomBetween(cfg.RandomMin, cfg.RandomMax)
	if err != nil {
		return fmt.Errorf("failed to draw random number: %w", err)
	}

	fmt.Fprintln(w, demo.Greet(cfg.Name))
	fmt.Fprintf(w, "Today is: %s\n", demo.Today())
	fmt.Fprintf(w, "Random number: %d\n", n)
	fmt.Fprintf(w, "2 + 3 = %d\n", demo.Add(2, 3))
	fmt.Fprintf(w, "4 * 5 = %d\n", demo.Multiply(4, 5))
	fmt.Fprintf(w, "10 is even: %t\n", demo.IsEven(10))
	return nil
}
