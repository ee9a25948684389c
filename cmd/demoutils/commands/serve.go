package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/compozy/demoutils/engine/server"
	"github.com/compozy/demoutils/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the browser demo and JSON API",
	Long: `Serve starts a small HTTP server exposing every helper as a JSON endpoint,
plus a demo page that calls them from the browser.

Endpoints:
  GET /                      demo page (also /demo.html)
  GET /healthz               health check
  GET /api/greet?name=       greeting
  GET /api/add?a=&b=         sum
  GET /api/multiply?a=&b=    product
  GET /api/is-even?n=        parity
  GET /api/date?date=        UTC date of YYYY-MM-DD or RFC3339 input, today if absent
  GET /api/random?min=&max=  random integer in [min, max]

If the port is already in use, the next ports are tried in turn
(server.port_attempts in total). Press Ctrl+C to stop the server.`,
	Example: `  # Serve on the default port (8000)
  demoutils serve

  # Serve on another port, reachable from other machines
  demoutils serve --host 0.0.0.0 --port 9000`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return errors.WithRecover("serve_command", func() error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			return server.Run(ctx, cfg, func(url string) {
				fmt.Fprintln(out, "🌐 LocalStack Workshop Demo Server")
				fmt.Fprintf(out, "🔗 Demo URL: %s\n", url)
				fmt.Fprintln(out, "ℹ️  Press Ctrl+C to stop the server")
			})
		})
	},
}

var initServeOnce sync.Once

// InitServeCommand registers the serve command
func InitServeCommand() {
	initServeOnce.Do(func() {
		serveCmd.Flags().String("host", "", "interface to bind (default from server.host)")
		serveCmd.Flags().IntP("port", "p", 0, "port to serve on (default from server.port)")
		bindServeFlags()
		rootCmd.AddCommand(serveCmd)
	})
}

func bindServeFlags() {
	_ = viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}
