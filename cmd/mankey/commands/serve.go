package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sakib/mankey/web"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the flow diagram and ledger over HTTP",
	Long: `Reconciles the data set once, then serves:
  /             the diagram page
  /api/diagram  the renderer payload as JSON
  /api/ledger   per stock totals as JSON
  /healthz      liveness

Stops gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		override(&settings.Addr, serveAddr)
		rec, d, err := build(settings)
		if err != nil {
			return err
		}
		title, _ := cmd.Flags().GetString("title")
		app, err := web.NewApp(title, rec, d, nil)
		if err != nil {
			return err
		}

		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
		defer stop()
		fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on http://%s\n", title, displayAddr(settings.Addr))
		server := &web.Server{Address: settings.Addr, Handler: app.Handler()}
		return server.Run(ctx)
	},
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: MANKEY_ADDR env var or :8080)")
	serveCmd.Flags().String("title", "mankey", "Diagram title")
	AddCommand(serveCmd)
}
