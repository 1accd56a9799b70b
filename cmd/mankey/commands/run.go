package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/sakib/mankey/viz"
	"github.com/spf13/cobra"
)

var (
	runOutput    string
	diagramTitle string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Reconcile the data set, print the ledger and write the diagram page",
	Long: `Loads the stocks and flows files, reconciles them, prints one ledger row per
stock and writes a standalone HTML page drawing the flow diagram.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	rec, d, err := build(settings)
	if err != nil {
		return err
	}
	if err := printLedger(cmd.OutOrStdout(), rec); err != nil {
		return err
	}

	page, err := viz.NewPlotlyGenerator(viz.DefaultPlotConfig()).Generate(diagramTitle, d)
	if err != nil {
		return err
	}
	if err := os.WriteFile(runOutput, []byte(page), 0o644); err != nil {
		return fmt.Errorf("write diagram page: %w", err)
	}
	slog.Info("run.written", "path", runOutput, "stocks", len(d.Node.Label), "flows", len(d.Link.Source))
	fmt.Fprintf(cmd.OutOrStdout(), "\nWrote %s\n", runOutput)
	return nil
}

func init() {
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "mankey.html", "Where to write the diagram page")
	runCmd.Flags().StringVar(&diagramTitle, "title", "mankey", "Diagram title")
	AddCommand(runCmd)
}
