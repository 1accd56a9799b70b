package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/sakib/mankey/viz"
	"github.com/spf13/cobra"
)

var (
	diagramFormat string
	diagramOutput string
)

var diagramCmd = &cobra.Command{
	Use:   "diagram",
	Short: "Renders the flow diagram in a chosen format",
	Long: fmt.Sprintf(`Reconciles the data set and renders the flow diagram.
Formats: %s.
  html:       standalone page drawn with plotly.js
  json:       the raw node/link payload
  dot:        Graphviz digraph
  mermaid:    mermaid sankey-beta block
  excalidraw: editable excalidraw scene

Output goes to stdout unless --output is given.`, strings.Join(viz.Formats(), ", ")),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		gen, err := viz.GeneratorFor(diagramFormat)
		if err != nil {
			return err
		}
		_, d, err := build(settings)
		if err != nil {
			return err
		}
		title, _ := cmd.Flags().GetString("title")
		out, err := gen.Generate(title, d)
		if err != nil {
			return err
		}
		if diagramOutput == "" {
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		}
		if err := os.WriteFile(diagramOutput, []byte(out), 0o644); err != nil {
			return fmt.Errorf("write diagram: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s diagram to %s\n", diagramFormat, diagramOutput)
		return nil
	},
}

func init() {
	diagramCmd.Flags().StringVar(&diagramFormat, "format", "html", "Output format: "+strings.Join(viz.Formats(), ", "))
	diagramCmd.Flags().StringVarP(&diagramOutput, "output", "o", "", "Output file (default stdout)")
	diagramCmd.Flags().String("title", "mankey", "Diagram title")
	AddCommand(diagramCmd)
}
