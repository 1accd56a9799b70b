package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/sakib/mankey/core"
	"github.com/sakib/mankey/loader"
	"github.com/sakib/mankey/runtime"
	"github.com/sakib/mankey/viz"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Checks the stocks and flows files without rendering anything",
	Long: `The validate command loads both record files, checks every field, resolves
every flow endpoint, checks stock colours and runs the balance check. All
violations are reported; nothing is written.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Validating data set:")
		palette := viz.DefaultPalette()
		ds, err := loader.NewLoader(nil).LoadFilesAndValidate(out, settings.StocksFile, settings.FlowsFile)
		if err != nil {
			// Flows are missing, but the stocks that loaded can still be
			// checked as a set.
			return errors.Join(err, checkStockSet(out, settings.StocksFile, ds.Stocks, palette))
		}
		rec, err := reconcile(settings, ds, palette)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Reconciled %d stocks and %d flows under the %s policy\n",
			len(rec.Stocks()), len(rec.Flows()), rec.Policy().Name)
		return nil
	},
}

// checkStockSet reports duplicate names and unknown colours among stocks.
func checkStockSet(w io.Writer, path string, stocks []core.Stock, palette viz.Palette) error {
	if stocks == nil {
		return nil
	}
	err := errors.Join(runtime.NewSystem(stocks, nil).Validate(), palette.Check(stocks))
	if err == nil {
		return nil
	}
	fmt.Fprintf(w, "Error checking stocks in %s\n", path)
	for _, v := range loader.Flatten(err) {
		fmt.Fprintf(w, "  %v\n", v)
	}
	return err
}

func init() {
	AddCommand(validateCmd)
}
