package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sakib/mankey/core"
	"github.com/sakib/mankey/loader"
	"github.com/spf13/cobra"
)

var (
	initFormat string
	initForce  bool
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Writes a sample stocks and flows data set",
	Long: `Writes stocks.<ext> and flows.<ext> describing a small household budget
into dir (default: data). Existing files are left alone unless --force is set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "data"
		if len(args) == 1 {
			dir = args[0]
		}
		format := loader.Format(initFormat)
		if format != loader.FormatJSON && format != loader.FormatYAML {
			return fmt.Errorf("unknown record format '%s' (choose json or yaml)", initFormat)
		}
		stocks, flows := sampleDataset()

		stockRecords := make([]loader.StockRecord, len(stocks))
		for i, s := range stocks {
			stockRecords[i] = loader.StockRecordOf(s)
		}
		flowRecords := make([]loader.FlowRecord, len(flows))
		for i, f := range flows {
			flowRecords[i] = loader.FlowRecordOf(f)
		}

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		files := []struct {
			name    string
			records any
		}{{"stocks", stockRecords}, {"flows", flowRecords}}
		for _, f := range files {
			path := filepath.Join(dir, f.name+"."+string(format))
			if err := writeRecords(path, format, f.records); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		}
		return nil
	},
}

func writeRecords(path string, format loader.Format, records any) error {
	if !initForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	var buf bytes.Buffer
	if err := loader.Encode(&buf, format, records); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// sampleDataset is a monthly household budget that balances under every
// built-in policy.
func sampleDataset() ([]core.Stock, []core.Flow) {
	stocks := []core.Stock{
		core.NewStock("Employer", "USD", 0, true).WithColor("Gold"),
		core.NewStock("PNC Checking", "USD", 2500, false).WithColor("RoyalBlue"),
		core.NewStock("PNC Savings", "USD", 10000, false).WithColor("Teal"),
		core.NewStock("Brokerage", "USD", 25000, false).WithColor("MediumPurple"),
		core.NewStock("Rent", "USD", 0, false).WithColor("Crimson").WithClass(core.ClassUnconstrained),
		core.NewStock("Groceries", "USD", 0, false).WithColor("Orange"),
		core.NewStock("Utilities", "USD", 0, false).WithColor("Tomato"),
	}
	flow := func(src, dst string, rate, pct float64, label string) core.Flow {
		f, err := core.NewFlow(src, dst, rate, pct)
		if err != nil {
			panic(err)
		}
		return f.WithLabel(label)
	}
	flows := []core.Flow{
		flow("Employer", "PNC Checking", 6000, 1, "salary"),
		flow("PNC Checking", "Rent", 2200, 1, "rent"),
		flow("PNC Checking", "Groceries", 600, 1, ""),
		flow("PNC Checking", "Utilities", 250, 1, ""),
		flow("PNC Checking", "PNC Savings", 1000, 1, "emergency fund"),
		flow("PNC Checking", "Brokerage", 1500, 1, "index funds"),
		flow("PNC Savings", "Brokerage", 500, 0.5, ""),
	}
	flows[3].Cadence = core.Bimonthly
	return stocks, flows
}

func init() {
	initCmd.Flags().StringVar(&initFormat, "format", "json", "Record format: json or yaml")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing files")
	AddCommand(initCmd)
}
