package commands

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/sakib/mankey/core"
	"github.com/sakib/mankey/loader"
	"github.com/sakib/mankey/runtime"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// formatAmount groups thousands and keeps two decimals.
func formatAmount(v core.Amount) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return printer.Sprintf("%.2f", v)
}

// printLedger writes one row per stock with its projected balance.
func printLedger(w io.Writer, rec *runtime.Reconciled) error {
	policy := rec.Policy()
	if policy.Marker != "" {
		fmt.Fprintf(w, "Policy: %s (marker %q)\n\n", policy.Name, policy.Marker)
	} else {
		fmt.Fprintf(w, "Policy: %s\n\n", policy.Name)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "STOCK\tUNITS\tVALUE\tINFLOW\tOUTFLOW\tBALANCE\tCHECKED\t")
	for _, e := range rec.Entries() {
		checked := ""
		if e.Constrained {
			checked = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			e.Stock, e.Units,
			formatAmount(e.Value), formatAmount(e.Inflow), formatAmount(e.Outflow), formatAmount(e.Balance()),
			checked)
	}
	return tw.Flush()
}

// printFailure writes a red summary of every violation in err.
func printFailure(w io.Writer, err error) {
	violations := loader.Flatten(err)
	red := color.New(color.FgRed, color.Bold)
	noun := "problems"
	if len(violations) == 1 {
		noun = "problem"
	}
	red.Fprintf(w, "mankey: %d %s found\n", len(violations), noun)
	for _, v := range violations {
		fmt.Fprintf(w, "  %s %v\n", color.RedString("[%s]", core.Kind(v)), v)
	}
}
