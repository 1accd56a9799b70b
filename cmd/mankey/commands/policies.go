package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/sakib/mankey/runtime"
	"github.com/spf13/cobra"
)

var policiesCmd = &cobra.Command{
	Use:   "policies",
	Short: "Lists the available balance policies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tDEFAULT\tDESCRIPTION")
		for _, p := range runtime.ListBalancePolicies() {
			def := ""
			if p.Name == runtime.DefaultBalancePolicy {
				def = "*"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Name, def, p.Description)
		}
		return tw.Flush()
	},
}

func init() {
	AddCommand(policiesCmd)
}
