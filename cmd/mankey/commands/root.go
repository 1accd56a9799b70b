package commands

import (
	"fmt"
	"os"

	"github.com/sakib/mankey/config"
	"github.com/sakib/mankey/logging"
	"github.com/spf13/cobra"
)

// Persistent flag values. Empty means "use the environment or default".
var (
	stocksFile string
	flowsFile  string
	policyName string
	marker     string
	envFile    string
	logLevel   string
	logFile    string
)

// settings is resolved once per invocation in PersistentPreRunE.
var (
	settings  config.Config
	closeLogs = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "mankey",
	Short: "mankey reconciles stocks and flows and draws them as a flow diagram",
	Long: `mankey loads a set of stocks (balances) and flows (periodic transfers),
checks every flow resolves to known stocks, verifies that constrained stocks
can cover their outflow for one period, and renders the result as a sankey
diagram.

Running mankey with no subcommand is the same as 'mankey run'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnvFile(envFile); err != nil {
			return err
		}
		settings = config.FromEnv()
		override(&settings.StocksFile, stocksFile)
		override(&settings.FlowsFile, flowsFile)
		override(&settings.Policy, policyName)
		override(&settings.Marker, marker)
		override(&settings.LogLevel, logLevel)
		override(&settings.LogFile, logFile)

		closer, err := logging.Setup(logging.Options{
			Level:   settings.LogLevel,
			File:    settings.LogFile,
			Console: cmd.ErrOrStderr(),
		})
		if err != nil {
			return err
		}
		closeLogs = closer
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeLogs()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRun(cmd, args)
	},
}

func override(dst *string, flag string) {
	if flag != "" {
		*dst = flag
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printFailure(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&stocksFile, "stocks", "", fmt.Sprintf("Stocks file, JSON or YAML (default: %s env var or %s)", config.EnvStocksFile, config.DefaultStocksFile))
	flags.StringVar(&flowsFile, "flows", "", fmt.Sprintf("Flows file, JSON or YAML (default: %s env var or %s)", config.EnvFlowsFile, config.DefaultFlowsFile))
	flags.StringVar(&policyName, "policy", "", fmt.Sprintf("Balance policy (default: %s env var or %s)", config.EnvPolicy, config.DefaultPolicy))
	flags.StringVar(&marker, "marker", "", fmt.Sprintf("Capacity marker for unclassified stocks (default: %s env var or %s)", config.EnvMarker, config.DefaultMarker))
	flags.StringVar(&envFile, "env-file", "", "Dotenv file to load (default: .env if present)")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVar(&logFile, "log-file", "", "Also write JSON logs to this file")

	rootCmd.Flags().StringVarP(&runOutput, "output", "o", "mankey.html", "Where to write the diagram page")
	rootCmd.Flags().StringVar(&diagramTitle, "title", "mankey", "Diagram title")
}

// AddCommand allows adding subcommands from other files.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}
