package commands

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/sakib/mankey/config"
	"github.com/sakib/mankey/core"
	"github.com/sakib/mankey/loader"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the CLI in a fresh working directory with no MANKEY_*
// variables leaking in from the environment.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	for _, key := range []string{
		config.EnvStocksFile, config.EnvFlowsFile, config.EnvPolicy, config.EnvMarker,
		config.EnvLogLevel, config.EnvLogFile, config.EnvAddr, config.EnvEnv,
	} {
		t.Setenv(key, "")
	}
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestInitThenRun(t *testing.T) {
	t.Chdir(t.TempDir())

	out, _, err := execute(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join("data", "stocks.json"))
	assert.FileExists(t, filepath.Join("data", "flows.json"))

	out, _, err = execute(t)
	require.NoError(t, err)
	assert.Contains(t, out, "Policy: class")
	assert.Contains(t, out, "PNC Checking")
	assert.Contains(t, out, "2,950.00", "checking: 2500 + 6000 - 5550")
	assert.Contains(t, out, "Wrote mankey.html")

	page, err := os.ReadFile("mankey.html")
	require.NoError(t, err)
	assert.Contains(t, string(page), "Plotly.newPlot")

	_, _, err = execute(t, "run", "--output", "budget.html", "--title", "Budget")
	require.NoError(t, err)
	page, err = os.ReadFile("budget.html")
	require.NoError(t, err)
	assert.Contains(t, string(page), "<title>Budget</title>")
}

func TestInitRefusesOverwrite(t *testing.T) {
	t.Chdir(t.TempDir())
	_, _, err := execute(t, "init", "sets")
	require.NoError(t, err)

	_, _, err = execute(t, "init", "sets")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = execute(t, "init", "sets", "--force")
	assert.NoError(t, err)

	_, _, err = execute(t, "init", "--format", "toml")
	assert.ErrorContains(t, err, "unknown record format")
}

func TestInitYAMLThenValidate(t *testing.T) {
	t.Chdir(t.TempDir())
	_, _, err := execute(t, "init", "budget", "--format", "yaml")
	require.NoError(t, err)

	out, _, err := execute(t, "validate", "--stocks", "budget/stocks.yaml", "--flows", "budget/flows.yaml", "--policy", "strict")
	require.NoError(t, err)
	assert.Contains(t, out, "7 stocks validated successfully")
	assert.Contains(t, out, "Reconciled 7 stocks and 7 flows under the strict policy")
}

func TestSampleDatasetRoundTrips(t *testing.T) {
	t.Chdir(t.TempDir())
	_, _, err := execute(t, "init")
	require.NoError(t, err)

	ds, err := loader.NewLoader(nil).Load("data/stocks.json", "data/flows.json")
	require.NoError(t, err)
	stocks, flows := sampleDataset()
	assert.Equal(t, stocks, ds.Stocks)
	assert.Equal(t, flows, ds.Flows)
}

func TestDiagramFormats(t *testing.T) {
	t.Chdir(t.TempDir())
	_, _, err := execute(t, "init")
	require.NoError(t, err)

	out, _, err := execute(t, "diagram", "--format", "mermaid", "--title", "Budget")
	require.NoError(t, err)
	assert.Contains(t, out, "title: Budget")
	assert.Contains(t, out, "Employer,PNC Checking,6000.00\n")
	assert.Contains(t, out, "PNC Savings,Brokerage,250.00\n")

	out, _, err = execute(t, "diagram", "--format", "dot")
	require.NoError(t, err)
	assert.Contains(t, out, `n0 -> n1 [label="salary: 6000.00"`)

	_, errOut, err := execute(t, "diagram", "--format", "excalidraw", "-o", "budget.excalidraw")
	require.NoError(t, err)
	assert.Contains(t, errOut, "Wrote excalidraw diagram to budget.excalidraw")
	assert.FileExists(t, "budget.excalidraw")

	_, _, err = execute(t, "diagram", "--format", "svg")
	assert.ErrorContains(t, err, "unknown diagram format")
}

const unbalancedStocks = `[
  {"name": "PNC Checking", "units": "USD", "value": 10},
  {"name": "Rent", "units": "USD"}
]`

const unbalancedFlows = `[{"src_name": "PNC Checking", "dst_name": "Rent", "val": 20}]`

func TestRunReportsBalanceViolation(t *testing.T) {
	t.Chdir(t.TempDir())
	writeFile(t, "data/stocks.json", unbalancedStocks)
	writeFile(t, "data/flows.json", unbalancedFlows)

	_, _, err := execute(t, "run")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrBalance))
	assert.NoFileExists(t, "mankey.html")

	var be *core.BalanceError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, "PNC Checking", be.Stock)
	assert.Equal(t, 0.0, be.Inflow)
	assert.Equal(t, 20.0, be.Outflow)

	var summary bytes.Buffer
	printFailure(&summary, err)
	assert.Contains(t, summary.String(), "mankey: 1 problem found")
	assert.Contains(t, summary.String(), "[balance]")

	// the marker decides which stocks are checked
	_, _, err = execute(t, "run", "--marker", "Chase")
	assert.NoError(t, err)
}

func TestViolationsAreReportedTogether(t *testing.T) {
	t.Chdir(t.TempDir())
	writeFile(t, "s.json", `[{"name": "A", "value": 5, "color": "Mauve"}, {"name": "B"}]`)
	writeFile(t, "f.json", `[{"src_name": "A", "dst_name": "Nowhere", "val": 1}]`)

	_, _, err := execute(t, "validate", "--stocks", "s.json", "--flows", "f.json")
	require.Error(t, err)

	violations := loader.Flatten(err)
	require.Len(t, violations, 2)
	kinds := []core.ErrorKind{core.Kind(violations[0]), core.Kind(violations[1])}
	assert.ElementsMatch(t, []core.ErrorKind{core.KindValidation, core.KindResolution}, kinds)

	var summary bytes.Buffer
	printFailure(&summary, err)
	assert.Contains(t, summary.String(), "2 problems found")
	assert.Contains(t, summary.String(), "Mauve")
	assert.Contains(t, summary.String(), "Nowhere")
}

func TestValidateReportsBadRecords(t *testing.T) {
	t.Chdir(t.TempDir())
	writeFile(t, "s.json", `[{"name": "A", "value": 5}]`)
	writeFile(t, "f.json", `[{"src_name": "A", "dst_name": "A", "val": 1, "pct": 2}]`)

	out, _, err := execute(t, "validate", "--stocks", "s.json", "--flows", "f.json")
	require.Error(t, err)
	assert.Contains(t, out, "Error validating file f.json")
	assert.Contains(t, out, "field pct")
}

func TestValidateCountsEveryViolation(t *testing.T) {
	t.Chdir(t.TempDir())
	writeFile(t, "s.json", `[{"name": "A"}, {"name": "B", "color": "Nope"}, {"name": "B"}]`)
	writeFile(t, "f.json", `[{"src_name": "A", "dst_name": "B"}, {"src_name": "A", "dst_name": "B", "val": 1, "pct": 2}]`)

	out, _, err := execute(t, "validate", "--stocks", "s.json", "--flows", "f.json")
	require.Error(t, err)
	assert.Contains(t, out, "3 stocks validated successfully")
	assert.Contains(t, out, "Error checking stocks in s.json")
	assert.Contains(t, out, "duplicates stock[1]")

	violations := loader.Flatten(err)
	require.Len(t, violations, 4)
	for _, v := range violations {
		assert.Equal(t, core.KindValidation, core.Kind(v), v.Error())
	}

	var summary bytes.Buffer
	printFailure(&summary, err)
	assert.Contains(t, summary.String(), "mankey: 4 problems found")
	assert.Contains(t, summary.String(), "Nope")
	assert.NotContains(t, summary.String(), "[other]")
}

func TestEnvFileConfiguresPaths(t *testing.T) {
	t.Chdir(t.TempDir())
	writeFile(t, "in/stocks.json", unbalancedStocks)
	writeFile(t, "in/flows.json", unbalancedFlows)
	writeFile(t, "test.env", "MANKEY_STOCKS_FILE=in/stocks.json\nMANKEY_FLOWS_FILE=in/flows.json\nMANKEY_POLICY=marker\nMANKEY_CAPACITY_MARKER=Rent\n")

	// execute blanks the variables, so the env file must not override them;
	// unset them instead to let the file apply.
	resetFlags(rootCmd)
	for _, key := range []string{config.EnvStocksFile, config.EnvFlowsFile, config.EnvPolicy, config.EnvMarker} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"validate", "--env-file", "test.env"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "under the marker policy")
}

func TestPoliciesAndVersion(t *testing.T) {
	out, _, err := execute(t, "policies")
	require.NoError(t, err)
	assert.Contains(t, out, "class")
	assert.Contains(t, out, "marker")
	assert.Contains(t, out, "strict")

	out, _, err = execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "mankey dev")
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1,234,567.50", formatAmount(1234567.5))
	assert.Equal(t, "0.00", formatAmount(0))
	assert.Equal(t, "inf", formatAmount(core.Unbounded()))
}

func TestDisplayAddr(t *testing.T) {
	assert.Equal(t, "localhost:8080", displayAddr(":8080"))
	assert.Equal(t, "0.0.0.0:9000", displayAddr("0.0.0.0:9000"))
}
