package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/finmodel/internal/common"
	"github.com/bobmcallan/finmodel/internal/interfaces"
	"github.com/bobmcallan/finmodel/internal/models"
)

const projectYAML = `
name: plant expansion
initial_investment: 1000000
cash_flows: [300000, 300000, 300000, 300000, 300000]
discount_rate_pct: 10
life_years: 5
tax_rate_pct: 25
depreciation_method: straight_line
`

const statementsYAML = `
statements:
  - company_id: acme
    fiscal_year: 2023
    revenue: 1000000
  - company_id: acme
    fiscal_year: 2024
    revenue: 1100000
    cogs: 600000
    operating_expenses: 200000
    net_income: 150000
    units_sold: 10000
    current_assets: 400000
    accounts_receivable: 120000
    inventory: 80000
    accounts_payable: 50000
    total_liabilities: 300000
    shares_outstanding: 1000
`

// resetFlags restores every package-level flag after the test.
func resetFlags(t *testing.T) {
	t.Helper()
	reset := func() {
		configPath, scenarioFile, companyID, chartPath = "", "", "", ""
		useStored, saveRun = false, false
		noBanner = true
		portfolioBudget, portfolioMethod = 0, ""
		simIterations, simSeed, simWorkers, fanChartPath = 0, 0, 0, ""
		historyLimit = 20
	}
	reset()
	t.Cleanup(reset)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// setupWorkspace writes a config with an isolated badger store and points
// --config at it.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	resetFlags(t)
	dir := t.TempDir()
	configPath = writeFile(t, dir, "finmodel.toml", `
environment = "test"

[logging]
level = "error"

[storage]
backend = "badger"
path = "`+filepath.ToSlash(filepath.Join(dir, "data"))+`"

[simulation]
iterations = 300
workers = 2
`)
	return dir
}

// execute runs fn with a fresh command whose output is captured.
func execute(t *testing.T, fn func(*cobra.Command, []string) error, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := fn(cmd, args)
	return out.String(), err
}

func decode[T any](t *testing.T, out string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(out), &v), "output: %s", out)
	return v
}

func TestEvaluate_PrintsRun(t *testing.T) {
	dir := setupWorkspace(t)
	scenarioFile = writeFile(t, dir, "plant.yaml", projectYAML)

	out, err := execute(t, runEvaluate)
	require.NoError(t, err)

	run := decode[models.Run[models.ProjectEvaluation]](t, out)
	assert.Equal(t, models.AnalysisProject, run.Kind)
	assert.Empty(t, run.AnalysisID)
	assert.Equal(t, "plant expansion", run.Result.Project)
	assert.Len(t, run.Result.AfterTaxCashFlows, 5)
}

func TestEvaluate_UseStoredKeepsExplicitZeroRate(t *testing.T) {
	dir := setupWorkspace(t)
	base := `
name: plant expansion
initial_investment: 1000000
cash_flows: [300000, 300000, 300000, 300000, 300000]
life_years: 5
depreciation_method: straight_line
`
	useStored = true

	scenarioFile = writeFile(t, dir, "untaxed.yaml", base+"tax_rate_pct: 0\n")
	out, err := execute(t, runEvaluate)
	require.NoError(t, err)
	run := decode[models.Run[models.ProjectEvaluation]](t, out)
	assert.Equal(t, []float64{300000, 300000, 300000, 300000, 300000}, run.Result.AfterTaxCashFlows)

	scenarioFile = writeFile(t, dir, "defaulted.yaml", base)
	out, err = execute(t, runEvaluate)
	require.NoError(t, err)
	run = decode[models.Run[models.ProjectEvaluation]](t, out)
	assert.InDelta(t, 275000, run.Result.AfterTaxCashFlows[0], 1e-6)
}

func TestEvaluate_RequiresScenario(t *testing.T) {
	setupWorkspace(t)

	_, err := execute(t, runEvaluate)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "-f")
}

func TestEvaluate_RejectsUnknownField(t *testing.T) {
	dir := setupWorkspace(t)
	scenarioFile = writeFile(t, dir, "plant.yaml", projectYAML+"discount: 10\n")

	_, err := execute(t, runEvaluate)
	require.Error(t, err)
}

func TestPortfolio_FlagsOverrideScenario(t *testing.T) {
	dir := setupWorkspace(t)
	scenarioFile = writeFile(t, dir, "portfolio.yaml", `
budget: 10000000
projects:
  - name: plant
    initial_investment: 1000000
    cash_flows: [300000, 300000, 300000, 300000, 300000]
    discount_rate_pct: 10
    life_years: 5
    tax_rate_pct: 25
    depreciation_method: straight_line
  - name: fleet
    initial_investment: 400000
    cash_flows: [150000, 150000, 150000, 150000]
    discount_rate_pct: 10
    life_years: 4
    tax_rate_pct: 25
    depreciation_method: straight_line
`)
	portfolioBudget = 1_200_000
	portfolioMethod = string(models.PortfolioExact)

	out, err := execute(t, runPortfolio)
	require.NoError(t, err)

	run := decode[models.Run[models.PortfolioReport]](t, out)
	assert.Equal(t, models.PortfolioExact, run.Result.Selection.Method)
	assert.Equal(t, 1_200_000.0, run.Result.Selection.Budget)
	assert.LessOrEqual(t, run.Result.Selection.TotalInvestment, 1_200_000.0)
	assert.Len(t, run.Result.Evaluations, 2)
}

func TestSensitivity_WritesTornadoChart(t *testing.T) {
	dir := setupWorkspace(t)
	scenarioFile = writeFile(t, dir, "plant.yaml", projectYAML)
	chartPath = filepath.Join(dir, "charts", "tornado.png")

	out, err := execute(t, runSensitivity)
	require.NoError(t, err)

	run := decode[models.Run[models.ProjectSensitivity]](t, out)
	assert.Equal(t, models.AnalysisSensitivity, run.Kind)

	png, err := os.ReadFile(chartPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestSimulate_SeedFlagIsReproducible(t *testing.T) {
	dir := setupWorkspace(t)
	scenarioFile = writeFile(t, dir, "sim.yaml", `
projection_years: 3
base:
  revenue: 1000000
  operating_expenses: 200000
  initial_investment: 500000
variables:
  revenue_growth: {mean: 8, std: 4, min: -10, max: 25}
  cost_ratio: {mean: 60, std: 5, min: 40, max: 80}
  opex_growth: {mean: 3, std: 1, min: 0, max: 8}
  discount_rate: {mean: 10, std: 1, min: 6, max: 14}
`)
	simSeed = 42
	chartPath = filepath.Join(dir, "npv.png")
	fanChartPath = filepath.Join(dir, "fan.png")

	first, err := execute(t, runSimulate)
	require.NoError(t, err)
	second, err := execute(t, runSimulate)
	require.NoError(t, err)

	run := decode[models.Run[models.SimulationResult]](t, first)
	assert.Equal(t, 300, run.Result.Iterations, "iterations come from config")
	assert.Equal(t, uint64(42), run.Result.Seed)
	assert.Len(t, run.Result.YearBands, 3)
	assert.JSONEq(t, first, second)

	assert.FileExists(t, chartPath)
	assert.FileExists(t, fanChartPath)
}

func TestBreakEven_MultiProductScenario(t *testing.T) {
	dir := setupWorkspace(t)
	scenarioFile = writeFile(t, dir, "mix.yaml", `
fixed_costs: 120000
products:
  - {name: basic, price: 50, variable_cost: 30, sales_mix_pct: 60}
  - {name: premium, price: 100, variable_cost: 40, sales_mix_pct: 40}
`)

	out, err := execute(t, runBreakEven)
	require.NoError(t, err)

	run := decode[models.Run[models.MultiProductResult]](t, out)
	assert.Equal(t, models.AnalysisProductMix, run.Kind)
	require.Len(t, run.Result.Products, 2)
	assert.Equal(t, "basic", run.Result.Products[0].Name)
}

func TestForecast_PrintsMonths(t *testing.T) {
	dir := setupWorkspace(t)
	scenarioFile = writeFile(t, dir, "cash.json", `{
  "opening_cash": 50000,
  "months": 3,
  "monthly_revenue": [100000],
  "monthly_expenses": [90000],
  "collection_rates": [0.5, 0.5],
  "payment_rates": [1.0]
}`)

	out, err := execute(t, runForecast)
	require.NoError(t, err)

	run := decode[models.Run[models.CashForecast]](t, out)
	assert.Equal(t, models.AnalysisCashForecast, run.Kind)
}

func TestStatements_ImportThenUseStored(t *testing.T) {
	dir := setupWorkspace(t)
	scenarioFile = writeFile(t, dir, "acme.yaml", statementsYAML)

	out, err := execute(t, runStatementImport)
	require.NoError(t, err)
	assert.Contains(t, out, `"imported": 2`)

	scenarioFile = ""
	companyID = "acme"
	out, err = execute(t, runStatementList)
	require.NoError(t, err)
	statements := decode[[]models.FinancialStatement](t, out)
	require.Len(t, statements, 2)
	assert.Equal(t, 2023, statements[0].FiscalYear)

	useStored, saveRun = true, true
	out, err = execute(t, runBreakEven)
	require.NoError(t, err)
	run := decode[models.Run[models.BreakEvenAnalysis]](t, out)
	assert.NotEmpty(t, run.AnalysisID)
	assert.Equal(t, "acme", run.CompanyID)
	assert.Equal(t, 60.0, run.Result.Model.VariableCostPerUnit)
	assert.Equal(t, 110.0, run.Result.Model.SellingPrice)
	assert.Equal(t, int64(2800), run.Result.Result.BreakEvenUnits)

	useStored, saveRun = false, false
	out, err = execute(t, runHistory)
	require.NoError(t, err)
	history := decode[[]models.Analysis](t, out)
	require.Len(t, history, 1)
	assert.Equal(t, run.AnalysisID, history[0].ID)
	assert.Equal(t, models.AnalysisBreakEven, history[0].Kind)
}

func TestHistory_DeleteAndPurge(t *testing.T) {
	dir := setupWorkspace(t)
	scenarioFile = writeFile(t, dir, "cash.yaml", `
opening_cash: 1000
months: 2
monthly_revenue: [500]
monthly_expenses: [400]
collection_rates: [1]
payment_rates: [1]
`)
	saveRun = true
	var ids []string
	for i := 0; i < 2; i++ {
		out, err := execute(t, runForecast)
		require.NoError(t, err)
		ids = append(ids, decode[models.Run[models.CashForecast]](t, out).AnalysisID)
	}
	saveRun = false

	out, err := execute(t, runHistoryDelete, ids[0])
	require.NoError(t, err)
	assert.Contains(t, out, ids[0])

	_, err = execute(t, runHistoryDelete, ids[0])
	assert.ErrorIs(t, err, interfaces.ErrNotFound)

	out, err = execute(t, runHistory)
	require.NoError(t, err)
	history := decode[[]models.Analysis](t, out)
	require.Len(t, history, 1)
	assert.Equal(t, ids[1], history[0].ID)

	out, err = execute(t, runHistoryPurge)
	require.NoError(t, err)
	assert.Contains(t, out, `"purged": 1`)

	out, err = execute(t, runHistory)
	require.NoError(t, err)
	assert.Empty(t, decode[[]models.Analysis](t, out))
}

func TestDCF_UseStoredWithOverrides(t *testing.T) {
	dir := setupWorkspace(t)
	scenarioFile = writeFile(t, dir, "acme.yaml", statementsYAML)
	_, err := execute(t, runStatementImport)
	require.NoError(t, err)

	scenarioFile = writeFile(t, dir, "dcf.yaml", "assumptions:\n  wacc_pct: 9\n")
	companyID = "acme"
	useStored = true

	out, err := execute(t, runDCF)
	require.NoError(t, err)

	run := decode[models.Run[models.DCFReport]](t, out)
	assert.Equal(t, models.AnalysisValuation, run.Kind)
	assert.Nil(t, run.Result.WACC)
}

func TestUseStored_RequiresCompany(t *testing.T) {
	setupWorkspace(t)
	useStored = true

	_, err := execute(t, runWorkingCapital)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--company")
}

func TestVersion_PrintsBuildInfo(t *testing.T) {
	resetFlags(t)

	out, err := execute(t, versionCmd.RunE)
	require.NoError(t, err)

	info := decode[common.VersionInfo](t, out)
	assert.Equal(t, common.Version, info.Version)
}

func TestRootCommand_RegistersCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"evaluate", "portfolio", "sensitivity", "dcf", "simulate",
		"breakeven", "workingcapital", "forecast", "statement", "history", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}
