package main

import (
	"github.com/spf13/cobra"

	"github.com/bobmcallan/finmodel/internal/charts"
	"github.com/bobmcallan/finmodel/internal/models"
)

var (
	simIterations int
	simSeed       uint64
	simWorkers    int
	fanChartPath  string
)

// dcfCmd values a company by discounted free cash flow
var dcfCmd = &cobra.Command{
	Use:   "dcf",
	Short: "Discounted cash flow valuation with sensitivity grid",
	Long: `Value a company from an assumptions scenario.

The scenario holds "assumptions" and an optional "wacc" capital structure.
With --use-stored --company ID, assumptions are derived from the company's
statements first; any scenario file then overrides individual fields.`,
	Args: cobra.NoArgs,
	RunE: runDCF,
}

// simulateCmd runs a Monte Carlo projection
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Monte Carlo projection of revenue, net income and NPV",
	Long: `Run a Monte Carlo simulation from a scenario file.

--chart writes an NPV histogram; --fan-chart writes the yearly revenue
percentile bands. With --use-stored --company ID, the starting revenue and
operating expenses come from the latest stored statement.`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&simIterations, "iterations", 0, "Trials (overrides the scenario)")
	simulateCmd.Flags().Uint64Var(&simSeed, "seed", 0, "Random seed for a reproducible run")
	simulateCmd.Flags().IntVar(&simWorkers, "workers", 0, "Parallel workers")
	simulateCmd.Flags().StringVar(&fanChartPath, "fan-chart", "", "Write a revenue fan chart PNG to this path")
}

func runDCF(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, saveRun || useStored)
	if err != nil {
		return err
	}
	defer a.Close()

	var req models.DCFRequest
	if useStored {
		svc, err := requireFinancials(a)
		if err != nil {
			return err
		}
		if req.Assumptions, err = svc.ValuationAssumptions(commandContext(cmd), companyID); err != nil {
			return err
		}
	}
	if err := loadScenario(&req, !useStored); err != nil {
		return err
	}

	run, err := a.AnalysisService.Valuate(commandContext(cmd), runOptions(), req)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), run)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, saveRun || useStored)
	if err != nil {
		return err
	}
	defer a.Close()

	var spec models.SimulationSpec
	if useStored {
		svc, err := requireFinancials(a)
		if err != nil {
			return err
		}
		if spec.Base, err = svc.SimulationBase(commandContext(cmd), companyID); err != nil {
			return err
		}
	}
	if err := loadScenario(&spec, true); err != nil {
		return err
	}
	if simIterations > 0 {
		spec.Iterations = simIterations
	}
	if simSeed != 0 {
		spec.Seed = simSeed
	}
	if simWorkers > 0 {
		spec.Workers = simWorkers
	}

	run, err := a.AnalysisService.Simulate(commandContext(cmd), runOptions(), spec)
	if err != nil {
		return err
	}
	if err := writeChart(cmd, chartPath, func() ([]byte, error) {
		return charts.RenderHistogram(run.Result.NPV)
	}); err != nil {
		return err
	}
	if err := writeChart(cmd, fanChartPath, func() ([]byte, error) {
		return charts.RenderFanChart(run.Result.YearBands)
	}); err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), run)
}
