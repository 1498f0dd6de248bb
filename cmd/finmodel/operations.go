package main

import (
	"github.com/spf13/cobra"

	"github.com/bobmcallan/finmodel/internal/models"
)

// breakEvenCmd solves single or multi-product break-even
var breakEvenCmd = &cobra.Command{
	Use:   "breakeven",
	Short: "Cost-volume-profit break-even analysis",
	Long: `Solve break-even for a single product, or for a sales mix when the
scenario lists "products". Single-product runs include a sensitivity sweep
and any target profit or margin solution.`,
	Args: cobra.NoArgs,
	RunE: runBreakEven,
}

// workingCapitalCmd analyses the cash conversion cycle
var workingCapitalCmd = &cobra.Command{
	Use:     "workingcapital",
	Aliases: []string{"wc"},
	Short:   "Cash conversion cycle and release opportunities",
	Args:    cobra.NoArgs,
	RunE:    runWorkingCapital,
}

// forecastCmd projects monthly cash
var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Monthly cash forecast with collection and payment lags",
	Args:  cobra.NoArgs,
	RunE:  runForecast,
}

// breakEvenScenario accepts either model shape; Products selects the mix solver.
type breakEvenScenario struct {
	models.BreakEvenModel `yaml:",inline"`
	Products              []models.Product `yaml:"products,omitempty"`
}

func runBreakEven(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, saveRun || useStored)
	if err != nil {
		return err
	}
	defer a.Close()

	var scenario breakEvenScenario
	if useStored {
		svc, err := requireFinancials(a)
		if err != nil {
			return err
		}
		if scenario.BreakEvenModel, err = svc.BreakEvenModel(commandContext(cmd), companyID); err != nil {
			return err
		}
	}
	if err := loadScenario(&scenario, !useStored); err != nil {
		return err
	}

	ctx := commandContext(cmd)
	if len(scenario.Products) > 0 {
		run, err := a.AnalysisService.MultiProductBreakEven(ctx, runOptions(), models.MultiProductModel{
			FixedCosts:   scenario.FixedCosts,
			TargetProfit: scenario.TargetProfit,
			Products:     scenario.Products,
		})
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), run)
	}

	run, err := a.AnalysisService.BreakEven(ctx, runOptions(), scenario.BreakEvenModel)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), run)
}

func runWorkingCapital(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, saveRun || useStored)
	if err != nil {
		return err
	}
	defer a.Close()

	var m models.WorkingCapitalModel
	if useStored {
		svc, err := requireFinancials(a)
		if err != nil {
			return err
		}
		if m, err = svc.WorkingCapitalModel(commandContext(cmd), companyID); err != nil {
			return err
		}
	}
	if err := loadScenario(&m, !useStored); err != nil {
		return err
	}

	run, err := a.AnalysisService.WorkingCapital(commandContext(cmd), runOptions(), m)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), run)
}

func runForecast(cmd *cobra.Command, args []string) error {
	var spec models.CashForecastSpec
	if err := loadScenario(&spec, true); err != nil {
		return err
	}

	a, err := openApp(cmd, saveRun)
	if err != nil {
		return err
	}
	defer a.Close()

	run, err := a.AnalysisService.CashForecast(commandContext(cmd), runOptions(), spec)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), run)
}
