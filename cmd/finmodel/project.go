package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/finmodel/internal/app"
	"github.com/bobmcallan/finmodel/internal/charts"
	"github.com/bobmcallan/finmodel/internal/models"
	"github.com/bobmcallan/finmodel/internal/services/financials"
)

var (
	portfolioBudget float64
	portfolioMethod string
)

// evaluateCmd scores a single capital project
var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate a capital project (NPV, IRR, MIRR, payback, PI)",
	Long: `Evaluate a capital project from a scenario file.

With --use-stored, a discount or tax rate the scenario leaves out is filled
from the configured estimation defaults. A rate written as 0 is kept.`,
	Args: cobra.NoArgs,
	RunE: runEvaluate,
}

// portfolioCmd selects projects under a capital budget
var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Select projects under a capital budget",
	Long: `Rank candidate projects and choose the subset that fits the budget.

The scenario holds budget, method (greedy_pi or exact) and projects. --budget
and --method override the file.`,
	Args: cobra.NoArgs,
	RunE: runPortfolio,
}

// sensitivityCmd sweeps project NPV over one-at-a-time perturbations
var sensitivityCmd = &cobra.Command{
	Use:   "sensitivity",
	Short: "Project NPV sensitivity and tornado ranking",
	Args:  cobra.NoArgs,
	RunE:  runSensitivity,
}

func init() {
	portfolioCmd.Flags().Float64Var(&portfolioBudget, "budget", 0, "Capital budget (overrides the scenario)")
	portfolioCmd.Flags().StringVar(&portfolioMethod, "method", "", "Selection method: greedy_pi or exact")
}

// applyProjectDefaults fills the rates the scenario file leaves out; an
// explicit zero rate is kept.
func applyProjectDefaults(p *models.Project, d models.EstimationDefaults) error {
	given, err := app.ProjectRatesGiven(scenarioFile)
	if err != nil {
		return err
	}
	financials.ApplyProjectDefaults(p, given, d)
	return nil
}

func loadProject() (models.Project, error) {
	var p models.Project
	if err := loadScenario(&p, true); err != nil {
		return p, err
	}
	return p, nil
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	p, err := loadProject()
	if err != nil {
		return err
	}

	a, err := openApp(cmd, saveRun)
	if err != nil {
		return err
	}
	defer a.Close()

	if useStored {
		if err := applyProjectDefaults(&p, a.Config.Estimation); err != nil {
			return err
		}
	}
	run, err := a.AnalysisService.EvaluateProject(commandContext(cmd), runOptions(), p)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), run)
}

func runPortfolio(cmd *cobra.Command, args []string) error {
	var req models.PortfolioRequest
	if err := loadScenario(&req, true); err != nil {
		return err
	}
	if portfolioBudget > 0 {
		req.Budget = portfolioBudget
	}
	if portfolioMethod != "" {
		req.Method = models.PortfolioMethod(portfolioMethod)
	}
	if len(req.Projects) == 0 {
		return fmt.Errorf("no projects in %s", scenarioFile)
	}

	a, err := openApp(cmd, saveRun)
	if err != nil {
		return err
	}
	defer a.Close()

	if useStored {
		given, err := app.PortfolioRatesGiven(scenarioFile)
		if err != nil {
			return err
		}
		for i := range req.Projects {
			financials.ApplyProjectDefaults(&req.Projects[i], given[i], a.Config.Estimation)
		}
	}
	run, err := a.AnalysisService.SelectPortfolio(commandContext(cmd), runOptions(), req)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), run)
}

func runSensitivity(cmd *cobra.Command, args []string) error {
	p, err := loadProject()
	if err != nil {
		return err
	}

	a, err := openApp(cmd, saveRun)
	if err != nil {
		return err
	}
	defer a.Close()

	if useStored {
		if err := applyProjectDefaults(&p, a.Config.Estimation); err != nil {
			return err
		}
	}
	run, err := a.AnalysisService.ProjectSensitivity(commandContext(cmd), runOptions(), p)
	if err != nil {
		return err
	}
	if err := writeChart(cmd, chartPath, func() ([]byte, error) {
		return charts.RenderTornado(run.Result)
	}); err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), run)
}
