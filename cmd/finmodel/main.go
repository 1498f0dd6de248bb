package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/finmodel/internal/app"
	"github.com/bobmcallan/finmodel/internal/common"
	"github.com/bobmcallan/finmodel/internal/interfaces"
	"github.com/bobmcallan/finmodel/internal/storage"
)

var (
	// Global flags
	configPath   string
	scenarioFile string
	companyID    string
	useStored    bool
	saveRun      bool
	chartPath    string
	noBanner     bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "finmodel",
	Short: "finmodel - financial modeling and simulation engine",
	Long: `finmodel evaluates capital projects, values companies by discounted cash
flow, runs Monte Carlo projections, solves cost-volume-profit break-even and
analyses the working capital cycle.

Inputs are YAML or JSON scenario files. With --use-stored, inputs are derived
from financial statements imported with "finmodel statement import".
Results are printed as indented JSON.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: finmodel.toml next to the binary)")
	rootCmd.PersistentFlags().StringVarP(&scenarioFile, "file", "f", "", "Scenario file (.yaml or .json)")
	rootCmd.PersistentFlags().StringVar(&companyID, "company", "", "Company ID for stored statements and saved runs")
	rootCmd.PersistentFlags().BoolVar(&useStored, "use-stored", false, "Derive inputs from stored financial statements")
	rootCmd.PersistentFlags().BoolVar(&saveRun, "save", false, "Save the run to analysis history")
	rootCmd.PersistentFlags().StringVar(&chartPath, "chart", "", "Write a PNG chart to this path")
	rootCmd.PersistentFlags().BoolVar(&noBanner, "no-banner", false, "Suppress the startup banner")

	rootCmd.AddCommand(
		evaluateCmd,
		portfolioCmd,
		sensitivityCmd,
		dcfCmd,
		simulateCmd,
		breakEvenCmd,
		workingCapitalCmd,
		forecastCmd,
		statementCmd,
		historyCmd,
		versionCmd,
	)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// commandContext returns the command's context, falling back to Background
// when the command is invoked directly.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// openApp initialises the app. Storage is opened only when withStorage is set.
func openApp(cmd *cobra.Command, withStorage bool) (*app.App, error) {
	a, err := app.NewApp(commandContext(cmd), app.Options{
		ConfigPath:  configPath,
		WithStorage: withStorage,
	})
	if err != nil {
		return nil, err
	}
	if !noBanner {
		common.PrintBanner(cmd.ErrOrStderr(), a.Config, a.Logger)
	}
	return a, nil
}

func runOptions() interfaces.RunOptions {
	return interfaces.RunOptions{CompanyID: companyID, Save: saveRun}
}

// requireFinancials guards commands that read stored statements.
func requireFinancials(a *app.App) (interfaces.FinancialsService, error) {
	if companyID == "" {
		return nil, fmt.Errorf("--use-stored requires --company")
	}
	if a.FinancialsService == nil {
		return nil, fmt.Errorf("storage is not open")
	}
	return a.FinancialsService, nil
}

// loadScenario decodes the -f file into v. When required is false and no
// file was given, v is left untouched.
func loadScenario(v any, required bool) error {
	if scenarioFile == "" {
		if required {
			return fmt.Errorf("scenario file required (-f)")
		}
		return nil
	}
	return app.LoadScenario(scenarioFile, v)
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// writeChart renders a PNG and writes it atomically to path.
func writeChart(cmd *cobra.Command, path string, render func() ([]byte, error)) error {
	if path == "" {
		return nil
	}
	png, err := render()
	if err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	if err := storage.WriteFileAtomic(path, png); err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Chart written to %s\n", path)
	return nil
}
