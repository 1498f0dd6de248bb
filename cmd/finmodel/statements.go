package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/finmodel/internal/app"
	"github.com/bobmcallan/finmodel/internal/common"
)

var historyLimit int

// statementCmd groups financial statement commands
var statementCmd = &cobra.Command{
	Use:   "statement",
	Short: "Import and list stored financial statements",
}

var statementImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import statements from a file",
	Long: `Import financial statements from a YAML or JSON file with a top-level
"statements" list. --company overrides the company on every statement.
Statements replace any stored for the same company and fiscal year.`,
	Args: cobra.NoArgs,
	RunE: runStatementImport,
}

var statementListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a company's statements, oldest first",
	Args:  cobra.NoArgs,
	RunE:  runStatementList,
}

// historyCmd lists saved analysis runs
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved analyses, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <analysis-id>",
	Short: "Delete one saved analysis",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

var historyPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete every saved analysis for all companies",
	Args:  cobra.NoArgs,
	RunE:  runHistoryPurge,
}

// versionCmd prints build information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		common.LoadVersionFromFile()
		return printJSON(cmd.OutOrStdout(), common.GetVersionInfo())
	},
}

func init() {
	statementCmd.AddCommand(statementImportCmd, statementListCmd)
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum analyses to list (0 for all)")
	historyCmd.AddCommand(historyDeleteCmd, historyPurgeCmd)
}

func runStatementImport(cmd *cobra.Command, args []string) error {
	if scenarioFile == "" {
		return fmt.Errorf("statements file required (-f)")
	}

	a, err := openApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := app.ImportStatementsFromFile(commandContext(cmd), a.FinancialsService, a.Logger, scenarioFile, companyID)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), map[string]any{
		"file":     scenarioFile,
		"imported": n,
	})
}

func runStatementList(cmd *cobra.Command, args []string) error {
	if companyID == "" {
		return fmt.Errorf("--company is required")
	}

	a, err := openApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()

	statements, err := a.FinancialsService.ListStatements(commandContext(cmd), companyID)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), statements)
}

func runHistory(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()

	analyses, err := a.AnalysisService.History(commandContext(cmd), companyID, historyLimit)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), analyses)
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.AnalysisService.DeleteAnalysis(commandContext(cmd), companyID, args[0]); err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), map[string]any{"deleted": args[0]})
}

func runHistoryPurge(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.Storage.PurgeAnalyses(commandContext(cmd))
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), map[string]any{"purged": n})
}
