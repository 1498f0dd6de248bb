package app

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bobmcallan/finmodel/internal/common"
	"github.com/bobmcallan/finmodel/internal/interfaces"
	"github.com/bobmcallan/finmodel/internal/models"
)

// LoadScenario decodes a YAML or JSON scenario file into v. Unknown fields are rejected.
func LoadScenario(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read scenario %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("failed to parse scenario %s: %w", path, err)
	}
	return nil
}

type statementsFile struct {
	Statements []models.FinancialStatement `yaml:"statements"`
}

// ImportStatementsFromFile reads a statements file and saves every statement.
// companyID, when set, overrides the company on each statement.
// Returns the number imported.
func ImportStatementsFromFile(ctx context.Context, svc interfaces.FinancialsService, logger *common.Logger, path, companyID string) (int, error) {
	var file statementsFile
	if err := LoadScenario(path, &file); err != nil {
		return 0, err
	}
	if len(file.Statements) == 0 {
		return 0, fmt.Errorf("no statements in %s", path)
	}
	if companyID != "" {
		for i := range file.Statements {
			file.Statements[i].CompanyID = companyID
		}
	}

	n, err := svc.ImportStatements(ctx, file.Statements)
	if err != nil {
		return n, err
	}
	logger.Info().Str("file", path).Int("imported", n).Msg("Statements imported from file")
	return n, nil
}

// projectRates mirrors the rate fields of a project; nil means absent.
type projectRates struct {
	DiscountRatePct *float64 `yaml:"discount_rate_pct"`
	TaxRatePct      *float64 `yaml:"tax_rate_pct"`
}

func (r projectRates) given() models.RatesGiven {
	return models.RatesGiven{DiscountRate: r.DiscountRatePct != nil, TaxRate: r.TaxRatePct != nil}
}

func readRates(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read scenario %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse scenario %s: %w", path, err)
	}
	return nil
}

// ProjectRatesGiven reports which rates a single-project scenario sets.
func ProjectRatesGiven(path string) (models.RatesGiven, error) {
	var r projectRates
	if err := readRates(path, &r); err != nil {
		return models.RatesGiven{}, err
	}
	return r.given(), nil
}

// PortfolioRatesGiven reports which rates each project of a portfolio scenario sets, in file order.
func PortfolioRatesGiven(path string) ([]models.RatesGiven, error) {
	var file struct {
		Projects []projectRates `yaml:"projects"`
	}
	if err := readRates(path, &file); err != nil {
		return nil, err
	}
	given := make([]models.RatesGiven, len(file.Projects))
	for i, r := range file.Projects {
		given[i] = r.given()
	}
	return given, nil
}
