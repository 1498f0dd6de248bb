// Package valuation implements CAPM/WACC and a two-stage discounted cash flow
// valuation with a Gordon-growth terminal value.
package valuation

import (
	"github.com/bobmcallan/finmodel/internal/models"
)

// WACC computes the weighted average cost of capital.
//
//	Ke   = Rf + beta * MRP
//	Kd   = pre-tax Kd * (1 - t)
//	WACC = We*Ke + Wd*Kd
//
// Weights are normalised by their sum, so they may be given as percentages or
// fractions.
func WACC(in models.WACCInput) (models.WACCResult, error) {
	if in.EquityWeightPct < 0 || in.DebtWeightPct < 0 {
		return models.WACCResult{}, models.InvalidAssumption("weights", "must not be negative")
	}
	total := in.EquityWeightPct + in.DebtWeightPct
	if total <= 0 {
		return models.WACCResult{}, models.InvalidAssumption("weights", "equity and debt weights sum to zero")
	}
	if in.TaxRatePct < 0 || in.TaxRatePct > 100 {
		return models.WACCResult{}, models.InvalidAssumption("tax_rate_pct", "must be in [0, 100], got %g", in.TaxRatePct)
	}

	we := in.EquityWeightPct / total
	wd := in.DebtWeightPct / total

	ke := in.RiskFreeRatePct + in.Beta*in.MarketRiskPremiumPct
	kd := in.CostOfDebtPct * (1 - in.TaxRatePct/100)

	return models.WACCResult{
		CostOfEquityPct:       ke,
		AfterTaxCostOfDebtPct: kd,
		EquityWeightPct:       we * 100,
		DebtWeightPct:         wd * 100,
		WACCPct:               we*ke + wd*kd,
	}, nil
}

// NetDebt is total liabilities less cash.
func NetDebt(totalLiabilities, cash float64) float64 {
	return totalLiabilities - cash
}
