// Package breakeven implements cost-volume-profit analysis.
package breakeven

import (
	"math"

	"github.com/bobmcallan/finmodel/internal/models"
)

// DefaultSteps are the percentage perturbations used by Sensitivity.
var DefaultSteps = []float64{-20, -10, 10, 20}

// ceilUnits rounds up, ignoring float noise just above an integer.
func ceilUnits(x float64) int64 {
	return int64(math.Ceil(x - 1e-9*math.Max(1, math.Abs(x))))
}

func contributionMargin(m models.BreakEvenModel) (float64, error) {
	if m.SellingPrice <= 0 {
		return 0, models.InvalidAssumption("selling_price", "must be positive, got %g", m.SellingPrice)
	}
	if m.FixedCosts < 0 {
		return 0, models.InvalidAssumption("fixed_costs", "must not be negative, got %g", m.FixedCosts)
	}
	cm := m.SellingPrice - m.VariableCostPerUnit
	if cm <= 0 {
		return 0, models.InvalidAssumption("selling_price",
			"price %g must exceed variable cost %g", m.SellingPrice, m.VariableCostPerUnit)
	}
	return cm, nil
}

// Profit is operating profit at a sales volume.
func Profit(m models.BreakEvenModel, units float64) float64 {
	return units*(m.SellingPrice-m.VariableCostPerUnit) - m.FixedCosts
}

// Analyze computes the break-even point for fixed costs plus any target profit.
//
// With ExpectedUnits set it also reports margin of safety against the
// zero-profit break-even and degree of operating leverage; leverage is nil
// when operating income at the expected volume is not positive.
func Analyze(m models.BreakEvenModel) (models.BreakEvenResult, error) {
	cm, err := contributionMargin(m)
	if err != nil {
		return models.BreakEvenResult{}, err
	}

	exact := (m.FixedCosts + m.TargetProfit) / cm
	res := models.BreakEvenResult{
		BreakEvenUnits:          ceilUnits(exact),
		BreakEvenRevenue:        exact * m.SellingPrice,
		ContributionMargin:      cm,
		ContributionMarginRatio: cm / m.SellingPrice,
	}

	if m.ExpectedUnits > 0 {
		contribution := m.ExpectedUnits * cm
		income := contribution - m.FixedCosts
		res.ProfitAtExpected = &income

		mosUnits := m.ExpectedUnits - m.FixedCosts/cm
		res.MarginOfSafety = &models.MarginOfSafety{
			Units:   mosUnits,
			Revenue: mosUnits * m.SellingPrice,
			Pct:     mosUnits / m.ExpectedUnits * 100,
		}
		if income > 0 {
			dol := contribution / income
			res.OperatingLeverage = &dol
		}
	}
	return res, nil
}

// SolveTargetProfit returns the volume needed to earn profit.
func SolveTargetProfit(m models.BreakEvenModel, profit float64) (models.TargetSolution, error) {
	cm, err := contributionMargin(m)
	if err != nil {
		return models.TargetSolution{}, err
	}
	exact := (m.FixedCosts + profit) / cm
	if exact < 0 {
		exact = 0
	}
	return models.TargetSolution{
		Kind:            models.TargetProfit,
		Target:          profit,
		RequiredUnits:   ceilUnits(exact),
		RequiredRevenue: exact * m.SellingPrice,
	}, nil
}

// SolveTargetMargin returns the volume at which profit is marginPct of revenue:
// units = F / (cm - price*margin). It fails when the margin is not below the
// contribution margin ratio, where no volume reaches it.
func SolveTargetMargin(m models.BreakEvenModel, marginPct float64) (models.TargetSolution, error) {
	cm, err := contributionMargin(m)
	if err != nil {
		return models.TargetSolution{}, err
	}
	denom := cm - m.SellingPrice*marginPct/100
	if denom <= 0 {
		return models.TargetSolution{}, models.InvalidAssumption("target_margin_pct",
			"margin %g%% is not below the contribution margin ratio %.4g%%", marginPct, cm/m.SellingPrice*100)
	}
	exact := m.FixedCosts / denom
	return models.TargetSolution{
		Kind:            models.TargetMargin,
		Target:          marginPct,
		RequiredUnits:   ceilUnits(exact),
		RequiredRevenue: exact * m.SellingPrice,
	}, nil
}

// Sensitivity recomputes break-even units with price, variable cost and fixed
// costs each perturbed by steps percent. Perturbations that leave no positive
// contribution margin are reported as undefined.
func Sensitivity(m models.BreakEvenModel, steps []float64) ([]models.BreakEvenSensitivityPoint, error) {
	if len(steps) == 0 {
		steps = DefaultSteps
	}
	base, err := Analyze(m)
	if err != nil {
		return nil, err
	}

	var points []models.BreakEvenSensitivityPoint
	for _, v := range []models.SensitivityVariable{
		models.SensitivityPrice,
		models.SensitivityVariableCost,
		models.SensitivityFixedCosts,
	} {
		for _, step := range steps {
			p := models.BreakEvenSensitivityPoint{Variable: v, ChangePct: step}
			r, err := Analyze(perturb(m, v, step))
			if err == nil {
				p.Defined = true
				p.BreakEvenUnits = r.BreakEvenUnits
				if base.BreakEvenUnits != 0 {
					p.ChangeFromBasePct = float64(r.BreakEvenUnits-base.BreakEvenUnits) / float64(base.BreakEvenUnits) * 100
				}
			}
			points = append(points, p)
		}
	}
	return points, nil
}

func perturb(m models.BreakEvenModel, v models.SensitivityVariable, changePct float64) models.BreakEvenModel {
	factor := 1 + changePct/100
	switch v {
	case models.SensitivityPrice:
		m.SellingPrice *= factor
	case models.SensitivityVariableCost:
		m.VariableCostPerUnit *= factor
	case models.SensitivityFixedCosts:
		m.FixedCosts *= factor
	}
	return m
}

// Analysis runs Analyze and Sensitivity and solves any targets on the model.
func Analysis(m models.BreakEvenModel, steps []float64) (models.BreakEvenAnalysis, error) {
	res, err := Analyze(m)
	if err != nil {
		return models.BreakEvenAnalysis{}, err
	}
	sens, err := Sensitivity(m, steps)
	if err != nil {
		return models.BreakEvenAnalysis{}, err
	}

	out := models.BreakEvenAnalysis{Model: m, Result: res, Sensitivity: sens}
	if m.TargetProfit > 0 {
		sol, err := SolveTargetProfit(m, m.TargetProfit)
		if err != nil {
			return models.BreakEvenAnalysis{}, err
		}
		out.Targets = append(out.Targets, sol)
	}
	if m.TargetMarginPct > 0 {
		sol, err := SolveTargetMargin(m, m.TargetMarginPct)
		if err != nil {
			return models.BreakEvenAnalysis{}, err
		}
		out.Targets = append(out.Targets, sol)
	}
	return out, nil
}
