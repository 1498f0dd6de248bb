// Package capital evaluates capital projects: after-tax cash flows, TVM
// metrics, accept/reject decisions, portfolio selection and sensitivity.
package capital

import (
	"fmt"
	"math"

	"github.com/bobmcallan/finmodel/internal/engine/depreciation"
	"github.com/bobmcallan/finmodel/internal/engine/tvm"
	"github.com/bobmcallan/finmodel/internal/models"
)

// Options tunes decision grading and portfolio solving.
type Options struct {
	// StrongNPVShare is the NPV/investment ratio a STRONG project must exceed.
	StrongNPVShare float64 `toml:"strong_npv_share"`
	// StrongIRRMultiple is the IRR/hurdle ratio a STRONG project must exceed.
	StrongIRRMultiple float64 `toml:"strong_irr_multiple"`
	// ExactLimit is the largest candidate set the exact portfolio solver accepts.
	ExactLimit int `toml:"exact_limit"`
	// SensitivitySteps are the percentage perturbations applied per variable.
	SensitivitySteps []float64 `toml:"sensitivity_steps"`
}

// MaxExactLimit bounds ExactLimit; the exact solver enumerates 2^n subsets.
const MaxExactLimit = 25

// DefaultOptions returns the standard grading thresholds.
func DefaultOptions() Options {
	return Options{
		StrongNPVShare:    0.2,
		StrongIRRMultiple: 1.5,
		ExactLimit:        20,
		SensitivitySteps:  []float64{-20, -10, 10, 20},
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.StrongNPVShare <= 0 {
		o.StrongNPVShare = d.StrongNPVShare
	}
	if o.StrongIRRMultiple <= 0 {
		o.StrongIRRMultiple = d.StrongIRRMultiple
	}
	if o.ExactLimit <= 0 {
		o.ExactLimit = d.ExactLimit
	}
	if o.ExactLimit > MaxExactLimit {
		o.ExactLimit = MaxExactLimit
	}
	if len(o.SensitivitySteps) == 0 {
		o.SensitivitySteps = d.SensitivitySteps
	}
	return o
}

func validate(p models.Project) error {
	if len(p.CashFlows) == 0 {
		return models.InsufficientData("cash_flows", "project %q has no cash flows", p.Name)
	}
	if p.InitialInvestment <= 0 {
		return models.InvalidAssumption("initial_investment", "must be positive, got %g", p.InitialInvestment)
	}
	if p.DiscountRatePct <= -100 {
		return models.InvalidAssumption("discount_rate_pct", "must be above -100, got %g", p.DiscountRatePct)
	}
	if p.TaxRatePct < 0 || p.TaxRatePct >= 100 {
		return models.InvalidAssumption("tax_rate_pct", "must be in [0, 100), got %g", p.TaxRatePct)
	}
	return nil
}

// AfterTaxCashFlows converts nominal project flows into after-tax flows.
//
// Depreciation runs over LifeYears (the flow count when unset) on the initial
// investment. Each year pays tax on max(0, flow - depreciation); salvage is
// added to the final year.
func AfterTaxCashFlows(p models.Project) ([]float64, []models.DepreciationEntry, error) {
	if err := validate(p); err != nil {
		return nil, nil, err
	}

	life := p.LifeYears
	if life <= 0 {
		life = len(p.CashFlows)
	}
	schedule, err := depreciation.Schedule(p.DepreciationMethod, p.InitialInvestment, p.SalvageValue, life)
	if err != nil {
		return nil, nil, fmt.Errorf("depreciation for %q: %w", p.Name, err)
	}

	taxRate := p.TaxRatePct / 100
	out := make([]float64, len(p.CashFlows))
	for i, cf := range p.CashFlows {
		dep := 0.0
		if i < len(schedule) {
			dep = schedule[i].Charge
		}
		out[i] = cf - math.Max(0, cf-dep)*taxRate
	}
	out[len(out)-1] += p.SalvageValue

	return out, schedule, nil
}

// Evaluate computes every TVM metric for a project and classifies it.
func Evaluate(p models.Project, opts Options) (models.ProjectEvaluation, error) {
	opts = opts.withDefaults()

	flows, schedule, err := AfterTaxCashFlows(p)
	if err != nil {
		return models.ProjectEvaluation{}, err
	}

	rate := p.DiscountRatePct / 100
	series := tvm.Series(p.InitialInvestment, flows)

	npv, err := tvm.NPV(rate, series)
	if err != nil {
		return models.ProjectEvaluation{}, err
	}
	irr, err := tvm.IRR(series)
	if err != nil {
		return models.ProjectEvaluation{}, err
	}

	financeRate, reinvestRate := rate, rate
	if p.FinanceRatePct != nil {
		financeRate = *p.FinanceRatePct / 100
	}
	if p.ReinvestRatePct != nil {
		reinvestRate = *p.ReinvestRatePct / 100
	}
	mirr, err := tvm.MIRR(p.InitialInvestment, flows, financeRate, reinvestRate)
	if err != nil {
		return models.ProjectEvaluation{}, err
	}

	payback, err := tvm.PaybackPeriod(p.InitialInvestment, flows)
	if err != nil {
		return models.ProjectEvaluation{}, err
	}
	discounted, err := tvm.DiscountedPaybackPeriod(p.InitialInvestment, flows, rate)
	if err != nil {
		return models.ProjectEvaluation{}, err
	}
	pi, err := tvm.ProfitabilityIndex(p.InitialInvestment, flows, rate)
	if err != nil {
		return models.ProjectEvaluation{}, err
	}
	eaa, err := tvm.EquivalentAnnualAnnuity(npv, rate, len(flows))
	if err != nil {
		return models.ProjectEvaluation{}, err
	}

	return models.ProjectEvaluation{
		Project:                 p.Name,
		AfterTaxCashFlows:       flows,
		Depreciation:            schedule,
		NPV:                     npv,
		IRR:                     irr,
		IRRPct:                  irr.Percent(),
		MIRRPct:                 mirr * 100,
		Payback:                 payback,
		DiscountedPayback:       discounted,
		ProfitabilityIndex:      pi,
		EquivalentAnnualAnnuity: eaa,
		Decision:                Classify(npv, irr, p.DiscountRatePct, p.InitialInvestment, opts),
	}, nil
}

// Classify applies the accept rule (NPV > 0 and IRR above the hurdle) and
// grades its strength. hurdlePct is the discount rate in percent.
func Classify(npv float64, irr models.RateResult, hurdlePct, investment float64, opts Options) models.Decision {
	opts = opts.withDefaults()
	irrPct := irr.Percent()

	var reasons []string
	if npv > 0 {
		reasons = append(reasons, fmt.Sprintf("NPV %.2f is positive", npv))
	} else {
		reasons = append(reasons, fmt.Sprintf("NPV %.2f is not positive", npv))
	}
	if irrPct > hurdlePct {
		reasons = append(reasons, fmt.Sprintf("IRR %.2f%% exceeds hurdle %.2f%%", irrPct, hurdlePct))
	} else {
		reasons = append(reasons, fmt.Sprintf("IRR %.2f%% does not exceed hurdle %.2f%%", irrPct, hurdlePct))
	}
	if !irr.Converged {
		reasons = append(reasons, "IRR did not converge; rate is a best estimate")
	}

	d := models.Decision{Recommendation: models.RecommendReject, Strength: models.StrengthWeak, Reasons: reasons}
	if npv > 0 && irrPct > hurdlePct {
		d.Recommendation = models.RecommendAccept
		d.Strength = models.StrengthModerate
		if npv > opts.StrongNPVShare*investment && irrPct > opts.StrongIRRMultiple*hurdlePct {
			d.Strength = models.StrengthStrong
		}
	}
	return d
}
