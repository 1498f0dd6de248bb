package capital

import (
	"sort"

	"github.com/bobmcallan/finmodel/internal/models"
)

var projectVariables = []models.SensitivityVariable{
	models.SensitivityInvestment,
	models.SensitivityCashFlows,
	models.SensitivityDiscountRate,
}

// Sensitivity recomputes NPV and IRR while perturbing one input at a time by
// each of opts.SensitivitySteps percent, and ranks the inputs by NPV swing.
func Sensitivity(p models.Project, opts Options) (models.ProjectSensitivity, error) {
	opts = opts.withDefaults()

	base, err := Evaluate(p, opts)
	if err != nil {
		return models.ProjectSensitivity{}, err
	}

	out := models.ProjectSensitivity{
		Project:    p.Name,
		BaseNPV:    base.NPV,
		BaseIRRPct: base.IRRPct,
	}

	for _, v := range projectVariables {
		bar := models.TornadoBar{Variable: v, LowNPV: base.NPV, HighNPV: base.NPV}
		for _, step := range opts.SensitivitySteps {
			e, err := Evaluate(perturb(p, v, step), opts)
			if err != nil {
				return models.ProjectSensitivity{}, err
			}
			out.Points = append(out.Points, models.SensitivityPoint{
				Variable:     v,
				ChangePct:    step,
				NPV:          e.NPV,
				IRRPct:       e.IRRPct,
				IRRConverged: e.IRR.Converged,
			})
			if e.NPV < bar.LowNPV {
				bar.LowNPV = e.NPV
			}
			if e.NPV > bar.HighNPV {
				bar.HighNPV = e.NPV
			}
		}
		bar.Range = bar.HighNPV - bar.LowNPV
		out.Tornado = append(out.Tornado, bar)
	}

	sort.SliceStable(out.Tornado, func(a, b int) bool {
		return out.Tornado[a].Range > out.Tornado[b].Range
	})
	return out, nil
}

func perturb(p models.Project, v models.SensitivityVariable, changePct float64) models.Project {
	factor := 1 + changePct/100
	switch v {
	case models.SensitivityInvestment:
		p.InitialInvestment *= factor
		if p.SalvageValue > p.InitialInvestment {
			p.SalvageValue = p.InitialInvestment
		}
	case models.SensitivityCashFlows:
		flows := make([]float64, len(p.CashFlows))
		for i, cf := range p.CashFlows {
			flows[i] = cf * factor
		}
		p.CashFlows = flows
	case models.SensitivityDiscountRate:
		p.DiscountRatePct *= factor
	}
	return p
}
