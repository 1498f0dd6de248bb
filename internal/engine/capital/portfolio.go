package capital

import (
	"sort"

	"github.com/bobmcallan/finmodel/internal/models"
)

// Candidate builds a portfolio candidate from an evaluated project.
func Candidate(p models.Project, e models.ProjectEvaluation) models.PortfolioCandidate {
	return models.PortfolioCandidate{
		Name:               p.Name,
		Investment:         p.InitialInvestment,
		NPV:                e.NPV,
		ProfitabilityIndex: e.ProfitabilityIndex,
	}
}

// EvaluatePortfolio evaluates each project and selects a subset under budget.
func EvaluatePortfolio(projects []models.Project, budget float64, method models.PortfolioMethod, opts Options) (models.PortfolioSelection, []models.ProjectEvaluation, error) {
	if len(projects) == 0 {
		return models.PortfolioSelection{}, nil, models.InsufficientData("projects", "no projects to select from")
	}
	evals := make([]models.ProjectEvaluation, len(projects))
	candidates := make([]models.PortfolioCandidate, len(projects))
	for i, p := range projects {
		e, err := Evaluate(p, opts)
		if err != nil {
			return models.PortfolioSelection{}, nil, err
		}
		evals[i] = e
		candidates[i] = Candidate(p, e)
	}
	sel, err := SelectPortfolio(candidates, budget, method, opts)
	if err != nil {
		return models.PortfolioSelection{}, nil, err
	}
	return sel, evals, nil
}

// SelectPortfolio picks projects under a capital budget.
//
// Only candidates with positive NPV are admitted. PortfolioGreedy sorts by
// profitability index and admits each candidate that still fits; it is a
// heuristic for the 0/1 knapsack problem and can miss the optimum.
// PortfolioExact enumerates every subset and returns the maximum-NPV one; it
// refuses more than opts.ExactLimit eligible candidates.
func SelectPortfolio(candidates []models.PortfolioCandidate, budget float64, method models.PortfolioMethod, opts Options) (models.PortfolioSelection, error) {
	opts = opts.withDefaults()
	if budget < 0 {
		return models.PortfolioSelection{}, models.InvalidAssumption("budget", "must not be negative, got %g", budget)
	}
	if method == "" {
		method = models.PortfolioGreedy
	}

	var eligible []int
	for i, c := range candidates {
		if c.Investment <= 0 {
			return models.PortfolioSelection{}, models.InvalidAssumption("investment", "candidate %q must have positive investment", c.Name)
		}
		if c.NPV > 0 {
			eligible = append(eligible, i)
		}
	}

	var chosen map[int]bool
	switch method {
	case models.PortfolioGreedy:
		chosen = greedy(candidates, eligible, budget)
	case models.PortfolioExact:
		if len(eligible) > opts.ExactLimit {
			return models.PortfolioSelection{}, models.InvalidAssumption("method",
				"exact selection supports at most %d positive-NPV candidates, got %d", opts.ExactLimit, len(eligible))
		}
		chosen = exact(candidates, eligible, budget)
	default:
		return models.PortfolioSelection{}, models.InvalidAssumption("method", "unknown portfolio method %q", method)
	}

	sel := models.PortfolioSelection{
		Method:   method,
		Budget:   budget,
		Selected: []models.PortfolioCandidate{},
		Excluded: []models.PortfolioCandidate{},
	}
	for i, c := range candidates {
		if chosen[i] {
			sel.Selected = append(sel.Selected, c)
			sel.TotalInvestment += c.Investment
			sel.TotalNPV += c.NPV
		} else {
			sel.Excluded = append(sel.Excluded, c)
		}
	}
	sortByPI(sel.Selected)
	sel.RemainingBudget = budget - sel.TotalInvestment
	return sel, nil
}

func sortByPI(cs []models.PortfolioCandidate) {
	sort.SliceStable(cs, func(a, b int) bool {
		if cs[a].ProfitabilityIndex != cs[b].ProfitabilityIndex {
			return cs[a].ProfitabilityIndex > cs[b].ProfitabilityIndex
		}
		return cs[a].NPV > cs[b].NPV
	})
}

func greedy(candidates []models.PortfolioCandidate, eligible []int, budget float64) map[int]bool {
	order := append([]int(nil), eligible...)
	sort.SliceStable(order, func(a, b int) bool {
		ca, cb := candidates[order[a]], candidates[order[b]]
		if ca.ProfitabilityIndex != cb.ProfitabilityIndex {
			return ca.ProfitabilityIndex > cb.ProfitabilityIndex
		}
		return ca.NPV > cb.NPV
	})

	chosen := make(map[int]bool)
	remaining := budget
	for _, i := range order {
		if candidates[i].Investment <= remaining {
			chosen[i] = true
			remaining -= candidates[i].Investment
		}
	}
	return chosen
}

// exact tries all 2^n subsets. Ties on NPV prefer the cheaper subset.
func exact(candidates []models.PortfolioCandidate, eligible []int, budget float64) map[int]bool {
	n := len(eligible)
	bestMask := 0
	bestNPV, bestCost := 0.0, 0.0
	for mask := 1; mask < 1<<n; mask++ {
		cost, npv := 0.0, 0.0
		for bit := 0; bit < n; bit++ {
			if mask&(1<<bit) != 0 {
				c := candidates[eligible[bit]]
				cost += c.Investment
				npv += c.NPV
			}
		}
		if cost > budget {
			continue
		}
		if npv > bestNPV || (npv == bestNPV && cost < bestCost) {
			bestMask, bestNPV, bestCost = mask, npv, cost
		}
	}

	chosen := make(map[int]bool)
	for bit := 0; bit < n; bit++ {
		if bestMask&(1<<bit) != 0 {
			chosen[eligible[bit]] = true
		}
	}
	return chosen
}
