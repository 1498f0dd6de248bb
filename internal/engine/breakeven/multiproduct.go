package breakeven

import (
	"github.com/bobmcallan/finmodel/internal/models"
)

// MultiProduct computes the break-even of a sales mix.
//
// Mix percentages are normalised by their sum; when they are all zero every
// product gets an equal share. Individual products may carry a negative
// margin as long as the weighted contribution margin stays positive.
func MultiProduct(mm models.MultiProductModel) (models.MultiProductResult, error) {
	if len(mm.Products) == 0 {
		return models.MultiProductResult{}, models.InsufficientData("products", "at least one product is required")
	}
	if mm.FixedCosts < 0 {
		return models.MultiProductResult{}, models.InvalidAssumption("fixed_costs", "must not be negative, got %g", mm.FixedCosts)
	}

	totalMix := 0.0
	for _, p := range mm.Products {
		if p.Price <= 0 {
			return models.MultiProductResult{}, models.InvalidAssumption("price", "product %q must have a positive price", p.Name)
		}
		if p.SalesMixPct < 0 {
			return models.MultiProductResult{}, models.InvalidAssumption("sales_mix_pct", "product %q has negative mix", p.Name)
		}
		totalMix += p.SalesMixPct
	}

	fractions := make([]float64, len(mm.Products))
	for i, p := range mm.Products {
		if totalMix == 0 {
			fractions[i] = 1 / float64(len(mm.Products))
		} else {
			fractions[i] = p.SalesMixPct / totalMix
		}
	}

	var res models.MultiProductResult
	for i, p := range mm.Products {
		res.WeightedContributionMargin += fractions[i] * (p.Price - p.VariableCost)
		res.WeightedPrice += fractions[i] * p.Price
	}
	if res.WeightedContributionMargin <= 0 {
		return models.MultiProductResult{}, models.InvalidAssumption("products",
			"weighted contribution margin %g is not positive", res.WeightedContributionMargin)
	}
	res.WeightedCMRatio = res.WeightedContributionMargin / res.WeightedPrice

	composite := (mm.FixedCosts + mm.TargetProfit) / res.WeightedContributionMargin
	res.BreakEvenUnits = ceilUnits(composite)
	res.BreakEvenRevenue = composite * res.WeightedPrice

	res.Products = make([]models.ProductBreakEven, len(mm.Products))
	for i, p := range mm.Products {
		units := composite * fractions[i]
		res.Products[i] = models.ProductBreakEven{
			Name:               p.Name,
			MixFraction:        fractions[i],
			ContributionMargin: p.Price - p.VariableCost,
			BreakEvenUnits:     ceilUnits(units),
			BreakEvenRevenue:   units * p.Price,
		}
	}
	return res, nil
}
