// Package tvm provides time-value-of-money primitives.
//
// Rates are decimal fractions (0.10 for 10%). A cash-flow series always
// includes period 0, so cf[0] is the signed initial outlay (normally negative).
package tvm

import (
	"math"

	"github.com/bobmcallan/finmodel/internal/models"
)

// Series prepends the initial investment as a negative period-0 flow.
func Series(investment float64, flows []float64) []float64 {
	series := make([]float64, 0, len(flows)+1)
	series = append(series, -math.Abs(investment))
	return append(series, flows...)
}

// NPV returns Σ cf_t / (1+rate)^t for t = 0..n.
func NPV(rate float64, flows []float64) (float64, error) {
	if len(flows) == 0 {
		return 0, models.InsufficientData("cash_flows", "series is empty")
	}
	if rate <= -1 {
		return 0, models.InvalidAssumption("rate", "must be above -100%%, got %g", rate)
	}
	return npv(rate, flows), nil
}

func npv(rate float64, flows []float64) float64 {
	sum := 0.0
	for t, cf := range flows {
		sum += cf / math.Pow(1+rate, float64(t))
	}
	return sum
}

// npvDerivative is d/dr of npv: Σ -t·cf_t / (1+r)^(t+1).
func npvDerivative(rate float64, flows []float64) float64 {
	sum := 0.0
	for t, cf := range flows {
		if t == 0 {
			continue
		}
		sum -= float64(t) * cf / math.Pow(1+rate, float64(t+1))
	}
	return sum
}

// PresentValue discounts flows for periods 1..n back to period 0.
func PresentValue(rate float64, flows []float64) float64 {
	sum := 0.0
	for i, cf := range flows {
		sum += cf / math.Pow(1+rate, float64(i+1))
	}
	return sum
}

// MIRR computes the modified internal rate of return.
//
// flows are periods 1..n. Positive flows are compounded at reinvestRate to
// period n (exponent n-t), negative flows and the investment are discounted at
// financeRate to period 0, and MIRR = (FV/PV)^(1/n) - 1.
func MIRR(investment float64, flows []float64, financeRate, reinvestRate float64) (float64, error) {
	n := len(flows)
	if n == 0 {
		return 0, models.InsufficientData("cash_flows", "series is empty")
	}
	if financeRate <= -1 || reinvestRate <= -1 {
		return 0, models.InvalidAssumption("rate", "finance and reinvest rates must be above -100%%")
	}

	fv := 0.0
	pv := math.Abs(investment)
	for i, cf := range flows {
		period := float64(i + 1)
		switch {
		case cf > 0:
			fv += cf * math.Pow(1+reinvestRate, float64(n)-period)
		case cf < 0:
			pv += -cf / math.Pow(1+financeRate, period)
		}
	}

	if pv == 0 {
		return 0, models.InvalidAssumption("investment", "no outflows to finance")
	}
	return math.Pow(fv/pv, 1/float64(n)) - 1, nil
}

// PaybackPeriod returns the years until cumulative flows reach the investment,
// interpolating linearly inside the recovering year.
func PaybackPeriod(investment float64, flows []float64) (models.PaybackResult, error) {
	return payback(investment, flows, func(_ int, cf float64) float64 { return cf })
}

// DiscountedPaybackPeriod is PaybackPeriod over flows discounted at rate.
func DiscountedPaybackPeriod(investment float64, flows []float64, rate float64) (models.PaybackResult, error) {
	if rate <= -1 {
		return models.PaybackResult{}, models.InvalidAssumption("rate", "must be above -100%%, got %g", rate)
	}
	return payback(investment, flows, func(i int, cf float64) float64 {
		return cf / math.Pow(1+rate, float64(i+1))
	})
}

func payback(investment float64, flows []float64, adjust func(int, float64) float64) (models.PaybackResult, error) {
	if len(flows) == 0 {
		return models.PaybackResult{}, models.InsufficientData("cash_flows", "series is empty")
	}
	target := math.Abs(investment)
	if target == 0 {
		return models.PaybackResult{Years: 0, Recovered: true}, nil
	}

	cumulative := 0.0
	for i, raw := range flows {
		cf := adjust(i, raw)
		prev := cumulative
		cumulative += cf
		if cumulative >= target && cf > 0 {
			return models.PaybackResult{
				Years:     float64(i) + (target-prev)/cf,
				Recovered: true,
			}, nil
		}
	}

	return models.PaybackResult{Years: float64(len(flows) + 1), Recovered: false}, nil
}

// ProfitabilityIndex returns PV(flows) / investment.
func ProfitabilityIndex(investment float64, flows []float64, rate float64) (float64, error) {
	if len(flows) == 0 {
		return 0, models.InsufficientData("cash_flows", "series is empty")
	}
	if investment <= 0 {
		return 0, models.InvalidAssumption("investment", "must be positive, got %g", investment)
	}
	if rate <= -1 {
		return 0, models.InvalidAssumption("rate", "must be above -100%%, got %g", rate)
	}
	return PresentValue(rate, flows) / investment, nil
}

// EquivalentAnnualAnnuity spreads an NPV into a level annual amount over years.
func EquivalentAnnualAnnuity(npv, rate float64, years int) (float64, error) {
	if years <= 0 {
		return 0, models.InsufficientData("years", "must be positive, got %d", years)
	}
	if rate == 0 {
		return npv / float64(years), nil
	}
	if rate <= -1 {
		return 0, models.InvalidAssumption("rate", "must be above -100%%, got %g", rate)
	}
	return npv * rate / (1 - math.Pow(1+rate, -float64(years))), nil
}
