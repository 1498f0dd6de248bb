package tvm

import (
	"math"

	"github.com/bobmcallan/finmodel/internal/models"
)

const (
	// DefaultGuess is the Newton-Raphson starting rate.
	DefaultGuess = 0.10
	// StepTolerance stops iteration once |Δr| falls below it.
	StepTolerance = 1e-7
	// MaxIterations caps Newton-Raphson.
	MaxIterations = 1000

	minRate = -0.999 // rate can't go below -99.9%
	maxRate = 100.0  // 10000% cap

	bisectLow   = -0.99
	bisectHigh  = 10.0
	bisectSteps = 200
	bisectIter  = 200

	MethodNewton    = "newton"
	MethodBisection = "bisection"
)

// IRR solves NPV(r) = 0 starting from DefaultGuess.
func IRR(flows []float64) (models.RateResult, error) {
	return IRRWithGuess(flows, DefaultGuess)
}

// IRRWithGuess solves NPV(r) = 0 by Newton-Raphson with an analytic derivative.
//
// If Newton-Raphson stalls (zero derivative, clamped step, or the iteration cap)
// a bracketed bisection over [-99%, 1000%] is tried. If both fail, the iterate
// with the smallest |NPV| is returned with Converged = false; series with no
// sign change or several roots typically end up there.
func IRRWithGuess(flows []float64, guess float64) (models.RateResult, error) {
	if len(flows) < 2 {
		return models.RateResult{}, models.InsufficientData("cash_flows", "need at least two periods, got %d", len(flows))
	}
	if guess <= -1 {
		guess = DefaultGuess
	}

	best := models.RateResult{Rate: guess, Method: MethodNewton}
	bestAbs := math.Inf(1)

	rate := guess
	iter := 0
	for iter < MaxIterations {
		iter++
		f := npv(rate, flows)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			break
		}
		if a := math.Abs(f); a < bestAbs {
			bestAbs = a
			best.Rate = rate
			best.Iterations = iter
		}

		df := npvDerivative(rate, flows)
		if df == 0 || math.IsNaN(df) || math.IsInf(df, 0) {
			break
		}

		next := rate - f/df
		clamped := false
		if next < minRate {
			next, clamped = minRate, true
		}
		if next > maxRate {
			next, clamped = maxRate, true
		}

		if !clamped && math.Abs(next-rate) < StepTolerance {
			return models.RateResult{Rate: next, Converged: true, Iterations: iter, Method: MethodNewton}, nil
		}
		if clamped && next == rate {
			break
		}
		rate = next
	}

	if root, n, ok := bisect(flows); ok {
		return models.RateResult{Rate: root, Converged: true, Iterations: iter + n, Method: MethodBisection}, nil
	}

	best.Converged = false
	best.Iterations = iter
	return best, nil
}

// bisect scans [bisectLow, bisectHigh] for the first sign change and bisects it.
func bisect(flows []float64) (float64, int, bool) {
	step := (bisectHigh - bisectLow) / bisectSteps
	lo := bisectLow
	fLo := npv(lo, flows)
	if math.IsNaN(fLo) || math.IsInf(fLo, 0) {
		return 0, 0, false
	}

	for i := 1; i <= bisectSteps; i++ {
		hi := bisectLow + float64(i)*step
		fHi := npv(hi, flows)
		if math.IsNaN(fHi) || math.IsInf(fHi, 0) {
			return 0, 0, false
		}
		if fHi == 0 {
			return hi, 0, true
		}
		if fLo*fHi < 0 {
			for n := 1; n <= bisectIter; n++ {
				mid := (lo + hi) / 2
				fMid := npv(mid, flows)
				if fMid == 0 || (hi-lo)/2 < StepTolerance*1e-3 {
					return mid, n, true
				}
				if fLo*fMid < 0 {
					hi = mid
				} else {
					lo, fLo = mid, fMid
				}
			}
			return (lo + hi) / 2, bisectIter, true
		}
		lo, fLo = hi, fHi
	}
	return 0, 0, false
}
