package montecarlo

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/bobmcallan/finmodel/internal/models"
)

// HistogramBins is the number of equal-width buckets per output.
const HistogramBins = 50

func aggregate(spec models.SimulationSpec, trials []trial) models.SimulationResult {
	n := len(trials)
	years := spec.ProjectionYears

	finalRevenue := make([]float64, n)
	finalNI := make([]float64, n)
	cumulative := make([]float64, n)
	npv := make([]float64, n)
	for i, t := range trials {
		finalRevenue[i] = t.revenue[years-1]
		finalNI[i] = t.netIncome[years-1]
		cumulative[i] = t.cumulativeNetIncome()
		npv[i] = t.npv
	}

	res := models.SimulationResult{
		Iterations:          n,
		ProjectionYears:     years,
		Seed:                spec.Seed,
		FinalRevenue:        Summarize("final_revenue", finalRevenue),
		FinalNetIncome:      Summarize("final_net_income", finalNI),
		CumulativeNetIncome: Summarize("cumulative_net_income", cumulative),
		NPV:                 Summarize("npv", npv),
		Probabilities: models.Probabilities{
			Profit:      fractionAbove(finalNI, 0),
			PositiveNPV: fractionAbove(npv, 0),
		},
		Risk:      tailRisk(finalNI),
		YearBands: make([]models.YearBand, years),
	}

	revenue := make([]float64, n)
	income := make([]float64, n)
	for y := 0; y < years; y++ {
		for i, t := range trials {
			revenue[i] = t.revenue[y]
			income[i] = t.netIncome[y]
		}
		sort.Float64s(revenue)
		sort.Float64s(income)
		res.YearBands[y] = models.YearBand{
			Year:         y + 1,
			RevenueP5:    Percentile(revenue, 5),
			RevenueP50:   Percentile(revenue, 50),
			RevenueP95:   Percentile(revenue, 95),
			NetIncomeP5:  Percentile(income, 5),
			NetIncomeP50: Percentile(income, 50),
			NetIncomeP95: Percentile(income, 95),
		}
	}
	return res
}

// Summarize computes moments, percentiles and a histogram for one output.
func Summarize(name string, values []float64) models.OutputDistribution {
	out := models.OutputDistribution{Name: name}
	if len(values) == 0 {
		return out
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	// stats only errors on empty input, which is handled above
	mean, _ := stats.Mean(sorted)
	median, _ := stats.Median(sorted)
	sd, _ := stats.StandardDeviationPopulation(sorted)

	out.Statistics = models.DistributionStats{
		Mean:     mean,
		Median:   median,
		StdDev:   sd,
		Skewness: skewness(sorted, mean, sd),
		Min:      sorted[0],
		Max:      sorted[len(sorted)-1],
	}
	out.Percentiles = models.Percentiles{
		P5:  Percentile(sorted, 5),
		P10: Percentile(sorted, 10),
		P25: Percentile(sorted, 25),
		P50: Percentile(sorted, 50),
		P75: Percentile(sorted, 75),
		P90: Percentile(sorted, 90),
		P95: Percentile(sorted, 95),
	}
	out.Histogram = Histogram(sorted, HistogramBins)
	return out
}

// Percentile interpolates linearly between closest ranks of sorted values.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 || p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[n-1]
	}
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	frac := rank - float64(lo)
	if lo+1 >= n {
		return sorted[n-1]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// Histogram buckets sorted values into equal-width bins spanning [min, max].
// When every value is equal a single bin holds them all.
func Histogram(sorted []float64, bins int) []models.HistogramBin {
	n := len(sorted)
	if n == 0 || bins <= 0 {
		return nil
	}
	lo, hi := sorted[0], sorted[n-1]
	if hi == lo {
		return []models.HistogramBin{{Lower: lo, Upper: hi, Count: n, Frequency: 1}}
	}

	width := (hi - lo) / float64(bins)
	out := make([]models.HistogramBin, bins)
	for i := range out {
		out[i].Lower = lo + float64(i)*width
		out[i].Upper = lo + float64(i+1)*width
	}
	out[bins-1].Upper = hi

	for _, v := range sorted {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		out[idx].Count++
	}
	for i := range out {
		out[i].Frequency = float64(out[i].Count) / float64(n)
	}
	return out
}

func skewness(values []float64, mean, sd float64) float64 {
	if sd == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		z := (v - mean) / sd
		sum += z * z * z
	}
	return sum / float64(len(values))
}

func fractionAbove(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := 0
	for _, v := range values {
		if v > threshold {
			count++
		}
	}
	return float64(count) / float64(len(values))
}

// tailRisk reports VaR at 95% and 99% as the 5th and 1st percentiles of net
// income, and expected shortfall as the mean of outcomes at or below VaR95.
func tailRisk(netIncome []float64) models.TailRisk {
	sorted := append([]float64(nil), netIncome...)
	sort.Float64s(sorted)

	risk := models.TailRisk{
		VaR95: Percentile(sorted, 5),
		VaR99: Percentile(sorted, 1),
	}
	sum, count := 0.0, 0
	for _, v := range sorted {
		if v > risk.VaR95 {
			break
		}
		sum += v
		count++
	}
	if count > 0 {
		risk.ExpectedShortfall = sum / float64(count)
	}
	return risk
}
