package montecarlo

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/bobmcallan/finmodel/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func dist(mean, std, lo, hi float64) models.Distribution {
	return models.Distribution{Mean: mean, Std: std, Min: lo, Max: hi}
}

func baseSpec() models.SimulationSpec {
	return models.SimulationSpec{
		Iterations:      2000,
		ProjectionYears: 5,
		Seed:            42,
		Workers:         4,
		Base:            models.SimulationBase{Revenue: 1_000_000, OperatingExpenses: 200_000, InitialInvestment: 500_000},
		Variables: models.SimulationVariables{
			RevenueGrowth: dist(10, 5, -20, 40),
			CostRatio:     dist(60, 5, 40, 80),
			OpexGrowth:    dist(5, 2, -5, 15),
			DiscountRate:  dist(10, 2, 5, 15),
		},
	}
}

func degenerate(spec models.SimulationSpec, std float64) models.SimulationSpec {
	spec.Variables.RevenueGrowth.Std = std
	spec.Variables.CostRatio.Std = std
	spec.Variables.OpexGrowth.Std = std
	spec.Variables.DiscountRate.Std = std
	return spec
}

func TestExpectedPath_FirstYear(t *testing.T) {
	spec := baseSpec()
	spec.Base = models.SimulationBase{Revenue: 1000, OperatingExpenses: 200}
	spec.ProjectionYears = 1

	rev, ni, npv, err := ExpectedPath(spec)
	require.NoError(t, err)
	// 1100 revenue, 660 cogs, 210 opex, 230 pre-tax, 25% tax
	assert.InDelta(t, 1100, rev[0], 1e-9)
	assert.InDelta(t, 172.5, ni[0], 1e-9)
	assert.InDelta(t, 172.5/1.1, npv, 1e-9)
}

func TestExpectedPath_NoTaxCreditOnLoss(t *testing.T) {
	spec := baseSpec()
	spec.Base = models.SimulationBase{Revenue: 100, OperatingExpenses: 500}
	spec.ProjectionYears = 1
	_, ni, _, err := ExpectedPath(spec)
	require.NoError(t, err)
	assert.InDelta(t, 110-66-525, ni[0], 1e-9)
}

func TestRun_ZeroStdMatchesExpectedPath(t *testing.T) {
	spec := degenerate(baseSpec(), 0)
	res, err := Run(context.Background(), spec)
	require.NoError(t, err)

	rev, ni, npv, err := ExpectedPath(spec)
	require.NoError(t, err)

	assert.Equal(t, spec.Iterations, res.Iterations)
	assert.InDelta(t, 0, res.FinalNetIncome.Statistics.StdDev, 1e-6)
	assert.InDelta(t, ni[len(ni)-1], res.FinalNetIncome.Statistics.Mean, 1e-6)
	assert.InDelta(t, rev[len(rev)-1], res.FinalRevenue.Statistics.Mean, 1e-6)
	assert.InDelta(t, npv, res.NPV.Statistics.Mean, 1e-6)
	require.Len(t, res.FinalNetIncome.Histogram, 1)
	assert.Equal(t, spec.Iterations, res.FinalNetIncome.Histogram[0].Count)
}

func TestRun_ShrinkingStdConvergesToExpectedPath(t *testing.T) {
	_, ni, _, err := ExpectedPath(baseSpec())
	require.NoError(t, err)
	want := ni[len(ni)-1]

	prevSD := math.Inf(1)
	for _, std := range []float64{2, 0.5, 0.05} {
		res, err := Run(context.Background(), degenerate(baseSpec(), std))
		require.NoError(t, err)
		sd := res.FinalNetIncome.Statistics.StdDev
		assert.Less(t, sd, prevSD, "std %.2f", std)
		prevSD = sd
		if std == 0.05 {
			assert.InDelta(t, want, res.FinalNetIncome.Statistics.Mean, math.Abs(want)*0.005)
		}
	}
}

func TestRun_Aggregates(t *testing.T) {
	spec := baseSpec()
	res, err := Run(context.Background(), spec)
	require.NoError(t, err)

	assert.Equal(t, spec.Iterations, res.Iterations)
	assert.Equal(t, uint64(42), res.Seed)

	for _, out := range []models.OutputDistribution{res.FinalRevenue, res.FinalNetIncome, res.CumulativeNetIncome, res.NPV} {
		p := out.Percentiles
		assert.True(t, p.P5 <= p.P10 && p.P10 <= p.P25 && p.P25 <= p.P50 && p.P50 <= p.P75 && p.P75 <= p.P90 && p.P90 <= p.P95, out.Name)
		assert.LessOrEqual(t, out.Statistics.Min, p.P5, out.Name)
		assert.GreaterOrEqual(t, out.Statistics.Max, p.P95, out.Name)

		require.Len(t, out.Histogram, HistogramBins, out.Name)
		total := 0
		for _, b := range out.Histogram {
			total += b.Count
		}
		assert.Equal(t, spec.Iterations, total, out.Name)
	}

	assert.GreaterOrEqual(t, res.Probabilities.Profit, 0.0)
	assert.LessOrEqual(t, res.Probabilities.Profit, 1.0)
	assert.GreaterOrEqual(t, res.Probabilities.PositiveNPV, 0.0)
	assert.LessOrEqual(t, res.Probabilities.PositiveNPV, 1.0)

	assert.LessOrEqual(t, res.Risk.VaR99, res.Risk.VaR95)
	assert.LessOrEqual(t, res.Risk.ExpectedShortfall, res.Risk.VaR95)
	assert.InDelta(t, res.FinalNetIncome.Percentiles.P5, res.Risk.VaR95, 1e-9)

	require.Len(t, res.YearBands, spec.ProjectionYears)
	for _, b := range res.YearBands {
		assert.LessOrEqual(t, b.RevenueP5, b.RevenueP50)
		assert.LessOrEqual(t, b.RevenueP50, b.RevenueP95)
		assert.LessOrEqual(t, b.NetIncomeP5, b.NetIncomeP95)
	}
}

func TestRun_ReproducibleForSeedAndWorkers(t *testing.T) {
	a, err := Run(context.Background(), baseSpec())
	require.NoError(t, err)
	b, err := Run(context.Background(), baseSpec())
	require.NoError(t, err)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed produced different results (-a +b):\n%s", diff)
	}
}

func TestRun_RandomSeedReported(t *testing.T) {
	spec := baseSpec()
	spec.Seed = 0
	spec.Iterations = 10
	res, err := Run(context.Background(), spec)
	require.NoError(t, err)
	assert.NotZero(t, res.Seed)
}

func TestRun_InvalidDistributions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.SimulationSpec)
	}{
		{"min equals max", func(s *models.SimulationSpec) { s.Variables.CostRatio = dist(60, 5, 60, 60) }},
		{"min above max", func(s *models.SimulationSpec) { s.Variables.RevenueGrowth = dist(10, 5, 40, -20) }},
		{"negative std", func(s *models.SimulationSpec) { s.Variables.OpexGrowth = dist(5, -1, -5, 15) }},
		{"degenerate outside bounds", func(s *models.SimulationSpec) { s.Variables.DiscountRate = dist(30, 0, 5, 15) }},
		{"discount rate floor", func(s *models.SimulationSpec) { s.Variables.DiscountRate = dist(10, 2, -150, 15) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := baseSpec()
			tt.mutate(&spec)
			_, err := Run(context.Background(), spec)
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrInvalidDistribution))
		})
	}
}

func TestRun_InvalidTaxRate(t *testing.T) {
	spec := baseSpec()
	tax := 100.0
	spec.TaxRatePct = &tax
	_, err := Run(context.Background(), spec)
	assert.True(t, errors.Is(err, models.ErrInvalidAssumption))
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, baseSpec())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestSampler_StaysWithinBounds(t *testing.T) {
	s := newSampler(7, 0)
	d := dist(0, 10, -1, 1)
	for i := 0; i < 10000; i++ {
		v := s.bounded(d)
		require.GreaterOrEqual(t, v, -1.0)
		require.LessOrEqual(t, v, 1.0)
	}
}

func TestSampler_ClampsWhenBoundsUnreachable(t *testing.T) {
	s := newSampler(7, 0)
	v := s.bounded(dist(1000, 1, 0, 1))
	assert.Equal(t, 1.0, v)
}

func TestSampler_NormalMoments(t *testing.T) {
	s := newSampler(99, 3)
	n := 50000
	sum, sq := 0.0, 0.0
	for i := 0; i < n; i++ {
		z := s.normal()
		sum += z
		sq += z * z
	}
	mean := sum / float64(n)
	assert.InDelta(t, 0, mean, 0.03)
	assert.InDelta(t, 1, sq/float64(n)-mean*mean, 0.03)
}

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}
	assert.Equal(t, 3.0, Percentile(sorted, 50))
	assert.Equal(t, 2.0, Percentile(sorted, 25))
	assert.InDelta(t, 1.4, Percentile(sorted, 10), 1e-12)
	assert.Equal(t, 1.0, Percentile(sorted, 0))
	assert.Equal(t, 5.0, Percentile(sorted, 100))
	assert.Equal(t, 7.0, Percentile([]float64{7}, 95))
	assert.Equal(t, 0.0, Percentile(nil, 50))
}

func TestHistogram(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		values[i] = float64(i)
	}
	bins := Histogram(values, 10)
	require.Len(t, bins, 10)
	total := 0
	freq := 0.0
	for _, b := range bins {
		total += b.Count
		freq += b.Frequency
	}
	assert.Equal(t, 100, total)
	assert.InDelta(t, 1, freq, 1e-9)
	assert.Equal(t, 0.0, bins[0].Lower)
	assert.Equal(t, 99.0, bins[9].Upper)
}

func TestSummarize_Skewness(t *testing.T) {
	right := Summarize("right", []float64{1, 1, 1, 1, 10})
	assert.Greater(t, right.Statistics.Skewness, 0.0)
	left := Summarize("left", []float64{-10, 1, 1, 1, 1})
	assert.Less(t, left.Statistics.Skewness, 0.0)
	assert.Equal(t, 1.0, right.Statistics.Median)
}
