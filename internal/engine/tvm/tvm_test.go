package tvm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/finmodel/internal/models"
)

func TestNPV_StrictlyDecreasingInRate(t *testing.T) {
	flows := []float64{-1000, 300, 400, 500, 200}
	prev, err := NPV(0.01, flows)
	require.NoError(t, err)
	for _, r := range []float64{0.02, 0.05, 0.08, 0.1, 0.15, 0.25, 0.5} {
		got, err := NPV(r, flows)
		require.NoError(t, err)
		assert.Less(t, got, prev, "npv at %.2f should be below npv at lower rate", r)
		prev = got
	}
}

func TestNPV_KnownValue(t *testing.T) {
	got, err := NPV(0.10, Series(1_000_000, []float64{275000, 275000, 275000, 275000, 275000}))
	require.NoError(t, err)
	assert.InDelta(t, 42466.36, got, 0.01)
}

func TestNPV_Errors(t *testing.T) {
	_, err := NPV(0.1, nil)
	assert.True(t, errors.Is(err, models.ErrInsufficientData))

	_, err = NPV(-1, []float64{-1, 2})
	assert.True(t, errors.Is(err, models.ErrInvalidAssumption))
}

func TestIRR_SinglePeriodTenPercent(t *testing.T) {
	res, err := IRR([]float64{-100, 110})
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.Equal(t, MethodNewton, res.Method)
	assert.InDelta(t, 0.10, res.Rate, 1e-9)
	assert.InDelta(t, 10.0, res.Percent(), 1e-7)
}

func TestIRR_RootZeroesNPV(t *testing.T) {
	tests := []struct {
		name  string
		flows []float64
	}{
		{"level annuity", Series(1_000_000, []float64{275000, 275000, 275000, 275000, 275000})},
		{"back loaded", []float64{-5000, 100, 200, 300, 8000}},
		{"front loaded", []float64{-2000, 1500, 800, 100}},
		{"loss making", []float64{-1000, 100, 100, 100}},
		{"high return", []float64{-100, 400, 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := IRR(tt.flows)
			require.NoError(t, err)
			require.True(t, res.Converged)
			v, err := NPV(res.Rate, tt.flows)
			require.NoError(t, err)
			assert.InDelta(t, 0, v, 1e-2)
		})
	}
}

func TestIRR_ScenarioValue(t *testing.T) {
	res, err := IRR(Series(1_000_000, []float64{275000, 275000, 275000, 275000, 275000}))
	require.NoError(t, err)
	assert.InDelta(t, 11.6488, res.Percent(), 1e-3)
}

func TestIRR_NoSignChangeIsUnconverged(t *testing.T) {
	res, err := IRR([]float64{100, 100, 100})
	require.NoError(t, err)
	assert.False(t, res.Converged)
	assert.Greater(t, res.Iterations, 0)
}

func TestIRR_TooShort(t *testing.T) {
	_, err := IRR([]float64{-100})
	assert.True(t, errors.Is(err, models.ErrInsufficientData))

	_, err = IRR(nil)
	assert.True(t, errors.Is(err, models.ErrInsufficientData))
}

func TestMIRR_TextbookExample(t *testing.T) {
	// -120,000 then 39,000 30,000 21,000 37,000 46,000; finance 10%, reinvest 12%.
	got, err := MIRR(120000, []float64{39000, 30000, 21000, 37000, 46000}, 0.10, 0.12)
	require.NoError(t, err)
	assert.InDelta(t, 0.126094, got, 1e-6)
}

func TestMIRR_NegativeInteriorFlowUsesFinanceRate(t *testing.T) {
	got, err := MIRR(120000, []float64{39000, -10000, 21000, 37000, 46000}, 0.10, 0.12)
	require.NoError(t, err)
	assert.InDelta(t, 0.064291, got, 1e-6)
}

func TestMIRR_EqualRatesLevelFlows(t *testing.T) {
	got, err := MIRR(1_000_000, []float64{275000, 275000, 275000, 275000, 275000}, 0.10, 0.10)
	require.NoError(t, err)
	assert.InDelta(t, 0.109188, got, 1e-6)
}

func TestPaybackPeriod(t *testing.T) {
	tests := []struct {
		name       string
		investment float64
		flows      []float64
		want       models.PaybackResult
	}{
		{"interpolated", 1000, []float64{300, 400, 500}, models.PaybackResult{Years: 2.6, Recovered: true}},
		{"exact year", 1000, []float64{500, 500, 500}, models.PaybackResult{Years: 2, Recovered: true}},
		{"never recovered", 1000, []float64{100, 100, 100}, models.PaybackResult{Years: 4, Recovered: false}},
		{"level annuity", 1_000_000, []float64{275000, 275000, 275000, 275000, 275000}, models.PaybackResult{Years: 3.636364, Recovered: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PaybackPeriod(tt.investment, tt.flows)
			require.NoError(t, err)
			assert.Equal(t, tt.want.Recovered, got.Recovered)
			assert.InDelta(t, tt.want.Years, got.Years, 1e-5)
		})
	}
}

func TestDiscountedPaybackPeriod(t *testing.T) {
	got, err := DiscountedPaybackPeriod(1_000_000, []float64{275000, 275000, 275000, 275000, 275000}, 0.10)
	require.NoError(t, err)
	assert.True(t, got.Recovered)
	assert.InDelta(t, 4.7513, got.Years, 1e-4)

	plain, err := PaybackPeriod(1_000_000, []float64{275000, 275000, 275000, 275000, 275000})
	require.NoError(t, err)
	assert.Greater(t, got.Years, plain.Years)
}

func TestDiscountedPaybackPeriod_NeverRecovered(t *testing.T) {
	got, err := DiscountedPaybackPeriod(1000, []float64{350, 350, 350}, 0.10)
	require.NoError(t, err)
	assert.False(t, got.Recovered)
	assert.Equal(t, 4.0, got.Years)
}

func TestPayback_EmptySeries(t *testing.T) {
	_, err := PaybackPeriod(1000, nil)
	assert.True(t, errors.Is(err, models.ErrInsufficientData))
}

func TestProfitabilityIndex(t *testing.T) {
	got, err := ProfitabilityIndex(1_000_000, []float64{275000, 275000, 275000, 275000, 275000}, 0.10)
	require.NoError(t, err)
	assert.InDelta(t, 1.042466, got, 1e-6)

	_, err = ProfitabilityIndex(0, []float64{1}, 0.1)
	assert.True(t, errors.Is(err, models.ErrInvalidAssumption))
}

func TestEquivalentAnnualAnnuity(t *testing.T) {
	got, err := EquivalentAnnualAnnuity(42466.3616, 0.10, 5)
	require.NoError(t, err)
	assert.InDelta(t, 11202.52, got, 0.01)

	got, err = EquivalentAnnualAnnuity(500, 0, 5)
	require.NoError(t, err)
	assert.Equal(t, 100.0, got)

	_, err = EquivalentAnnualAnnuity(500, 0.1, 0)
	assert.True(t, errors.Is(err, models.ErrInsufficientData))
}
