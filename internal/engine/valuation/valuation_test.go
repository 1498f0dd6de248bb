package valuation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/finmodel/internal/models"
)

func TestWACC(t *testing.T) {
	tests := []struct {
		name   string
		we, wd float64
	}{
		{"percent weights", 60, 40},
		{"fraction weights", 0.6, 0.4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WACC(models.WACCInput{
				RiskFreeRatePct:      4,
				Beta:                 1.2,
				MarketRiskPremiumPct: 6,
				CostOfDebtPct:        6,
				TaxRatePct:           25,
				EquityWeightPct:      tt.we,
				DebtWeightPct:        tt.wd,
			})
			require.NoError(t, err)
			assert.InDelta(t, 11.2, got.CostOfEquityPct, 1e-9)
			assert.InDelta(t, 4.5, got.AfterTaxCostOfDebtPct, 1e-9)
			assert.InDelta(t, 60, got.EquityWeightPct, 1e-9)
			assert.InDelta(t, 8.52, got.WACCPct, 1e-9)
		})
	}
}

func TestWACC_InvalidWeights(t *testing.T) {
	_, err := WACC(models.WACCInput{})
	assert.True(t, errors.Is(err, models.ErrInvalidAssumption))

	_, err = WACC(models.WACCInput{EquityWeightPct: 120, DebtWeightPct: -20})
	assert.True(t, errors.Is(err, models.ErrInvalidAssumption))
}

func TestNetDebt(t *testing.T) {
	assert.Equal(t, 700.0, NetDebt(1000, 300))
}

func TestValue_SingleYear(t *testing.T) {
	res, err := Value(models.ValuationAssumptions{
		InitialFCF:        100,
		GrowthRatesPct:    []float64{10},
		WACCPct:           10,
		TerminalGrowthPct: 0,
		NetDebt:           100,
		SharesOutstanding: 10,
	})
	require.NoError(t, err)

	require.Len(t, res.ProjectedCashFlows, 1)
	assert.InDelta(t, 110, res.ProjectedCashFlows[0].FCF, 1e-9)
	assert.InDelta(t, 100, res.SumPresentValue, 1e-9)
	assert.InDelta(t, 1100, res.TerminalValue, 1e-9)
	assert.InDelta(t, 1000, res.PVTerminalValue, 1e-9)
	assert.InDelta(t, 1100, res.EnterpriseValue, 1e-9)
	assert.InDelta(t, 1000, res.EquityValue, 1e-9)
	assert.InDelta(t, 100, res.ValuePerShare, 1e-9)
	assert.InDelta(t, 90.909091, res.TerminalValueSharePct, 1e-6)
}

func TestValue_RepeatsLastGrowthRate(t *testing.T) {
	res, err := Value(models.ValuationAssumptions{
		InitialFCF:        1000,
		GrowthRatesPct:    []float64{20, 10},
		ProjectionYears:   4,
		WACCPct:           9,
		TerminalGrowthPct: 2,
	})
	require.NoError(t, err)
	require.Len(t, res.ProjectedCashFlows, 4)
	assert.Equal(t, 10.0, res.ProjectedCashFlows[3].GrowthPct)
	assert.InDelta(t, 1000*1.2*1.1*1.1*1.1, res.ProjectedCashFlows[3].FCF, 1e-6)
}

func TestValue_TerminalGrowthMustBeBelowWACC(t *testing.T) {
	a := models.ValuationAssumptions{InitialFCF: 100, GrowthRatesPct: []float64{5}, WACCPct: 8, TerminalGrowthPct: 8}
	_, err := Value(a)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInvalidAssumption))

	a.TerminalGrowthPct = 9
	_, err = Value(a)
	assert.True(t, errors.Is(err, models.ErrInvalidAssumption))
}

func TestValue_EquityIncreasesWithTerminalGrowth(t *testing.T) {
	a := models.ValuationAssumptions{InitialFCF: 500, GrowthRatesPct: []float64{8, 6, 5, 4, 3}, WACCPct: 10, NetDebt: 1000}
	prev := -1e18
	for _, g := range []float64{-1, 0, 2, 4, 6, 8, 9, 9.5, 9.9} {
		a.TerminalGrowthPct = g
		res, err := Value(a)
		require.NoError(t, err)
		assert.Greater(t, res.EquityValue, prev, "g=%.1f", g)
		prev = res.EquityValue
	}
}

func TestValue_NoGrowthRates(t *testing.T) {
	_, err := Value(models.ValuationAssumptions{InitialFCF: 100, WACCPct: 10})
	assert.True(t, errors.Is(err, models.ErrInsufficientData))
}

func TestGrid_CentreMatchesValuation(t *testing.T) {
	a := models.ValuationAssumptions{InitialFCF: 500, GrowthRatesPct: []float64{12, 10, 8, 6, 4}, WACCPct: 9, TerminalGrowthPct: 2.5, NetDebt: 300}
	res, err := Value(a)
	require.NoError(t, err)

	grid, err := Grid(a, DefaultGridOptions())
	require.NoError(t, err)
	require.Len(t, grid.Cells, 5)
	for _, row := range grid.Cells {
		require.Len(t, row, 5)
	}
	assert.Equal(t, []float64{7, 8, 9, 10, 11}, grid.WACCPcts)
	assert.Equal(t, []float64{1.5, 2, 2.5, 3, 3.5}, grid.TerminalGrowthPcts)
	assert.Nil(t, grid.FlatGrowthPct)

	centre := grid.Cells[2][2]
	assert.True(t, centre.Valid)
	assert.InDelta(t, res.EquityValue, centre.EquityValue, 1e-6)

	// lower wacc, higher growth => higher value
	assert.Greater(t, grid.Cells[0][4].EquityValue, grid.Cells[4][0].EquityValue)
}

func TestGrid_FlatGrowthOption(t *testing.T) {
	a := models.ValuationAssumptions{InitialFCF: 500, GrowthRatesPct: []float64{12, 10, 8, 6, 4}, WACCPct: 9, TerminalGrowthPct: 2.5}
	flat := 8.0
	grid, err := Grid(a, GridOptions{FlatGrowthPct: &flat})
	require.NoError(t, err)
	require.NotNil(t, grid.FlatGrowthPct)

	want, err := Value(models.ValuationAssumptions{InitialFCF: 500, GrowthRatesPct: []float64{8, 8, 8, 8, 8}, WACCPct: 9, TerminalGrowthPct: 2.5})
	require.NoError(t, err)
	assert.InDelta(t, want.EquityValue, grid.Cells[2][2].EquityValue, 1e-6)
}

func TestGrid_MarksDivergentCellsInvalid(t *testing.T) {
	a := models.ValuationAssumptions{InitialFCF: 100, GrowthRatesPct: []float64{3}, WACCPct: 4, TerminalGrowthPct: 3}
	grid, err := Grid(a, DefaultGridOptions())
	require.NoError(t, err)

	// wacc 2 against growth 2..4 and wacc 3 against 3..4 cannot be valued
	assert.False(t, grid.Cells[0][0].Valid)
	assert.False(t, grid.Cells[1][2].Valid)
	assert.Equal(t, 0.0, grid.Cells[0][0].EquityValue)
	assert.True(t, grid.Cells[4][0].Valid)
}

func TestValuate(t *testing.T) {
	a := models.ValuationAssumptions{InitialFCF: 500, GrowthRatesPct: []float64{5}, ProjectionYears: 5, WACCPct: 10, TerminalGrowthPct: 2.5}
	v, err := Valuate(a, DefaultGridOptions())
	require.NoError(t, err)
	assert.Equal(t, a.WACCPct, v.Assumptions.WACCPct)
	assert.Len(t, v.Result.ProjectedCashFlows, 5)
	assert.Len(t, v.Grid.Cells, 5)
}
