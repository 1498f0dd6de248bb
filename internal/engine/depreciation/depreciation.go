// Package depreciation builds per-year depreciation schedules.
package depreciation

import (
	"fmt"
	"math"

	"github.com/bobmcallan/finmodel/internal/models"
)

// MACRSTable is the fixed percentage table applied to original cost.
// Years beyond the table reuse its last value.
var MACRSTable = []float64{0.20, 0.32, 0.192, 0.1152, 0.1152, 0.0576}

// Schedule returns one entry per year for the chosen method.
// An empty method means straight-line.
func Schedule(method models.DepreciationMethod, cost, salvage float64, years int) ([]models.DepreciationEntry, error) {
	if years <= 0 {
		return nil, models.InsufficientData("years", "must be positive, got %d", years)
	}
	if cost < 0 {
		return nil, models.InvalidAssumption("cost", "must not be negative, got %g", cost)
	}
	if salvage < 0 || salvage > cost {
		return nil, models.InvalidAssumption("salvage", "must be between 0 and cost %g, got %g", cost, salvage)
	}

	switch method {
	case "", models.DepreciationStraightLine:
		return straightLine(cost, salvage, years), nil
	case models.DepreciationDecliningBalance:
		return decliningBalance(cost, salvage, years), nil
	case models.DepreciationMACRS:
		return macrs(cost, years), nil
	default:
		return nil, fmt.Errorf("unknown depreciation method %q: %w", method, models.ErrInvalidAssumption)
	}
}

// Charges extracts the yearly charges from a schedule.
func Charges(entries []models.DepreciationEntry) []float64 {
	out := make([]float64, len(entries))
	for i, e := range entries {
		out[i] = e.Charge
	}
	return out
}

func straightLine(cost, salvage float64, years int) []models.DepreciationEntry {
	charge := (cost - salvage) / float64(years)
	entries := make([]models.DepreciationEntry, years)
	book := cost
	for i := range entries {
		book -= charge
		if i == years-1 {
			book = salvage
		}
		entries[i] = models.DepreciationEntry{Year: i + 1, Charge: charge, BookValue: book}
	}
	return entries
}

// decliningBalance applies rate 2/years to the carried book value, never below salvage.
func decliningBalance(cost, salvage float64, years int) []models.DepreciationEntry {
	rate := 2.0 / float64(years)
	entries := make([]models.DepreciationEntry, years)
	book := cost
	for i := range entries {
		charge := math.Min(book*rate, book-salvage)
		if charge < 0 {
			charge = 0
		}
		book -= charge
		entries[i] = models.DepreciationEntry{Year: i + 1, Charge: charge, BookValue: book}
	}
	return entries
}

// macrs ignores salvage; the table is applied to original cost.
// Book value is floored at zero when the table is extended past its length.
func macrs(cost float64, years int) []models.DepreciationEntry {
	entries := make([]models.DepreciationEntry, years)
	book := cost
	for i := range entries {
		pct := MACRSTable[len(MACRSTable)-1]
		if i < len(MACRSTable) {
			pct = MACRSTable[i]
		}
		charge := math.Max(0, math.Min(cost*pct, book))
		book -= charge
		entries[i] = models.DepreciationEntry{Year: i + 1, Charge: charge, BookValue: book}
	}
	return entries
}
