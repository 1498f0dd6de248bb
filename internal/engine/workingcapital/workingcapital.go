// Package workingcapital measures the cash conversion cycle, flags
// improvement opportunities and forecasts monthly cash through
// receivables and payables pipelines.
package workingcapital

import (
	"github.com/bobmcallan/finmodel/internal/models"
)

const defaultDaysInPeriod = 365

// DefaultThresholds flags DSO above 45 days, DIO above 60 and DPO below 30.
func DefaultThresholds() models.WorkingCapitalThresholds {
	return models.WorkingCapitalThresholds{MaxDSO: 45, MaxDIO: 60, MinDPO: 30}
}

var (
	dsoActions = []string{
		"Tighten credit terms for new customers",
		"Offer early payment discounts",
		"Automate invoicing and payment reminders",
		"Review overdue accounts weekly",
	}
	dioActions = []string{
		"Reduce safety stock on slow-moving items",
		"Move to just-in-time replenishment with key suppliers",
		"Clear obsolete inventory",
		"Improve demand forecasting",
	}
	dpoActions = []string{
		"Negotiate longer payment terms with suppliers",
		"Pay on the due date rather than early",
		"Consolidate purchasing to strengthen negotiating position",
		"Use supply chain financing where available",
	}
)

// CashCycle computes DSO, DIO, DPO and the cash conversion cycle.
// Purchases defaults to COGS and the period to 365 days.
func CashCycle(m models.WorkingCapitalModel) (models.CashCycle, error) {
	days := m.DaysInPeriod
	if days <= 0 {
		days = defaultDaysInPeriod
	}
	if m.Revenue <= 0 {
		return models.CashCycle{}, models.InvalidAssumption("revenue", "must be positive, got %g", m.Revenue)
	}
	if m.COGS <= 0 {
		return models.CashCycle{}, models.InvalidAssumption("cogs", "must be positive, got %g", m.COGS)
	}
	purchases := m.Purchases
	if purchases <= 0 {
		purchases = m.COGS
	}
	if m.AccountsReceivable < 0 || m.Inventory < 0 || m.AccountsPayable < 0 {
		return models.CashCycle{}, models.InvalidAssumption("balances", "receivables, inventory and payables must not be negative")
	}

	c := models.CashCycle{
		DailySales:     m.Revenue / float64(days),
		DailyCOGS:      m.COGS / float64(days),
		DailyPurchases: purchases / float64(days),
	}
	c.DSO = m.AccountsReceivable / c.DailySales
	c.DIO = m.Inventory / c.DailyCOGS
	c.DPO = m.AccountsPayable / c.DailyPurchases
	c.CashConversionCycle = c.DIO + c.DSO - c.DPO
	return c, nil
}

// Analyze computes the cash cycle and flags each metric outside its
// threshold, estimating the one-off cash released by reaching it.
func Analyze(m models.WorkingCapitalModel, th models.WorkingCapitalThresholds) (models.WorkingCapitalResult, error) {
	d := DefaultThresholds()
	if th.MaxDSO <= 0 {
		th.MaxDSO = d.MaxDSO
	}
	if th.MaxDIO <= 0 {
		th.MaxDIO = d.MaxDIO
	}
	if th.MinDPO <= 0 {
		th.MinDPO = d.MinDPO
	}

	c, err := CashCycle(m)
	if err != nil {
		return models.WorkingCapitalResult{}, err
	}

	res := models.WorkingCapitalResult{CashCycle: c, Opportunities: []models.Opportunity{}}
	if c.DSO > th.MaxDSO {
		res.Opportunities = append(res.Opportunities, models.Opportunity{
			Metric:     "dso",
			Current:    c.DSO,
			Target:     th.MaxDSO,
			CashImpact: (c.DSO - th.MaxDSO) * c.DailySales,
			Actions:    dsoActions,
		})
	}
	if c.DIO > th.MaxDIO {
		res.Opportunities = append(res.Opportunities, models.Opportunity{
			Metric:     "dio",
			Current:    c.DIO,
			Target:     th.MaxDIO,
			CashImpact: (c.DIO - th.MaxDIO) * c.DailyCOGS,
			Actions:    dioActions,
		})
	}
	if c.DPO < th.MinDPO {
		res.Opportunities = append(res.Opportunities, models.Opportunity{
			Metric:     "dpo",
			Current:    c.DPO,
			Target:     th.MinDPO,
			CashImpact: (th.MinDPO - c.DPO) * c.DailyPurchases,
			Actions:    dpoActions,
		})
	}
	for _, o := range res.Opportunities {
		res.TotalCashImpact += o.CashImpact
	}
	return res, nil
}
