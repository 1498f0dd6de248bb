package workingcapital

import (
	"github.com/shopspring/decimal"

	"github.com/bobmcallan/finmodel/internal/models"
)

// BufferMultiple scales the worst shortfall into a recommended cash buffer.
var BufferMultiple = decimal.NewFromFloat(1.2)

// pipeline is a fixed-length window of amounts booked in recent months.
// window[k] was booked k months ago and realises rates[k] of itself this month.
type pipeline struct {
	rates     []decimal.Decimal
	window    []decimal.Decimal
	remainder decimal.Decimal
}

func newPipeline(field string, rates []float64) (*pipeline, error) {
	if len(rates) == 0 {
		return nil, models.InsufficientData(field, "at least one rate is required")
	}
	p := &pipeline{
		rates:  make([]decimal.Decimal, len(rates)),
		window: make([]decimal.Decimal, len(rates)),
	}
	total := decimal.Zero
	for i, r := range rates {
		if r < 0 || r > 1 {
			return nil, models.InvalidAssumption(field, "rate %d must be in [0, 1], got %g", i, r)
		}
		p.rates[i] = decimal.NewFromFloat(r)
		total = total.Add(p.rates[i])
	}
	if total.GreaterThan(decimal.NewFromInt(1)) {
		return nil, models.InvalidAssumption(field, "rates sum to %s, above 1", total.String())
	}
	p.remainder = decimal.NewFromInt(1).Sub(total)
	return p, nil
}

// advance books this month's amount, shifting older amounts one slot along.
// It returns the cash realised this month and the unrealised remainder of the
// amount leaving the window.
func (p *pipeline) advance(amount decimal.Decimal) (realised, expired decimal.Decimal) {
	copy(p.window[1:], p.window[:len(p.window)-1])
	p.window[0] = amount

	realised = decimal.Zero
	for k, r := range p.rates {
		realised = realised.Add(p.window[k].Mul(r).Round(2))
	}
	expired = p.window[len(p.window)-1].Mul(p.remainder).Round(2)
	return realised, expired
}

// monthValue repeats the final value of a short series.
func monthValue(series []float64, month int) float64 {
	if month < len(series) {
		return series[month]
	}
	return series[len(series)-1]
}

// Forecast projects monthly cash through receivables and payables pipelines.
//
// Sales are collected according to CollectionRates; whatever is not collected
// once a month's sales leave the pipeline is written off as bad debt.
// Expenses are paid according to PaymentRates; an unpaid remainder stays in
// payables. A month whose ending cash falls below MinimumBalance is a
// shortfall, and the recommended buffer is 1.2 times the worst shortfall.
func Forecast(spec models.CashForecastSpec) (models.CashForecast, error) {
	if spec.Months <= 0 {
		return models.CashForecast{}, models.InsufficientData("months", "must be positive, got %d", spec.Months)
	}
	if len(spec.MonthlyRevenue) == 0 || len(spec.MonthlyExpenses) == 0 {
		return models.CashForecast{}, models.InsufficientData("monthly_revenue", "revenue and expense series are required")
	}
	receivables, err := newPipeline("collection_rates", spec.CollectionRates)
	if err != nil {
		return models.CashForecast{}, err
	}
	payables, err := newPipeline("payment_rates", spec.PaymentRates)
	if err != nil {
		return models.CashForecast{}, err
	}

	cash := decimal.NewFromFloat(spec.OpeningCash)
	minimum := decimal.NewFromFloat(spec.MinimumBalance)
	ar, ap := decimal.Zero, decimal.Zero
	badDebt, worst := decimal.Zero, decimal.Zero

	out := models.CashForecast{
		Months:          make([]models.CashForecastMonth, spec.Months),
		ShortfallMonths: []int{},
	}
	for m := 0; m < spec.Months; m++ {
		revenue := decimal.NewFromFloat(monthValue(spec.MonthlyRevenue, m)).Round(2)
		expenses := decimal.NewFromFloat(monthValue(spec.MonthlyExpenses, m)).Round(2)

		collected, writeOff := receivables.advance(revenue)
		paid, _ := payables.advance(expenses)

		ar = ar.Add(revenue).Sub(collected).Sub(writeOff)
		ap = ap.Add(expenses).Sub(paid)
		badDebt = badDebt.Add(writeOff)

		net := collected.Sub(paid)
		cash = cash.Add(net)

		month := models.CashForecastMonth{
			Month:       m + 1,
			Revenue:     revenue.InexactFloat64(),
			Expenses:    expenses.InexactFloat64(),
			Collections: collected.InexactFloat64(),
			Payments:    paid.InexactFloat64(),
			NetCashFlow: net.InexactFloat64(),
			EndingCash:  cash.InexactFloat64(),
			Receivables: ar.InexactFloat64(),
			Payables:    ap.InexactFloat64(),
		}
		if cash.LessThan(minimum) {
			gap := minimum.Sub(cash)
			month.Shortfall = true
			month.ShortfallAmount = gap.InexactFloat64()
			out.ShortfallMonths = append(out.ShortfallMonths, m+1)
			if gap.GreaterThan(worst) {
				worst = gap
			}
		}
		out.Months[m] = month
	}

	out.WorstShortfall = worst.InexactFloat64()
	out.RecommendedBuffer = worst.Mul(BufferMultiple).Round(2).InexactFloat64()
	out.EndingCash = cash.InexactFloat64()
	out.BadDebt = badDebt.InexactFloat64()
	return out, nil
}
