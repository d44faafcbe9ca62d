package carteira

import (
	"fmt"
	"time"
)

// Quote is the market data needed to value one asset.
type Quote struct {
	Price         Money // latest traded price
	PreviousClose Money // previous session's closing price
}

// QuoteFunc looks up the current quote for one ticker. Stocks and funds are
// served by different endpoints, hence the class argument. A failure only
// affects that ticker's row in the summary.
type QuoteFunc func(ticker string, class AssetClass) (Quote, error)

// SummaryRow is one display-ready valuation line.
type SummaryRow struct {
	Ticker       string
	Class        AssetClass
	Quantity     Quantity
	Price        Money
	Value        Money // Quantity * Price
	DayChange    Money // Price - PreviousClose, per share
	DayChangePct Percent
	AveragePrice Money
	Profit       Money // Value - Quantity*AveragePrice
	ProfitPct    Percent
}

// SummaryTotal aggregates the rows of a summary.
type SummaryTotal struct {
	Value        Money
	DayChange    Money // at position scale: sum of Quantity*(Price-PreviousClose)
	DayChangePct Percent
	Profit       Money
	ProfitPct    Percent
}

// Summary is the current valuation of the portfolio: stocks first, then
// real-estate funds, each group sorted by ticker. Tickers whose price lookup
// failed are excluded from the rows and listed in Warnings instead.
type Summary struct {
	Date     time.Time
	Stocks   []SummaryRow
	Funds    []SummaryRow
	Total    SummaryTotal
	Warnings []string
}

// Rows iterates over all rows, stocks before funds.
func (s *Summary) Rows() []SummaryRow {
	rows := make([]SummaryRow, 0, len(s.Stocks)+len(s.Funds))
	rows = append(rows, s.Stocks...)
	return append(rows, s.Funds...)
}

// Summarize values every asset held at asOf using current market prices.
// Quantities and average prices are taken as of the reference date by
// replaying each position's history; prices are always the latest quotes.
//
// It fails with a QuoteLookupError only when every single lookup failed;
// anything short of that degrades to per-ticker warnings.
func (p *Portfolio) Summarize(asOf time.Time, quote QuoteFunc) (*Summary, error) {
	s := &Summary{Date: asOf}
	failures := make(map[string]error)
	attempted := 0

	var cost, lastValue Money // accumulated at position scale for the totals

	for pos := range p.Positions() {
		qty, avg := pos.stateAt(asOf)
		if !qty.IsPositive() {
			continue
		}
		attempted++

		q, err := quote(pos.Ticker(), pos.Class())
		if err != nil {
			failures[pos.Ticker()] = err
			s.Warnings = append(s.Warnings, fmt.Sprintf("could not fetch a price for %s: %v", pos.Ticker(), err))
			continue
		}

		value := q.Price.Mul(qty)
		dayChange := q.Price.Sub(q.PreviousClose)
		rowCost := avg.Mul(qty)
		profit := value.Sub(rowCost)

		row := SummaryRow{
			Ticker:       pos.Ticker(),
			Class:        pos.Class(),
			Quantity:     qty,
			Price:        q.Price,
			Value:        value,
			DayChange:    dayChange,
			DayChangePct: dayChange.PercentOf(q.PreviousClose),
			AveragePrice: avg,
			Profit:       profit,
			ProfitPct:    profit.PercentOf(rowCost),
		}
		if pos.Class() == Fund {
			s.Funds = append(s.Funds, row)
		} else {
			s.Stocks = append(s.Stocks, row)
		}

		s.Total.Value = s.Total.Value.Add(value)
		s.Total.DayChange = s.Total.DayChange.Add(dayChange.Mul(qty))
		s.Total.Profit = s.Total.Profit.Add(profit)
		cost = cost.Add(rowCost)
		lastValue = lastValue.Add(q.PreviousClose.Mul(qty))
	}

	if attempted > 0 && len(failures) == attempted {
		return nil, &QuoteLookupError{Failures: failures}
	}

	s.Total.DayChangePct = s.Total.DayChange.PercentOf(lastValue)
	s.Total.ProfitPct = s.Total.Profit.PercentOf(cost)
	return s, nil
}
