package carteira

import "time"

// Brazilian swing-trade rule: monthly profits are tax-free while the total
// amount sold in the month stays under R$20,000; above that, positive
// profits are taxed at 15%.
var (
	taxExemption = M(20000)
	taxRate      = Q(15).Div(Q(100))
)

// MonthlyProfit is the realized result of one calendar month.
type MonthlyProfit struct {
	Month      time.Month
	SoldAmount Money // total amount sold in the month
	Profit     Money // sum of realized profits, signed
	Tax        Money // due tax under the swing-trade rule
}

// ProfitSummary buckets the realized profit of one year by calendar month.
// Months without sells are present with zero values. Accumulation keeps full
// precision: rounding to cents happens at display time only.
type ProfitSummary struct {
	Year   int
	Months [12]MonthlyProfit
	Total  MonthlyProfit
}

// ProfitByMonth walks every sell recorded in the given year, across all
// positions, and buckets the realized profit by the calendar month of the
// trade.
func (p *Portfolio) ProfitByMonth(year int) *ProfitSummary {
	s := &ProfitSummary{Year: year}
	for i := range s.Months {
		s.Months[i].Month = time.Month(i + 1)
	}

	for pos := range p.Positions() {
		for r := range pos.History() {
			if r.Kind != KindSell || r.Time.Year() != year {
				continue
			}
			m := &s.Months[r.Time.Month()-1]
			m.SoldAmount = m.SoldAmount.Add(r.Amount())
			m.Profit = m.Profit.Add(r.Profit)
		}
	}

	for i := range s.Months {
		m := &s.Months[i]
		if m.SoldAmount.GreaterThan(taxExemption) && m.Profit.IsPositive() {
			m.Tax = m.Profit.Mul(taxRate)
		}
		s.Total.SoldAmount = s.Total.SoldAmount.Add(m.SoldAmount)
		s.Total.Profit = s.Total.Profit.Add(m.Profit)
		s.Total.Tax = s.Total.Tax.Add(m.Tax)
	}
	return s
}
