// Package renderer turns portfolio reports into markdown documents.
package renderer

import (
	"bytes"
	"fmt"
	"time"

	md "github.com/nao1215/markdown"

	"github.com/brstocks/carteira"
)

var summaryHeader = []string{
	"Ticker", "Quantity", "Price", "Value",
	"Day Change", "Day %", "Avg Price", "Profit", "Profit %",
}

// Summary renders the portfolio valuation to a markdown string: stocks
// first, then real-estate funds, then a totals line and any warnings.
func Summary(s *carteira.Summary) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Portfolio on %s", s.Date.Format(time.DateOnly)))

	if len(s.Stocks) > 0 {
		doc.H2("Stocks")
		doc.Table(md.TableSet{Header: summaryHeader, Rows: summaryRows(s.Stocks)})
	}
	if len(s.Funds) > 0 {
		doc.H2("Real Estate Funds")
		doc.Table(md.TableSet{Header: summaryHeader, Rows: summaryRows(s.Funds)})
	}

	if rows := s.Rows(); len(rows) > 0 {
		doc.H2("Total")
		doc.Table(md.TableSet{
			Header: []string{"Value", "Day Change", "Day %", "Profit", "Profit %"},
			Rows: [][]string{{
				s.Total.Value.String(),
				s.Total.DayChange.SignedString(),
				s.Total.DayChangePct.SignedString(),
				s.Total.Profit.SignedString(),
				s.Total.ProfitPct.SignedString(),
			}},
		})
	} else {
		doc.PlainText("The portfolio holds no assets on this date.")
	}

	for _, w := range s.Warnings {
		doc.PlainTextf("> ⚠ %s", w)
	}

	return doc.String()
}

func summaryRows(rows []carteira.SummaryRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.Ticker,
			r.Quantity.String(),
			r.Price.String(),
			r.Value.String(),
			r.DayChange.SignedString(),
			r.DayChangePct.SignedString(),
			r.AveragePrice.String(),
			r.Profit.SignedString(),
			r.ProfitPct.SignedString(),
		})
	}
	return out
}
