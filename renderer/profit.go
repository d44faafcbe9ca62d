package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"github.com/brstocks/carteira"
)

// ProfitByMonth renders the month-by-month realized profit of one year,
// with the sold amount and the due swing-trade tax, plus a Total row.
func ProfitByMonth(s *carteira.ProfitSummary) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Realized profit in %d", s.Year))

	rows := make([][]string, 0, len(s.Months)+1)
	for _, m := range s.Months {
		rows = append(rows, []string{
			m.Month.String(),
			m.SoldAmount.String(),
			m.Profit.SignedString(),
			m.Tax.String(),
		})
	}
	rows = append(rows, []string{
		"Total",
		s.Total.SoldAmount.String(),
		s.Total.Profit.SignedString(),
		s.Total.Tax.String(),
	})

	doc.Table(md.TableSet{
		Header: []string{"Month", "Sold Amount", "Profit", "Tax"},
		Rows:   rows,
	})

	return doc.String()
}
