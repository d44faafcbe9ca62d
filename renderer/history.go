package renderer

import (
	"bytes"
	"fmt"
	"time"

	md "github.com/nao1215/markdown"

	"github.com/brstocks/carteira"
)

// History renders one asset's chronological trade log.
func History(pos *carteira.Position) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("%s trade history", pos.Ticker()))
	doc.PlainTextf("Held: %s at an average price of %s.", pos.Quantity(), pos.AveragePrice())

	rows := make([][]string, 0, pos.Trades())
	for r := range pos.History() {
		rows = append(rows, historyRow(r))
	}
	doc.Table(md.TableSet{
		Header: []string{"Date", "Trade", "Quantity", "Price", "Realized Profit"},
		Rows:   rows,
	})

	return doc.String()
}

func historyRow(r carteira.TradeRecord) []string {
	date := r.Time.Format(time.DateOnly)
	switch r.Kind {
	case carteira.KindSell:
		return []string{date, "sell", r.Quantity.String(), r.Price.String(), r.Profit.SignedString()}
	case carteira.KindSplit:
		return []string{date, "split", "x" + r.Ratio().String(), "", ""}
	default:
		return []string{date, "buy", r.Quantity.String(), r.Price.String(), ""}
	}
}
