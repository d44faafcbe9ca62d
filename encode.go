package carteira

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// The ledger is persisted as JSONL: one trade per line, in chronological
// order, with a stable field order. Loading replays every line through the
// Portfolio mutation API, so a loaded portfolio always satisfies the ledger
// invariants and derived values (average price, realized profit) are
// recomputed rather than trusted.

// tradeLine is a specialized struct for decoding one ledger line.
type tradeLine struct {
	Command  TradeKind  `json:"command"`
	Ticker   string     `json:"ticker"`
	Class    AssetClass `json:"class"`
	Time     time.Time  `json:"time"`
	Quantity Quantity   `json:"quantity"`
	Ratio    Quantity   `json:"ratio"`
	Price    Money      `json:"price"`
	Profit   Money      `json:"profit"`
}

// DecodePortfolio reads a JSONL trade stream and replays it into a Portfolio.
func DecodePortfolio(r io.Reader) (*Portfolio, error) {
	p := NewPortfolio()
	scanner := bufio.NewScanner(r)

	for n := 1; scanner.Scan(); n++ {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue
		}

		var line tradeLine
		if err := json.Unmarshal(lineBytes, &line); err != nil {
			return nil, fmt.Errorf("line %d: could not decode trade: %w", n, err)
		}

		var err error
		switch line.Command {
		case KindBuy:
			err = p.Buy(line.Ticker, line.Class, line.Quantity, line.Price, line.Time)
		case KindSell:
			// the persisted profit is an audit value; the replay recomputes it
			_, err = p.Sell(line.Ticker, line.Quantity, line.Price, line.Time)
		case KindSplit:
			err = p.Split(line.Ticker, line.Ratio, line.Time)
		default:
			err = fmt.Errorf("unknown command %q", line.Command)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read ledger: %w", err)
	}
	return p, nil
}

// EncodePortfolio writes every trade of every position as JSONL, merged in
// chronological order (ties broken by ticker).
func EncodePortfolio(w io.Writer, p *Portfolio) error {
	type entry struct {
		ticker string
		class  AssetClass
		rec    TradeRecord
	}
	var entries []entry
	for pos := range p.Positions() {
		for r := range pos.History() {
			entries = append(entries, entry{ticker: pos.Ticker(), class: pos.Class(), rec: r})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].rec.Time.Equal(entries[j].rec.Time) {
			return entries[i].rec.Time.Before(entries[j].rec.Time)
		}
		return entries[i].ticker < entries[j].ticker
	})

	for _, e := range entries {
		var jw jsonObjectWriter
		jw.Append("command", e.rec.Kind)
		jw.Append("ticker", e.ticker)
		jw.Append("class", e.class)
		jw.Append("time", e.rec.Time.Format(time.RFC3339))
		switch e.rec.Kind {
		case KindSplit:
			jw.Append("ratio", e.rec.Ratio())
		case KindSell:
			jw.Append("quantity", e.rec.Quantity)
			jw.Append("price", e.rec.Price)
			jw.Append("profit", e.rec.Profit)
		default:
			jw.Append("quantity", e.rec.Quantity)
			jw.Append("price", e.rec.Price)
		}

		lineBytes, err := jw.MarshalJSON()
		if err != nil {
			return fmt.Errorf("could not encode trade for %s: %w", e.ticker, err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", lineBytes); err != nil {
			return err
		}
	}
	return nil
}

// LoadPortfolio reads the portfolio from path. A missing file yields an
// empty portfolio, not an error.
func LoadPortfolio(path string) (*Portfolio, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return NewPortfolio(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open ledger %q: %w", path, err)
	}
	defer f.Close()

	p, err := DecodePortfolio(f)
	if err != nil {
		return nil, fmt.Errorf("could not load ledger %q: %w", path, err)
	}
	return p, nil
}

// SavePortfolio writes the whole portfolio to path. The write goes through a
// temporary file renamed over the target, so a failed save never truncates
// the previous ledger.
func SavePortfolio(path string, p *Portfolio) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("could not create temporary ledger: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := EncodePortfolio(tmp, p); err != nil {
		tmp.Close()
		return fmt.Errorf("could not write ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
