package carteira

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"time"
)

// Portfolio maps tickers to their positions and owns every mutation.
//
// Positions are created lazily on the first buy and never deleted: a fully
// sold-down position stays at quantity zero with its whole history, so that
// realized profits remain available for the monthly aggregation.
//
// The tracker runs one command per process, so Portfolio is not safe for
// concurrent use.
type Portfolio struct {
	positions map[string]*Position
}

// NewPortfolio creates an empty portfolio.
func NewPortfolio() *Portfolio {
	return &Portfolio{positions: make(map[string]*Position)}
}

// Position returns the position for ticker, or nil if it was never bought.
func (p *Portfolio) Position(ticker string) *Position {
	return p.positions[ticker]
}

// Positions iterates over all positions in ticker order.
func (p *Portfolio) Positions() iter.Seq[*Position] {
	return func(yield func(*Position) bool) {
		for _, ticker := range slices.Sorted(maps.Keys(p.positions)) {
			if !yield(p.positions[ticker]) {
				return
			}
		}
	}
}

// Len returns the number of positions, including fully sold-down ones.
func (p *Portfolio) Len() int { return len(p.positions) }

// Buy records a purchase, creating the position on the first buy of a ticker.
// The asset class is only consulted on creation; subsequent buys keep the
// class the position was created with.
func (p *Portfolio) Buy(ticker string, class AssetClass, qty Quantity, price Money, at time.Time) error {
	if !ValidTicker(ticker) {
		return fmt.Errorf("invalid ticker %q", ticker)
	}
	pos, ok := p.positions[ticker]
	if !ok {
		// The position is only registered once the first buy went through.
		pos = newPosition(ticker, class)
		if err := pos.buy(qty, price, at); err != nil {
			return err
		}
		p.positions[ticker] = pos
		return nil
	}
	return pos.buy(qty, price, at)
}

// Sell records a sale and returns the realized profit.
func (p *Portfolio) Sell(ticker string, qty Quantity, price Money, at time.Time) (Money, error) {
	pos := p.positions[ticker]
	if pos == nil {
		return Money{}, &AssetNotFoundError{Ticker: ticker}
	}
	return pos.sell(qty, price, at)
}

// Split applies a stock split to an existing position.
func (p *Portfolio) Split(ticker string, ratio Quantity, at time.Time) error {
	pos := p.positions[ticker]
	if pos == nil {
		return &AssetNotFoundError{Ticker: ticker}
	}
	return pos.split(ratio, at)
}
