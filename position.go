package carteira

import (
	"fmt"
	"iter"
	"slices"
	"time"
)

// Position is the mutable aggregate for one ticker: its chronological trade
// history plus the derived holding state (current quantity and weighted
// average purchase price).
//
// All mutations validate their preconditions before touching any state, so a
// rejected trade leaves the position exactly as it was.
type Position struct {
	ticker   string
	class    AssetClass
	quantity Quantity
	avgPrice Money
	history  []TradeRecord
}

func newPosition(ticker string, class AssetClass) *Position {
	return &Position{ticker: ticker, class: class}
}

func (p *Position) Ticker() string      { return p.ticker }
func (p *Position) Class() AssetClass   { return p.class }
func (p *Position) Quantity() Quantity  { return p.quantity }
func (p *Position) AveragePrice() Money { return p.avgPrice }

// History iterates over the trade records in chronological order.
func (p *Position) History() iter.Seq[TradeRecord] { return slices.Values(p.history) }

// Trades returns the number of recorded trades.
func (p *Position) Trades() int { return len(p.history) }

// checkOrder rejects a trade older than the last recorded one. Equal
// timestamps are accepted: several trades may share a timestamp when they
// were entered without a time of day.
func (p *Position) checkOrder(at time.Time) error {
	if n := len(p.history); n > 0 {
		if last := p.history[n-1].Time; at.Before(last) {
			return &TimestampOrderError{Ticker: p.ticker, Last: last, Got: at}
		}
	}
	return nil
}

// buy appends a purchase and recomputes the weighted average price:
//
//	avg' = (avg*held + price*qty) / (held+qty)
func (p *Position) buy(qty Quantity, price Money, at time.Time) error {
	if err := checkTradeInput(qty, price); err != nil {
		return fmt.Errorf("buy %s: %w", p.ticker, err)
	}
	if err := p.checkOrder(at); err != nil {
		return err
	}

	total := p.avgPrice.Mul(p.quantity).Add(price.Mul(qty))
	p.quantity = p.quantity.Add(qty)
	p.avgPrice = total.Div(p.quantity)
	p.history = append(p.history, TradeRecord{Kind: KindBuy, Time: at, Quantity: qty, Price: price})
	return nil
}

// sell appends a sale and returns the realized profit, computed against the
// average price in effect at the moment of the sell:
//
//	profit = (price - avg) * qty
//
// The average price of the remaining shares never changes on a sell.
func (p *Position) sell(qty Quantity, price Money, at time.Time) (Money, error) {
	if err := checkTradeInput(qty, price); err != nil {
		return Money{}, fmt.Errorf("sell %s: %w", p.ticker, err)
	}
	if qty.GreaterThan(p.quantity) {
		return Money{}, &InsufficientQuantityError{Ticker: p.ticker, Held: p.quantity, Requested: qty}
	}
	if err := p.checkOrder(at); err != nil {
		return Money{}, err
	}

	profit := price.Sub(p.avgPrice).Mul(qty)
	p.quantity = p.quantity.Sub(qty)
	p.history = append(p.history, TradeRecord{Kind: KindSell, Time: at, Quantity: qty, Price: price, Profit: profit})
	return profit, nil
}

// split multiplies the quantity by ratio and divides the average price by it,
// leaving quantity*avgPrice unchanged. A ratio of 2 is a 1:2 forward split, a
// ratio of 0.5 a 2:1 reverse split.
//
// Known limitation: past trade records keep their original unit prices, so
// pre-split history understates the post-split scale. The original per-trade
// detail is deliberately not rewritten.
func (p *Position) split(ratio Quantity, at time.Time) error {
	if !ratio.IsPositive() {
		return fmt.Errorf("split %s: ratio must be positive, got %s", p.ticker, ratio)
	}
	newQty := p.quantity.Mul(ratio)
	if !newQty.IsInteger() {
		return &NonIntegralSplitError{Ticker: p.ticker, Ratio: ratio, Result: newQty}
	}
	if err := p.checkOrder(at); err != nil {
		return err
	}

	p.quantity = newQty
	p.avgPrice = p.avgPrice.Div(ratio)
	p.history = append(p.history, TradeRecord{Kind: KindSplit, Time: at, Quantity: ratio})
	return nil
}

// stateAt replays the history up to and including at, returning the quantity
// held and the average price in effect at that moment.
func (p *Position) stateAt(at time.Time) (Quantity, Money) {
	var qty Quantity
	var avg Money
	for _, r := range p.history {
		if r.Time.After(at) {
			break
		}
		switch r.Kind {
		case KindBuy:
			total := avg.Mul(qty).Add(r.Price.Mul(r.Quantity))
			qty = qty.Add(r.Quantity)
			avg = total.Div(qty)
		case KindSell:
			qty = qty.Sub(r.Quantity)
		case KindSplit:
			qty = qty.Mul(r.Ratio())
			avg = avg.Div(r.Ratio())
		}
	}
	return qty, avg
}

// QuantityAt returns the quantity held at the given moment.
func (p *Position) QuantityAt(at time.Time) Quantity {
	qty, _ := p.stateAt(at)
	return qty
}

func checkTradeInput(qty Quantity, price Money) error {
	if !qty.IsPositive() || !qty.IsInteger() {
		return fmt.Errorf("quantity must be a positive whole number, got %s", qty)
	}
	if !price.IsPositive() {
		return fmt.Errorf("unit price must be positive, got %s", price)
	}
	return nil
}
