package carteira

import (
	"fmt"
	"regexp"
	"time"
)

// TradeKind is a typed string identifying the kind of a trade record.
type TradeKind string

const (
	KindBuy   TradeKind = "buy"
	KindSell  TradeKind = "sell"
	KindSplit TradeKind = "split"
)

// AssetClass distinguishes common stocks from real-estate funds (FIIs).
// The two classes are quoted on different market-data endpoints and are
// reported in separate summary groups.
type AssetClass string

const (
	Stock AssetClass = "stock"
	Fund  AssetClass = "fii"
)

// ParseAssetClass parses a string into an AssetClass.
func ParseAssetClass(s string) (AssetClass, error) {
	switch AssetClass(s) {
	case Stock:
		return Stock, nil
	case Fund:
		return Fund, nil
	default:
		return "", fmt.Errorf("unknown asset class %q", s)
	}
}

// B3 tickers are four uppercase letters followed by one or two digits
// (BBAS3, HGLG11).
var tickerPattern = regexp.MustCompile(`^[A-Z]{4}[0-9]{1,2}$`)

// ValidTicker reports whether s is a well-formed B3 ticker.
func ValidTicker(s string) bool { return tickerPattern.MatchString(s) }

// TradeRecord is one immutable entry in an asset's trade history.
//
// For splits, Quantity holds the split ratio (2 doubles the position, 0.5
// halves it) and Price is zero. Profit is only set on sells: the realized
// profit against the average price in effect at the moment of the sell.
type TradeRecord struct {
	Kind     TradeKind
	Time     time.Time
	Quantity Quantity
	Price    Money
	Profit   Money
}

// Ratio returns the split ratio carried by a split record.
func (r TradeRecord) Ratio() Quantity { return r.Quantity }

// Amount returns the total traded amount (quantity times unit price).
func (r TradeRecord) Amount() Money { return r.Price.Mul(r.Quantity) }
