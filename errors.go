package carteira

import (
	"fmt"
	"time"
)

// Validation errors are typed so that callers can tell the cases apart.
// They are all detected before any state change: a rejected trade leaves
// the position untouched.

// AssetNotFoundError is returned by sells and splits on a ticker that was
// never bought.
type AssetNotFoundError struct {
	Ticker string
}

func (e *AssetNotFoundError) Error() string {
	return fmt.Sprintf("no position for %s in the portfolio", e.Ticker)
}

// InsufficientQuantityError is returned when a sell exceeds the held quantity.
type InsufficientQuantityError struct {
	Ticker    string
	Held      Quantity
	Requested Quantity
}

func (e *InsufficientQuantityError) Error() string {
	return fmt.Sprintf("cannot sell %s %s: only %s held", e.Requested, e.Ticker, e.Held)
}

// TimestampOrderError is returned when a trade predates the last recorded
// trade for the asset. The history is append-only: recomputing the average
// price for a retroactive trade is not supported.
type TimestampOrderError struct {
	Ticker string
	Last   time.Time
	Got    time.Time
}

func (e *TimestampOrderError) Error() string {
	return fmt.Sprintf("trade for %s at %s predates the last recorded trade at %s",
		e.Ticker, e.Got.Format(time.RFC3339), e.Last.Format(time.RFC3339))
}

// NonIntegralSplitError is returned when a split ratio would produce a
// fractional number of shares.
type NonIntegralSplitError struct {
	Ticker string
	Ratio  Quantity
	Result Quantity
}

func (e *NonIntegralSplitError) Error() string {
	return fmt.Sprintf("split %s by %s would leave a fractional quantity %s", e.Ticker, e.Ratio, e.Result)
}

// QuoteLookupError is returned by Summarize only when every single price
// lookup failed. Individual failures merely degrade the report.
type QuoteLookupError struct {
	Failures map[string]error // by ticker
}

func (e *QuoteLookupError) Error() string {
	return fmt.Sprintf("could not fetch a price for any of the %d held assets", len(e.Failures))
}
