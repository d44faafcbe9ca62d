package cmd

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/brstocks/carteira"
)

type buyCmd struct{}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record the purchase of an asset" }
func (*buyCmd) Usage() string {
	return `carteira buy <ticker> <quantity> <price> [date [time]]

  Records a purchase and recomputes the average price of the position. The
  position is created on the first buy of a ticker; its asset class (stock
  or real-estate fund) is discovered from the market symbol lists.
  The default date is now.

Example:
$ carteira buy BBAS3 100 34.50 2024-03-01 10:30:00
`
}

func (*buyCmd) SetFlags(*flag.FlagSet) {}

func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ticker, qty, price, when, err := parseTradeArgs(f.Args())
	if err != nil {
		log.Error().Err(err).Msg("invalid arguments")
		return subcommands.ExitUsageError
	}

	p, err := loadPortfolio()
	if err != nil {
		log.Error().Err(err).Msg("could not load portfolio")
		return subcommands.ExitFailure
	}

	class := carteira.Stock
	if pos := p.Position(ticker); pos != nil {
		class = pos.Class()
	} else {
		class, err = carteira.NewMFinance().Resolve(ticker)
		if err != nil {
			log.Error().Err(err).Msgf("could not find %s in the stock market", ticker)
			return subcommands.ExitFailure
		}
	}

	if err := p.Buy(ticker, class, qty, price, when); err != nil {
		log.Error().Err(err).Msgf("could not buy %s", ticker)
		return subcommands.ExitFailure
	}
	if err := savePortfolio(p); err != nil {
		log.Error().Err(err).Msg("could not save portfolio")
		return subcommands.ExitFailure
	}

	log.Info().Msgf("You bought %s %s at %s.", qty, ticker, price)
	return subcommands.ExitSuccess
}

type sellCmd struct{}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record the sale of an asset" }
func (*sellCmd) Usage() string {
	return `carteira sell <ticker> <quantity> <price> [date [time]]

  Records a sale and realizes the profit against the current average price.
  The average price of the remaining shares does not change. The default
  date is now.

Example:
$ carteira sell BBAS3 100 36.03
`
}

func (*sellCmd) SetFlags(*flag.FlagSet) {}

func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ticker, qty, price, when, err := parseTradeArgs(f.Args())
	if err != nil {
		log.Error().Err(err).Msg("invalid arguments")
		return subcommands.ExitUsageError
	}

	p, err := loadPortfolio()
	if err != nil {
		log.Error().Err(err).Msg("could not load portfolio")
		return subcommands.ExitFailure
	}

	profit, err := p.Sell(ticker, qty, price, when)
	if err != nil {
		log.Error().Err(err).Msgf("could not sell %s", ticker)
		return subcommands.ExitFailure
	}
	if err := savePortfolio(p); err != nil {
		log.Error().Err(err).Msg("could not save portfolio")
		return subcommands.ExitFailure
	}

	log.Info().Msgf("You sold %s %s profiting %s.", qty, ticker, profit.SignedString())
	return subcommands.ExitSuccess
}

type splitCmd struct{}

func (*splitCmd) Name() string     { return "split" }
func (*splitCmd) Synopsis() string { return "apply a stock split to a position" }
func (*splitCmd) Usage() string {
	return `carteira split <ticker> <ratio> [date [time]]

  Multiplies the held quantity by <ratio> and divides the average price by
  it. Use a ratio above 1 for a forward split (2 doubles the position) and
  a fractional ratio for a reverse split (0.5 halves it). Past trade
  records keep their original unit prices.

Example:
$ carteira split MGLU3 2
`
}

func (*splitCmd) SetFlags(*flag.FlagSet) {}

func (c *splitCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 2 || len(args) > 4 {
		log.Error().Msg("expected: split <ticker> <ratio> [date [time]]")
		return subcommands.ExitUsageError
	}
	ticker := strings.ToUpper(args[0])
	ratioDec, err := decimal.NewFromString(args[1])
	if err != nil {
		log.Error().Err(err).Msgf("could not parse ratio %q", args[1])
		return subcommands.ExitUsageError
	}
	when, err := parseWhen(args[2:])
	if err != nil {
		log.Error().Err(err).Msg("could not parse date")
		return subcommands.ExitUsageError
	}

	p, err := loadPortfolio()
	if err != nil {
		log.Error().Err(err).Msg("could not load portfolio")
		return subcommands.ExitFailure
	}

	if err := p.Split(ticker, carteira.Q(ratioDec), when); err != nil {
		log.Error().Err(err).Msgf("could not split %s", ticker)
		return subcommands.ExitFailure
	}
	if err := savePortfolio(p); err != nil {
		log.Error().Err(err).Msg("could not save portfolio")
		return subcommands.ExitFailure
	}

	pos := p.Position(ticker)
	log.Info().Msgf("Split %s by %s: you now hold %s at %s.", ticker, ratioDec, pos.Quantity(), pos.AveragePrice())
	return subcommands.ExitSuccess
}

// parseTradeArgs parses the <ticker> <quantity> <price> [date [time]]
// argument shape shared by buy and sell.
func parseTradeArgs(args []string) (ticker string, qty carteira.Quantity, price carteira.Money, when time.Time, err error) {
	if len(args) < 3 || len(args) > 5 {
		err = fmt.Errorf("expected: <ticker> <quantity> <price> [date [time]], got %d arguments", len(args))
		return
	}
	ticker = strings.ToUpper(args[0])

	n, err := strconv.Atoi(args[1])
	if err != nil {
		err = fmt.Errorf("could not parse quantity %q: %w", args[1], err)
		return
	}
	qty = carteira.Q(n)

	priceDec, err := decimal.NewFromString(args[2])
	if err != nil {
		err = fmt.Errorf("could not parse price %q: %w", args[2], err)
		return
	}
	price = carteira.M(priceDec)

	when, err = parseWhen(args[3:])
	if err != nil {
		err = fmt.Errorf("could not parse date: %w", err)
	}
	return
}
