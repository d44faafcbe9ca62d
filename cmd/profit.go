package cmd

import (
	"context"
	"flag"
	"strconv"
	"time"

	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"

	"github.com/brstocks/carteira/renderer"
)

type profitSummaryCmd struct{}

func (*profitSummaryCmd) Name() string { return "profit-summary" }
func (*profitSummaryCmd) Synopsis() string {
	return "show the month-by-month realized profit of a year"
}
func (*profitSummaryCmd) Usage() string {
	return `carteira profit-summary [<year>]

  Buckets the realized profit of every sell in the given year by calendar
  month, with the amount sold and the due swing-trade tax per month. The
  default year is the current one.
`
}

func (*profitSummaryCmd) SetFlags(*flag.FlagSet) {}

func (c *profitSummaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	year := time.Now().Year()
	if args := f.Args(); len(args) > 0 {
		y, err := strconv.Atoi(args[0])
		if err != nil {
			log.Error().Err(err).Msgf("could not parse year %q", args[0])
			return subcommands.ExitUsageError
		}
		year = y
	}

	p, err := loadPortfolio()
	if err != nil {
		log.Error().Err(err).Msg("could not load portfolio")
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.ProfitByMonth(p.ProfitByMonth(year)))
	return subcommands.ExitSuccess
}
