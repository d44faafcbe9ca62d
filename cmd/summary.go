package cmd

import (
	"context"
	"flag"
	"time"

	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"

	"github.com/brstocks/carteira"
	"github.com/brstocks/carteira/renderer"
)

type summaryCmd struct {
	date string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "show the current valuation of the portfolio" }
func (*summaryCmd) Usage() string {
	return `carteira summary [-d <date>]

  Values every held asset at the latest market prices: stocks first, then
  real-estate funds. With -d, quantities are the ones held at that date;
  prices are always the latest quotes. An asset whose price cannot be
  fetched is reported as a warning and excluded from the table.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Reference date (2006-01-02). Defaults to today.")
}

func (c *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	asOf := time.Now().UTC()
	if c.date != "" {
		day, err := time.Parse(time.DateOnly, c.date)
		if err != nil {
			log.Error().Err(err).Msgf("could not parse date %q", c.date)
			return subcommands.ExitUsageError
		}
		// end of day, so the reference date's own trades count
		asOf = day.Add(24*time.Hour - time.Second)
	}

	p, err := loadPortfolio()
	if err != nil {
		log.Error().Err(err).Msg("could not load portfolio")
		return subcommands.ExitFailure
	}

	market := carteira.NewMFinance()
	s, err := p.Summarize(asOf, market.Quote)
	if err != nil {
		log.Error().Err(err).Msg("could not value the portfolio")
		return subcommands.ExitFailure
	}
	for _, w := range s.Warnings {
		log.Warn().Msg(w)
	}

	printMarkdown(renderer.Summary(s))
	return subcommands.ExitSuccess
}
