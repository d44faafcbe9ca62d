package cmd

import (
	"context"
	"flag"
	"strings"

	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"

	"github.com/brstocks/carteira/renderer"
)

type historyCmd struct{}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "show the trade history of one asset" }
func (*historyCmd) Usage() string {
	return `carteira history <ticker>

  Lists every recorded trade of one asset in chronological order, with the
  realized profit of each sell.
`
}

func (*historyCmd) SetFlags(*flag.FlagSet) {}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) != 1 {
		log.Error().Msg("expected: history <ticker>")
		return subcommands.ExitUsageError
	}
	ticker := strings.ToUpper(args[0])

	p, err := loadPortfolio()
	if err != nil {
		log.Error().Err(err).Msg("could not load portfolio")
		return subcommands.ExitFailure
	}

	pos := p.Position(ticker)
	if pos == nil {
		log.Error().Msgf("no position for %s in the portfolio", ticker)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.History(pos))
	return subcommands.ExitSuccess
}
