// Package cmd implements the CLI commands to manage the portfolio.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"

	"github.com/brstocks/carteira"
)

// Register the subcommands. A main package calls Register() and then
// Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&buyCmd{}, "trades")
	c.Register(&sellCmd{}, "trades")
	c.Register(&splitCmd{}, "trades")

	c.Register(&summaryCmd{}, "reports")
	c.Register(&profitSummaryCmd{}, "reports")
	c.Register(&historyCmd{}, "reports")
}

// As a CLI application with a one-command lifecycle, package-level flags are fine.

var ledgerFlag = flag.String("ledger-file", "",
	"Path to the ledger file containing trades (JSONL format).\n If missing it will read the environment variable CARTEIRA_FILE.")

// ledgerFile resolves the ledger path at call time, after main has had a
// chance to load .env into the environment.
func ledgerFile() string {
	if *ledgerFlag != "" {
		return *ledgerFlag
	}
	if env := os.Getenv("CARTEIRA_FILE"); env != "" {
		return env
	}
	return "carteira.jsonl"
}

// loadPortfolio reads the app ledger file. A missing ledger yields an empty
// portfolio with a warning.
func loadPortfolio() (*carteira.Portfolio, error) {
	file := ledgerFile()
	if _, err := os.Stat(file); os.IsNotExist(err) {
		log.Warn().Str("file", file).Msg("ledger does not exist, starting a new portfolio")
	}
	return carteira.LoadPortfolio(file)
}

// savePortfolio writes the whole portfolio back to the app ledger file.
func savePortfolio(p *carteira.Portfolio) error {
	return carteira.SavePortfolio(ledgerFile(), p)
}

// printMarkdown renders a markdown report for the terminal. If the terminal
// renderer cannot be built the raw markdown is printed instead.
func printMarkdown(doc string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(180))
	if err != nil {
		fmt.Print(doc)
		return
	}
	out, err := r.Render(doc)
	if err != nil {
		fmt.Print(doc)
		return
	}
	fmt.Print(out)
}

// parseWhen parses the optional trailing [date [time]] arguments of the
// trade commands. No arguments means now.
func parseWhen(args []string) (time.Time, error) {
	switch len(args) {
	case 0:
		return time.Now().UTC().Truncate(time.Second), nil
	case 1:
		return time.Parse(time.DateOnly, args[0])
	default:
		return time.Parse(time.DateTime, args[0]+" "+args[1])
	}
}
