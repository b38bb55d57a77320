package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	beanreport "github.com/robinvdvleuten/beanreport/cli"
)

var (
	// Version contains the application version number. It's set via ldflags
	// when building.
	Version = ""

	// CommitSHA contains the SHA of the commit that this application was built
	// against. It's set via ldflags when building.
	CommitSHA = ""

	cli struct {
		Version kong.VersionFlag `help:"Show version information"`
		beanreport.Commands
	}
)

func main() {
	// BEANREPORT_* settings may come from a .env file next to the ledger.
	_ = godotenv.Load()

	ctx := kong.Parse(&cli,
		kong.Vars{
			"version": buildVersion(),
		},
		kong.Name("beanreport"),
		kong.Description("Reports, journals and views over a ledger snapshot."),
		kong.UsageOnError(),
		kong.Bind(&cli.Globals),
	)

	beanreport.Version = Version
	beanreport.CommitSHA = CommitSHA

	err := ctx.Run()

	var cmdErr *beanreport.CommandError
	if errors.As(err, &cmdErr) {
		os.Exit(beanreport.ExitCode(err))
	}
	ctx.FatalIfErrorf(err)
}

func buildVersion() string {
	if Version == "" {
		Version = "dev"
	}
	if CommitSHA == "" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, CommitSHA)
}
