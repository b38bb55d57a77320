package cli

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool `help:"Show timing telemetry for operations."`
}

type Commands struct {
	Globals

	Check   CheckCmd   `cmd:"" help:"Load and validate a ledger snapshot."`
	Report  ReportCmd  `cmd:"" help:"Print a report page of a view."`
	Journal JournalCmd `cmd:"" help:"Print the journal of an account."`
	Views   ViewsCmd   `cmd:"" help:"List the views of a ledger."`
	Export  ExportCmd  `cmd:"" help:"Write every page of a view as JSON files."`
	Web     WebCmd     `cmd:"" help:"Start a web server."`
}
