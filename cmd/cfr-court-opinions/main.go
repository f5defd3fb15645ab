package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/markasoftware/cfr-court-opinions/ecfr"
	"github.com/markasoftware/cfr-court-opinions/fs"
	"github.com/markasoftware/cfr-court-opinions/govinfo"
	"github.com/markasoftware/cfr-court-opinions/pdftotext"
	"github.com/markasoftware/cfr-court-opinions/scrape"
	cfrslog "github.com/markasoftware/cfr-court-opinions/slog"
	"github.com/markasoftware/cfr-court-opinions/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database opened by the make-db command.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: slog.New(slog.NewTextHandler(stderr, nil)),
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("cfr-court-opinions"),
		kong.Description("Scrape federal court opinions and the eCFR, extract CFR citations, and aggregate them into a SQLite database."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'cfr-court-opinions --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Wire command-specific dependencies based on command
	switch cmd {
	case "scrape-pdfs":
		work, err := fs.NewWorkDir(cli.ScrapePdfs.WorkDir)
		if err != nil {
			return fmt.Errorf("failed to prepare work directory: %w", err)
		}
		api := cfrslog.NewLoggingPackageAPI(govinfo.NewClient(cli.ScrapePdfs.APIKey), deps.Logger)
		deps.Scraper = &scrape.Scraper{
			API:    api,
			Texts:  pdftotext.New(),
			Work:   work,
			Logger: deps.Logger,
		}

	case "scrape-ecfr":
		work, err := fs.NewWorkDir(cli.ScrapeEcfr.WorkDir)
		if err != nil {
			return fmt.Errorf("failed to prepare work directory: %w", err)
		}
		deps.Scraper = &scrape.Scraper{
			Regs:   ecfr.NewClient(),
			Work:   work,
			Logger: deps.Logger,
		}

	case "make-db":
		work, err := fs.NewWorkDir(cli.MakeDB.WorkDir)
		if err != nil {
			return fmt.Errorf("failed to prepare work directory: %w", err)
		}
		m.DB = sqlite.NewDB(cli.MakeDB.Database)
		if err := m.DB.Open(); err != nil {
			return fmt.Errorf("failed to open database at %q: %w", cli.MakeDB.Database, err)
		}
		defer m.Close()
		deps.Aggregator = &sqlite.Aggregator{
			DB:     m.DB,
			Work:   work,
			Year:   cli.MakeDB.Year,
			Month:  cli.MakeDB.Month,
			Logger: deps.Logger,
		}
	}

	return kongCtx.Run(deps)
}
