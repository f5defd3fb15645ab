package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/markasoftware/cfr-court-opinions/scrape"
	"github.com/markasoftware/cfr-court-opinions/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx        context.Context
	Stdout     io.Writer
	Stderr     io.Writer
	Logger     *slog.Logger
	Scraper    *scrape.Scraper
	Aggregator *sqlite.Aggregator
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	ScrapePdfs ScrapePdfsCmd `cmd:"" name:"scrape-pdfs" help:"Download one month of court-opinion PDFs and extract their CFR citations"`
	ScrapeEcfr ScrapeEcfrCmd `cmd:"" name:"scrape-ecfr" help:"Download the eCFR agency list, title structures, and regulation XML"`
	MakeDB     MakeDBCmd     `cmd:"" name:"make-db" help:"Aggregate scraped data into a SQLite database"`
}

// ScrapePdfsCmd is the "scrape-pdfs" subcommand.
type ScrapePdfsCmd struct {
	Year    int    `arg:"" help:"Year of the publication month to scrape"`
	Month   int    `arg:"" help:"Month of the publication month to scrape (1-12)"`
	WorkDir string `short:"w" default:"work" type:"path" help:"Directory holding scraped artifacts"`
	APIKey  string `required:"" env:"GOVINFO_API_KEY" help:"GovInfo API key (https://api.govinfo.gov/docs/)"`
}

// ScrapeEcfrCmd is the "scrape-ecfr" subcommand.
type ScrapeEcfrCmd struct {
	Year    int    `arg:"" help:"Year of the eCFR snapshot to scrape"`
	Month   int    `arg:"" help:"Month of the eCFR snapshot to scrape (1-12)"`
	WorkDir string `short:"w" default:"work" type:"path" help:"Directory holding scraped artifacts"`
}

// MakeDBCmd is the "make-db" subcommand.
type MakeDBCmd struct {
	Year     int    `arg:"" help:"Year of the eCFR snapshot to aggregate"`
	Month    int    `arg:"" help:"Month of the eCFR snapshot to aggregate (1-12)"`
	WorkDir  string `short:"w" default:"work" type:"path" help:"Directory holding scraped artifacts"`
	Database string `short:"d" default:"cfr.db" type:"path" help:"Path of the SQLite database to create"`
}
