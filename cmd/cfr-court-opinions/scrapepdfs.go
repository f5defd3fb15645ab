package main

import (
	"fmt"

	cfr "github.com/markasoftware/cfr-court-opinions"
)

// Run executes the scrape-pdfs command.
func (c *ScrapePdfsCmd) Run(deps *Dependencies) error {
	if c.Month < 1 || c.Month > 12 {
		return cfr.Errorf(cfr.EINVALID, "month must be between 1 and 12, got %d", c.Month)
	}

	if err := deps.Scraper.Run(deps.Ctx, c.Year, c.Month); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", cfr.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Scraped court opinions for %04d-%02d\n", c.Year, c.Month)
	return nil
}
