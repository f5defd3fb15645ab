package main

import (
	"fmt"

	cfr "github.com/markasoftware/cfr-court-opinions"
)

// Run executes the make-db command.
func (c *MakeDBCmd) Run(deps *Dependencies) error {
	if c.Month < 1 || c.Month > 12 {
		return cfr.Errorf(cfr.EINVALID, "month must be between 1 and 12, got %d", c.Month)
	}

	if err := deps.Aggregator.Run(deps.Ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", cfr.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Built %s from the %04d-%02d corpus\n", c.Database, c.Year, c.Month)
	return nil
}
