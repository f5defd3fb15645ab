// Package slog provides logging decorators for the domain interfaces.
package slog

import (
	"context"
	"io"
	"log/slog"
	"time"

	cfr "github.com/markasoftware/cfr-court-opinions"
)

// Ensure LoggingPackageAPI implements cfr.PackageAPI.
var _ cfr.PackageAPI = (*LoggingPackageAPI)(nil)

// LoggingPackageAPI wraps a PackageAPI with timing logs, useful for
// watching a multi-hour scrape make progress.
type LoggingPackageAPI struct {
	next   cfr.PackageAPI
	logger *slog.Logger
}

// NewLoggingPackageAPI creates a new LoggingPackageAPI.
func NewLoggingPackageAPI(next cfr.PackageAPI, logger *slog.Logger) *LoggingPackageAPI {
	return &LoggingPackageAPI{next: next, logger: logger}
}

// Search delegates to the wrapped API and logs the outcome.
func (l *LoggingPackageAPI) Search(ctx context.Context, year, month int) ([]cfr.Package, error) {
	begin := time.Now()
	packages, err := l.next.Search(ctx, year, month)
	l.logger.Info("package search",
		"year", year,
		"month", month,
		"packages", len(packages),
		"duration", time.Since(begin),
		"err", err,
	)
	return packages, err
}

// DownloadZip delegates to the wrapped API and logs the outcome.
func (l *LoggingPackageAPI) DownloadZip(ctx context.Context, packageID string, w io.Writer) error {
	begin := time.Now()
	err := l.next.DownloadZip(ctx, packageID, w)
	l.logger.Info("zip download",
		"package_id", packageID,
		"duration", time.Since(begin),
		"err", err,
	)
	return err
}
