// Package scrape orchestrates the fetch, cache, and extract pipeline for
// court-opinion packages and eCFR regulation data. Execution is sequential
// and blocking: every unit of work is idempotent at the "does the output
// file already exist" granularity, so an interrupted run can simply be
// restarted.
package scrape

import (
	"archive/zip"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	cfr "github.com/markasoftware/cfr-court-opinions"
	"github.com/markasoftware/cfr-court-opinions/fs"
)

// Scraper wires the remote APIs, the PDF text extractor, and the on-disk
// cache into the scrape pipeline. Run needs API, Texts, and Work; RunEcfr
// needs Regs and Work. Logger defaults to slog.Default().
type Scraper struct {
	API    cfr.PackageAPI
	Regs   cfr.RegulationAPI
	Texts  cfr.TextExtractor
	Work   *fs.WorkDir
	Logger *slog.Logger
}

func (s *Scraper) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Run scrapes one month of court-opinion packages: the package list first,
// then each package's PDF bundle in order. Packages whose text defeats
// citation extraction are logged and skipped so a later run retries them;
// any other error is fatal and aborts the run.
func (s *Scraper) Run(ctx context.Context, year, month int) error {
	logger := s.logger().With("run_id", uuid.New().String(), "year", year, "month", month)
	logger.Info("starting package scrape")

	packages, err := s.PackageList(ctx, year, month)
	if err != nil {
		return err
	}

	for _, pkg := range packages {
		if err := s.ScrapePackage(ctx, year, month, pkg); err != nil {
			if cfr.ErrorCode(err) == cfr.EUNPROCESSABLE {
				logger.Error("skipping package, will retry on a later run",
					"package_id", pkg.PackageID, "err", cfr.ErrorMessage(err))
				continue
			}
			return err
		}
	}

	logger.Info("package scrape complete", "packages", len(packages))
	return nil
}

// PackageList returns the month's package list, reading the cache when
// present and otherwise performing the paged search and caching the
// result.
func (s *Scraper) PackageList(ctx context.Context, year, month int) ([]cfr.Package, error) {
	path := s.Work.PackageListPath(year, month)
	if fs.Exists(path) {
		var packages []cfr.Package
		if err := s.Work.ReadJSON(path, &packages); err != nil {
			return nil, err
		}
		s.logger().Info("package list already cached", "path", path, "packages", len(packages))
		return packages, nil
	}

	packages, err := s.API.Search(ctx, year, month)
	if err != nil {
		return nil, err
	}
	if packages == nil {
		packages = []cfr.Package{}
	}
	if err := s.Work.WriteJSON(path, packages); err != nil {
		return nil, err
	}
	return packages, nil
}

// ScrapePackage downloads one package's zip bundle, extracts CFR citations
// from every PDF in it, and caches the combined reference list. It is a
// no-op when the references file already exists.
//
// A critical extraction undercount in any PDF aborts the whole package
// with an EUNPROCESSABLE error and no cache write: partial, unreliable
// results are strictly worse than a clear retry signal. PDF-level text
// extraction failures are document-local and only logged.
func (s *Scraper) ScrapePackage(ctx context.Context, year, month int, pkg cfr.Package) error {
	refsPath := s.Work.ReferencesPath(year, month, pkg.PackageID)
	if fs.Exists(refsPath) {
		return nil
	}
	logger := s.logger().With("package_id", pkg.PackageID)

	tempDir, err := os.MkdirTemp("", "cfr-package-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tempDir)

	zipPath := filepath.Join(tempDir, "package.zip")
	if err := s.downloadZip(ctx, pkg.PackageID, zipPath); err != nil {
		return err
	}

	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer zr.Close()

	references := []cfr.CfrReference{}
	for _, entry := range zr.File {
		if !strings.HasSuffix(entry.Name, ".pdf") {
			continue
		}
		granuleID := cfr.GranuleID(entry.Name)
		logger.Info("scanning PDF", "entry", entry.Name)

		text, err := s.entryText(ctx, entry)
		if err != nil {
			// Malformed PDFs are common and document-local; an empty
			// citation set is recorded rather than failing the run.
			logger.Error("pdf text extraction failed", "entry", entry.Name, "err", err)
			continue
		}

		ex, err := cfr.ExtractCitations(pkg.PackageID, granuleID, text)
		if err != nil {
			return err
		}
		if !ex.Complete() {
			logger.Warn("not all citation markers accounted for, continuing with partial results",
				"granule_id", granuleID, "expected", ex.Expected, "accounted", ex.Accounted())
		}
		logger.Info("extracted CFR references",
			"granule_id", granuleID, "references", len(ex.References), "unparseable", ex.Unparseable)
		references = append(references, ex.References...)
	}

	if err := s.Work.WriteJSON(refsPath, references); err != nil {
		return err
	}
	logger.Info("wrote references", "count", len(references))
	return nil
}

func (s *Scraper) downloadZip(ctx context.Context, packageID, dst string) error {
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	if err := s.API.DownloadZip(ctx, packageID, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *Scraper) entryText(ctx context.Context, entry *zip.File) (string, error) {
	rc, err := entry.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	pdf, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return s.Texts.ExtractText(ctx, pdf)
}
