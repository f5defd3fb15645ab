package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	cfr "github.com/markasoftware/cfr-court-opinions"
	"github.com/markasoftware/cfr-court-opinions/ecfr"
	"github.com/markasoftware/cfr-court-opinions/fs"
)

// Aggregator joins the cached corpora (agency list, regulation XML and
// descriptions, package lists, and per-package citation sets) into
// denormalized relational rows. All inserts are INSERT OR IGNORE by
// natural key, so re-running after a partial failure only fills gaps.
type Aggregator struct {
	DB   *DB
	Work *fs.WorkDir

	// Year and Month select which cached eCFR partition to aggregate.
	Year  int
	Month int

	Logger *slog.Logger
}

func (a *Aggregator) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

// Run performs the full aggregation: agencies, then regulation text, then
// opinions and their citations.
func (a *Aggregator) Run(ctx context.Context) error {
	if err := a.insertAgencies(ctx); err != nil {
		return fmt.Errorf("aggregate agencies: %w", err)
	}
	if err := a.insertRegulations(ctx); err != nil {
		return fmt.Errorf("aggregate regulations: %w", err)
	}
	if err := a.insertOpinions(ctx); err != nil {
		return fmt.Errorf("aggregate opinions: %w", err)
	}
	return nil
}

// insertAgencies flattens the cached agency forest into mandate rows.
func (a *Aggregator) insertAgencies(ctx context.Context) error {
	var list cfr.AgencyList
	if err := a.Work.ReadJSON(a.Work.AgenciesPath(), &list); err != nil {
		return err
	}

	for _, ref := range list.Flatten() {
		if _, err := a.DB.ExecContext(ctx, `
			INSERT OR IGNORE INTO cfr_agency (agency, title, chapter)
			VALUES (?, ?, ?)
		`, ref.Agency, ref.Title, ref.Chapter); err != nil {
			return err
		}
	}
	return nil
}

// insertRegulations walks every cached part XML, counts words per section,
// and records titles, parts, and sections with their descriptions.
func (a *Aggregator) insertRegulations(ctx context.Context) error {
	descriptions := make(map[int]*cfr.TitleDescriptions)
	load := func(title int) (*cfr.TitleDescriptions, error) {
		if d, ok := descriptions[title]; ok {
			return d, nil
		}
		var d cfr.TitleDescriptions
		if err := a.Work.ReadJSON(a.Work.DescriptionsPath(a.Year, a.Month, title), &d); err != nil {
			return nil, err
		}
		descriptions[title] = &d
		return &d, nil
	}

	parts, err := a.Work.PartXMLs(a.Year, a.Month)
	if err != nil {
		return err
	}

	for _, part := range parts {
		desc, err := load(part.Title)
		if err != nil {
			return err
		}

		counts, skipped, err := a.sectionWordCounts(part.Path)
		if err != nil {
			return err
		}
		for _, name := range skipped {
			a.logger().Warn("skipping unparseable section name, probably a reserved range",
				"title", part.Title, "part", part.Part, "section_name", name)
		}

		for section, words := range counts {
			key := fmt.Sprintf("%d.%d", part.Part, section)
			if _, err := a.DB.ExecContext(ctx, `
				INSERT OR IGNORE INTO cfr_section (title, chapter, part, section, num_words, description)
				VALUES (?, ?, ?, ?, ?, ?)
			`, part.Title, part.Chapter, part.Part, section, words, desc.Section[key]); err != nil {
				return err
			}
		}
	}

	// Title and part descriptions come straight from the cached tables.
	// Titles the eCFR scrape hasn't reached yet are skipped so a partial
	// scrape can still be aggregated.
	for title := 1; title <= 50; title++ {
		if title == 35 {
			continue
		}
		desc, err := load(title)
		if cfr.ErrorCode(err) == cfr.ENOTFOUND {
			a.logger().Warn("no cached descriptions for title, skipping", "title", title)
			continue
		}
		if err != nil {
			return err
		}

		if _, err := a.DB.ExecContext(ctx, `
			INSERT OR IGNORE INTO cfr_title (title, description)
			VALUES (?, ?)
		`, title, desc.Title[strconv.Itoa(title)]); err != nil {
			return err
		}
		for part, description := range desc.Part {
			if _, err := a.DB.ExecContext(ctx, `
				INSERT OR IGNORE INTO cfr_part (title, part, description)
				VALUES (?, ?, ?)
			`, title, part, description); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *Aggregator) sectionWordCounts(path string) (map[int]int, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return ecfr.SectionWordCounts(f)
}

// insertOpinions records one row per opinion PDF and one join row per
// extracted citation. Case titles come from the cached package lists,
// which index every package the scraper has seen across all partitions.
func (a *Aggregator) insertOpinions(ctx context.Context) error {
	byID, err := a.packageIndex()
	if err != nil {
		return err
	}

	refPaths, err := a.Work.ReferencePaths()
	if err != nil {
		return err
	}

	for _, path := range refPaths {
		var refs []cfr.CfrReference
		if err := a.Work.ReadJSON(path, &refs); err != nil {
			return err
		}

		for _, ref := range refs {
			pkg, ok := byID[ref.PackageID]
			if !ok {
				return cfr.Errorf(cfr.ENOTFOUND, "package %q referenced by %q has no cached package list entry", ref.PackageID, path)
			}

			if _, err := a.DB.ExecContext(ctx, `
				INSERT OR IGNORE INTO court_opinion_pdf (package_id, granule_id, case_title, date_opinion_issued)
				VALUES (?, ?, ?, ?)
			`, ref.PackageID, ref.GranuleID, pkg.Title, pkg.DateIssued); err != nil {
				return err
			}

			if _, err := a.DB.ExecContext(ctx, `
				INSERT OR IGNORE INTO cfr_pdf (title, part, section, granule_id)
				VALUES (?, ?, ?, ?)
			`, ref.CfrTitle, ref.CfrPart, ref.CfrSubpart, ref.GranuleID); err != nil {
				return err
			}
		}
	}
	return nil
}

// packageIndex builds a package_id → Package map from every cached
// package list.
func (a *Aggregator) packageIndex() (map[string]cfr.Package, error) {
	paths, err := a.Work.PackageListPaths()
	if err != nil {
		return nil, err
	}

	byID := make(map[string]cfr.Package)
	for _, path := range paths {
		var packages []cfr.Package
		if err := a.Work.ReadJSON(path, &packages); err != nil {
			return nil, err
		}
		for _, pkg := range packages {
			byID[pkg.PackageID] = pkg
		}
	}
	return byID, nil
}
