package scrape

import (
	"context"
	"io"

	cfr "github.com/markasoftware/cfr-court-opinions"
	"github.com/markasoftware/cfr-court-opinions/fs"
)

// CFR titles run 1 through 50; title 35 is reserved and has no content.
const (
	firstTitle    = 1
	lastTitle     = 50
	reservedTitle = 35
)

// RunEcfr scrapes eCFR data for one year/month: the agency list once, then
// per title its structural metadata, every part's regulation XML, and a
// derived descriptions table. Everything is cached with skip-on-success
// semantics, so reruns only fill in what is missing.
func (s *Scraper) RunEcfr(ctx context.Context, year, month int) error {
	logger := s.logger().With("year", year, "month", month)
	logger.Info("starting eCFR scrape")

	created, err := s.Work.EnsureFile(s.Work.AgenciesPath(), func(w io.Writer) error {
		return s.Regs.Agencies(ctx, w)
	})
	if err != nil {
		return err
	}
	if !created {
		logger.Info("agencies json already cached")
	}

	for title := firstTitle; title <= lastTitle; title++ {
		if title == reservedTitle {
			continue
		}
		if err := s.scrapeTitle(ctx, year, month, title); err != nil {
			return err
		}
	}

	logger.Info("eCFR scrape complete")
	return nil
}

// scrapeTitle caches one title's structure, per-part XML, and descriptions.
func (s *Scraper) scrapeTitle(ctx context.Context, year, month, title int) error {
	logger := s.logger().With("title", title)

	structPath := s.Work.StructurePath(year, month, title)
	if _, err := s.Work.EnsureFile(structPath, func(w io.Writer) error {
		return s.Regs.Structure(ctx, year, month, title, w)
	}); err != nil {
		return err
	}

	var root cfr.StructureNode
	if err := s.Work.ReadJSON(structPath, &root); err != nil {
		return err
	}

	// Parts usually live under chapters. A few titles hang parts off
	// subtitles instead; the chapter-level traversal misses those rare
	// cases, which is tolerated.
	for chapter := range root.Find("chapter") {
		for part := range chapter.Find("part") {
			partNum, err := cfr.NumericIdentifier(part.Identifier)
			if err != nil {
				logger.Warn("skipping non-numeric part identifier, probably a reserved range",
					"identifier", part.Identifier)
				continue
			}

			xmlPath := s.Work.PartXMLPath(year, month, title, chapter.Identifier, partNum)
			created, err := s.Work.EnsureFile(xmlPath, func(w io.Writer) error {
				return s.Regs.TitleXML(ctx, year, month, title, partNum, w)
			})
			if err != nil {
				return err
			}
			if created {
				logger.Info("downloaded part XML", "chapter", chapter.Identifier, "part", partNum)
			}
		}
	}

	descPath := s.Work.DescriptionsPath(year, month, title)
	if !fs.Exists(descPath) {
		if err := s.Work.WriteJSON(descPath, root.Descriptions(title)); err != nil {
			return err
		}
	}

	return nil
}
