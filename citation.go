package cfr

import (
	"regexp"
	"strconv"
	"strings"
)

// markerRe counts occurrences of the "C.F.R" citation marker, tolerating
// the stray whitespace PDF text extraction inserts between characters.
// This count is the independent completeness oracle: a well-formed document
// yields one structured or known-unparseable match per marker.
var markerRe = regexp.MustCompile(`C\s*\.\s*F\s*\.\s*R`)

// multiRe recognizes the common multi-reference citation shape: a CFR title
// number, the marker, then one or more comma-separated part.section pairs,
// e.g. "20 C.F.R. §§ 1.23, 2.34". The comma-joined tail is captured as one
// span and decomposed by pairRe afterwards, because a repeated capture
// group only retains its final repetition.
var multiRe = regexp.MustCompile(`(\d+)\s*C\s*\.\s*F\s*\.\s*R\s*\.?\s*§?\s*§?\s*((?:\d+\s*\.\s*\d+\s*,\s*)*\d+\s*\.\s*\d+)`)

// pairRe tokenizes the comma-joined tail into individual part.section pairs.
var pairRe = regexp.MustCompile(`(\d+)\s*\.\s*(\d+)`)

// unparseableRes match citation shapes we knowingly decline to decode, such
// as "29 C.F.R. Part 1910, Appendix A". They produce no references but
// account for marker occurrences the primary pattern correctly skips.
var unparseableRes = []*regexp.Regexp{
	regexp.MustCompile(`\d+\s*C\s*\.\s*F\s*\.\s*R\s*\.?\s*,?\s*(?:[Pp]art|[Pp]t\.?|§)\s*\d+,?\s*(?:(?:[Ss]ubpart|[Ss]ubpt\.?)\s*[A-Z]+\s*,?\s*)?(?:[Aa]ppendix|[Aa]pp)`),
}

// Extraction is the result of scanning one document's text for CFR
// citations, together with the signals needed to judge its completeness.
type Extraction struct {
	// References holds one entry per decomposed part.section pair, in
	// document order. Never nil.
	References []CfrReference

	// Expected is the number of marker occurrences in the text.
	Expected int

	// Matched is the number of primary-pattern matches (each of which may
	// expand into several references).
	Matched int

	// Unparseable is the number of known-unparseable citation matches.
	Unparseable int
}

// Accounted returns how many marker occurrences are explained by either a
// structured match or a known-unparseable one.
func (e *Extraction) Accounted() int {
	return e.Matched + e.Unparseable
}

// Complete reports whether every marker occurrence is accounted for.
func (e *Extraction) Complete() bool {
	return e.Accounted() == e.Expected
}

// ExtractCitations scans the plain text extracted from a single PDF and
// returns every CFR citation it can structurally decode, tagged with the
// given package and granule identity.
//
// If fewer than half of the marker occurrences are accounted for (integer
// division), the text extraction most likely mangled the citations and
// partial results would silently undercount. That case returns an
// EUNPROCESSABLE error with no extraction, so the caller can leave the
// document un-cached and retry it on a later run.
func ExtractCitations(packageID, granuleID, text string) (*Extraction, error) {
	ex := &Extraction{
		References: []CfrReference{},
		Expected:   len(markerRe.FindAllStringIndex(text, -1)),
	}

	matches := multiRe.FindAllStringSubmatch(text, -1)
	ex.Matched = len(matches)
	for _, m := range matches {
		origText, titleStr, tail := m[0], m[1], m[2]
		title, err := atoiDigits(titleStr)
		if err != nil {
			continue
		}
		for _, pair := range pairRe.FindAllStringSubmatch(tail, -1) {
			part, err := atoiDigits(pair[1])
			if err != nil {
				continue
			}
			section, err := atoiDigits(pair[2])
			if err != nil {
				continue
			}
			ex.References = append(ex.References, CfrReference{
				PackageID:  packageID,
				GranuleID:  granuleID,
				OrigText:   origText,
				CfrTitle:   title,
				CfrPart:    part,
				CfrSubpart: section,
			})
		}
	}

	for _, re := range unparseableRes {
		ex.Unparseable += len(re.FindAllStringIndex(text, -1))
	}

	if ex.Accounted() < ex.Expected/2 {
		return nil, Errorf(EUNPROCESSABLE,
			"critically few CFR references: found %d markers but only %d matched the citation pattern or are known unparseable",
			ex.Expected, ex.Accounted())
	}

	return ex, nil
}

// atoiDigits coerces a numeric token to an int after stripping whitespace
// PDF extraction may have embedded in it.
func atoiDigits(s string) (int, error) {
	s = strings.Join(strings.Fields(s), "")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, Errorf(EINVALID, "identifier %q is not numeric", s)
	}
	return n, nil
}
