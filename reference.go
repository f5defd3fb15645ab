package cfr

import (
	"path"
	"strings"
)

// CfrReference records one citation occurrence linking a court-opinion PDF
// to a specific CFR title/part/section. Multiple references may share a
// (package, granule) pair and multiple documents may cite the same
// regulation; deduplication happens at database-insert time, not here.
//
// The JSON tags define the on-disk cache format for per-package reference
// lists. What the on-disk format calls "subpart" is the section number.
type CfrReference struct {
	PackageID string `json:"package_id"`
	GranuleID string `json:"granule_id"`

	// OrigText is the exact matched substring, retained for audit.
	OrigText string `json:"orig_text"`

	CfrTitle   int `json:"cfr_title"`
	CfrPart    int `json:"cfr_part"`
	CfrSubpart int `json:"cfr_subpart"`
}

// Validate returns an error if the reference contains invalid fields.
func (r *CfrReference) Validate() error {
	if r.PackageID == "" {
		return Errorf(EINVALID, "reference package ID required")
	}
	if r.GranuleID == "" {
		return Errorf(EINVALID, "reference granule ID required")
	}
	return nil
}

// GranuleID derives a granule identifier from a PDF's zip entry name by
// taking the basename without its .pdf suffix.
// Example: "pdf/USCOURTS-ca9-12-34567-0.pdf" → "USCOURTS-ca9-12-34567-0".
func GranuleID(entryName string) string {
	base := path.Base(entryName)
	return strings.TrimSuffix(base, ".pdf")
}
