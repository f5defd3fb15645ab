// Package cfr tracks cross-references between federal court opinions and
// the Code of Federal Regulations. It scrapes court-opinion PDF packages
// from the GovInfo repository and regulation text from the eCFR, extracts
// structured CFR citations from opinion text, and aggregates everything
// into a relational database for analysis.
//
// This package contains domain types, interfaces, and the citation
// extraction engine following Ben Johnson's Standard Package Layout.
// Implementations live in subdirectories named after their primary
// dependency (e.g., fs/, govinfo/, sqlite/).
package cfr
