package cfr

import (
	"context"
	"io"
)

// Package represents one published document bundle from the GovInfo
// repository. A package is identified by its stable PackageID and is
// treated as an immutable snapshot once fetched.
//
// The JSON tags define the on-disk cache format for per-month package
// lists; the date fields are kept as the repository's original strings.
type Package struct {
	PackageID    string `json:"package_id"`
	Title        string `json:"title"`
	LastModified string `json:"last_modified_str"`
	DateIssued   string `json:"date_issued_str"` // YYYY-MM-DD
	PackageLink  string `json:"package_link"`
}

// Validate returns an error if the package contains invalid fields.
func (p *Package) Validate() error {
	if p.PackageID == "" {
		return Errorf(EINVALID, "package ID required")
	}
	return nil
}

// PackageAPI retrieves court-opinion packages from the document repository.
type PackageAPI interface {
	// Search returns every package published in the given month, following
	// pagination cursors until exhausted. Results are in arrival order.
	Search(ctx context.Context, year, month int) ([]Package, error)

	// DownloadZip streams the package's zip bundle to w. The write is not
	// atomic; callers own temp-file handling.
	DownloadZip(ctx context.Context, packageID string, w io.Writer) error
}

// TextExtractor converts a PDF's bytes into plain text. PDF parsing is an
// external collaborator: failures are common, document-local, and should
// not abort a scrape run.
type TextExtractor interface {
	ExtractText(ctx context.Context, pdf []byte) (string, error)
}
