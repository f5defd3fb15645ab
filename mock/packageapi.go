// Package mock provides function-field test doubles for the domain
// interfaces.
package mock

import (
	"context"
	"io"

	cfr "github.com/markasoftware/cfr-court-opinions"
)

var _ cfr.PackageAPI = (*PackageAPI)(nil)

// PackageAPI is a mock implementation of cfr.PackageAPI.
type PackageAPI struct {
	SearchFn      func(ctx context.Context, year, month int) ([]cfr.Package, error)
	DownloadZipFn func(ctx context.Context, packageID string, w io.Writer) error
}

func (m *PackageAPI) Search(ctx context.Context, year, month int) ([]cfr.Package, error) {
	return m.SearchFn(ctx, year, month)
}

func (m *PackageAPI) DownloadZip(ctx context.Context, packageID string, w io.Writer) error {
	return m.DownloadZipFn(ctx, packageID, w)
}
