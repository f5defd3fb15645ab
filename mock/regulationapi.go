package mock

import (
	"context"
	"io"

	cfr "github.com/markasoftware/cfr-court-opinions"
)

var _ cfr.RegulationAPI = (*RegulationAPI)(nil)

// RegulationAPI is a mock implementation of cfr.RegulationAPI.
type RegulationAPI struct {
	AgenciesFn  func(ctx context.Context, w io.Writer) error
	StructureFn func(ctx context.Context, year, month, title int, w io.Writer) error
	TitleXMLFn  func(ctx context.Context, year, month, title, part int, w io.Writer) error
}

func (m *RegulationAPI) Agencies(ctx context.Context, w io.Writer) error {
	return m.AgenciesFn(ctx, w)
}

func (m *RegulationAPI) Structure(ctx context.Context, year, month, title int, w io.Writer) error {
	return m.StructureFn(ctx, year, month, title, w)
}

func (m *RegulationAPI) TitleXML(ctx context.Context, year, month, title, part int, w io.Writer) error {
	return m.TitleXMLFn(ctx, year, month, title, part, w)
}
