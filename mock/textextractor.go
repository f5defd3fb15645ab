package mock

import (
	"context"

	cfr "github.com/markasoftware/cfr-court-opinions"
)

var _ cfr.TextExtractor = (*TextExtractor)(nil)

// TextExtractor is a mock implementation of cfr.TextExtractor.
type TextExtractor struct {
	ExtractTextFn func(ctx context.Context, pdf []byte) (string, error)
}

func (m *TextExtractor) ExtractText(ctx context.Context, pdf []byte) (string, error) {
	return m.ExtractTextFn(ctx, pdf)
}
