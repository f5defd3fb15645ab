package pdftotext_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/markasoftware/cfr-court-opinions/pdftotext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRunner struct {
	gotName string
	gotArgs []string
	gotIn   []byte
	out     []byte
	err     error
}

func (m *mockRunner) Run(ctx context.Context, stdin io.Reader, name string, args ...string) ([]byte, error) {
	m.gotName = name
	m.gotArgs = args
	m.gotIn, _ = io.ReadAll(stdin)
	return m.out, m.err
}

func TestExtractor_ExtractText(t *testing.T) {
	t.Parallel()

	runner := &mockRunner{out: []byte("see 20 C.F.R. § 1.23")}
	e := pdftotext.New(pdftotext.WithRunner(runner))

	text, err := e.ExtractText(context.Background(), []byte("%PDF-1.4 fake"))
	require.NoError(t, err)

	assert.Equal(t, "see 20 C.F.R. § 1.23", text)
	assert.Equal(t, "pdftotext", runner.gotName)
	assert.Equal(t, []string{"-", "-"}, runner.gotArgs)
	assert.Equal(t, []byte("%PDF-1.4 fake"), runner.gotIn)
}

func TestExtractor_ExtractText_Error(t *testing.T) {
	t.Parallel()

	runner := &mockRunner{err: errors.New("Syntax Error: Couldn't find trailer dictionary")}
	e := pdftotext.New(pdftotext.WithRunner(runner))

	_, err := e.ExtractText(context.Background(), []byte("not a pdf"))
	require.Error(t, err)
}
