// Package pdftotext implements cfr.TextExtractor by shelling out to the
// poppler pdftotext utility. PDF binary parsing is deliberately delegated:
// malformed PDFs are common, and a battle-tested external tool fails more
// predictably than any in-process parser.
package pdftotext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	cfr "github.com/markasoftware/cfr-court-opinions"
)

// Runner executes an external command with the given stdin and returns its
// stdout. It exists so tests can avoid a real pdftotext install.
type Runner interface {
	Run(ctx context.Context, stdin io.Reader, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, stdin io.Reader, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return stdout.Bytes(), nil
}

// Ensure Extractor implements cfr.TextExtractor at compile time.
var _ cfr.TextExtractor = (*Extractor)(nil)

// Extractor converts PDF bytes to plain text via pdftotext.
type Extractor struct {
	runner Runner
	binary string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithRunner overrides the command runner, for tests.
func WithRunner(r Runner) Option {
	return func(e *Extractor) { e.runner = r }
}

// WithBinary overrides the pdftotext binary path.
func WithBinary(path string) Option {
	return func(e *Extractor) { e.binary = path }
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		runner: execRunner{},
		binary: "pdftotext",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractText runs pdftotext over the PDF bytes and returns the plain
// text. Errors are document-local: callers log and move on rather than
// aborting a run.
func (e *Extractor) ExtractText(ctx context.Context, pdf []byte) (string, error) {
	out, err := e.runner.Run(ctx, bytes.NewReader(pdf), e.binary, "-", "-")
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	return string(out), nil
}
