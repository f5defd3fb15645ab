package scrape_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	cfr "github.com/markasoftware/cfr-court-opinions"
	"github.com/markasoftware/cfr-court-opinions/fs"
	"github.com/markasoftware/cfr-court-opinions/mock"
	"github.com/markasoftware/cfr-court-opinions/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func title20Structure(t *testing.T) []byte {
	t.Helper()
	data, err := json.Marshal(&cfr.StructureNode{
		Type:             "title",
		Identifier:       "20",
		LabelDescription: "Employees' Benefits",
		Children: []*cfr.StructureNode{
			{
				Type:             "chapter",
				Identifier:       "I",
				LabelDescription: "Workers' Compensation",
				Children: []*cfr.StructureNode{
					{Type: "part", Identifier: "1", LabelDescription: "Performance of functions"},
					{Type: "part", Identifier: "10-24", LabelDescription: "[Reserved]"},
				},
			},
		},
	})
	require.NoError(t, err)
	return data
}

func TestScraper_RunEcfr(t *testing.T) {
	t.Parallel()

	var agencyCalls, xmlCalls atomic.Int32
	var xmlRequests []string

	structure := title20Structure(t)
	regs := &mock.RegulationAPI{
		AgenciesFn: func(ctx context.Context, w io.Writer) error {
			agencyCalls.Add(1)
			_, err := w.Write([]byte(`{"agencies": []}`))
			return err
		},
		StructureFn: func(ctx context.Context, year, month, title int, w io.Writer) error {
			require.NotEqual(t, 35, title, "reserved title 35 must not be fetched")
			if title == 20 {
				_, err := w.Write(structure)
				return err
			}
			_, err := fmt.Fprintf(w, `{"type": "title", "identifier": "%d"}`, title)
			return err
		},
		TitleXMLFn: func(ctx context.Context, year, month, title, part int, w io.Writer) error {
			xmlCalls.Add(1)
			xmlRequests = append(xmlRequests, fmt.Sprintf("title-%d-part-%d", title, part))
			_, err := w.Write([]byte("<DIV5/>"))
			return err
		},
	}

	work, err := fs.NewWorkDir(t.TempDir())
	require.NoError(t, err)
	s := &scrape.Scraper{
		Regs:   regs,
		Work:   work,
		Logger: slog.New(slog.DiscardHandler),
	}

	require.NoError(t, s.RunEcfr(context.Background(), 2025, 1))

	// Only the numeric part under title 20's chapter was downloaded; the
	// reserved range was skipped with a warning.
	assert.Equal(t, []string{"title-20-part-1"}, xmlRequests)
	assert.True(t, fs.Exists(work.PartXMLPath(2025, 1, 20, "I", 1)))
	assert.True(t, fs.Exists(work.AgenciesPath()))

	var desc cfr.TitleDescriptions
	require.NoError(t, work.ReadJSON(work.DescriptionsPath(2025, 1, 20), &desc))
	assert.Equal(t, "Employees' Benefits", desc.Title["20"])
	assert.Equal(t, "Performance of functions", desc.Part["1"])

	// A rerun is fully served from the cache.
	require.NoError(t, s.RunEcfr(context.Background(), 2025, 1))
	assert.EqualValues(t, 1, agencyCalls.Load())
	assert.EqualValues(t, 1, xmlCalls.Load())
}
