package cfr_test

import (
	"testing"

	cfr "github.com/markasoftware/cfr-court-opinions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStructure() *cfr.StructureNode {
	return &cfr.StructureNode{
		Type:             "title",
		Identifier:       "20",
		LabelDescription: "Employees' Benefits",
		Children: []*cfr.StructureNode{
			{
				Type:       "subtitle",
				Identifier: "A",
				Children: []*cfr.StructureNode{
					{
						Type:             "chapter",
						Identifier:       "I",
						LabelDescription: "Office of Workers' Compensation Programs",
						Children: []*cfr.StructureNode{
							{
								Type:             "part",
								Identifier:       "1",
								LabelDescription: "Performance of functions",
								Children: []*cfr.StructureNode{
									{Type: "section", Identifier: "1.1", LabelDescription: "Definitions"},
									{Type: "section", Identifier: "1.2", LabelDescription: "Persons entitled"},
								},
							},
							{
								Type:             "part",
								Identifier:       "10-24",
								LabelDescription: "[Reserved]",
							},
						},
					},
				},
			},
			{
				Type:             "chapter",
				Identifier:       "II",
				LabelDescription: "Railroad Retirement Board",
			},
		},
	}
}

func TestStructureNode_Find(t *testing.T) {
	t.Parallel()

	t.Run("finds nodes in document order without descending into matches", func(t *testing.T) {
		t.Parallel()

		root := testStructure()

		var chapters []string
		for ch := range root.Find("chapter") {
			chapters = append(chapters, ch.Identifier)
		}
		assert.Equal(t, []string{"I", "II"}, chapters)
	})

	t.Run("finds parts nested below intermediate levels", func(t *testing.T) {
		t.Parallel()

		root := testStructure()

		var parts []string
		for p := range root.Find("part") {
			parts = append(parts, p.Identifier)
		}
		assert.Equal(t, []string{"1", "10-24"}, parts)
	})

	t.Run("supports early termination", func(t *testing.T) {
		t.Parallel()

		root := testStructure()

		var got []string
		for s := range root.Find("section") {
			got = append(got, s.Identifier)
			break
		}
		assert.Equal(t, []string{"1.1"}, got)
	})
}

func TestStructureNode_Descriptions(t *testing.T) {
	t.Parallel()

	d := testStructure().Descriptions(20)

	assert.Equal(t, map[string]string{"20": "Employees' Benefits"}, d.Title)
	assert.Equal(t, "Performance of functions", d.Part["1"])
	assert.Equal(t, "[Reserved]", d.Part["10-24"])
	assert.Equal(t, "Definitions", d.Section["1.1"])
	assert.Equal(t, "Persons entitled", d.Section["1.2"])
}

func TestNumericIdentifier(t *testing.T) {
	t.Parallel()

	n, err := cfr.NumericIdentifier("1910")
	require.NoError(t, err)
	assert.Equal(t, 1910, n)

	// Embedded whitespace from noisy extraction is tolerated.
	n, err = cfr.NumericIdentifier(" 19 10 ")
	require.NoError(t, err)
	assert.Equal(t, 1910, n)

	// Reserved placeholder ranges are rejected, not parsed.
	_, err = cfr.NumericIdentifier("10-24")
	require.Error(t, err)
	assert.Equal(t, cfr.EINVALID, cfr.ErrorCode(err))
}
