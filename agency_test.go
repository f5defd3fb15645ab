package cfr_test

import (
	"testing"

	cfr "github.com/markasoftware/cfr-court-opinions"
	"github.com/stretchr/testify/assert"
)

func TestAgencyList_Flatten(t *testing.T) {
	t.Parallel()

	list := &cfr.AgencyList{
		Agencies: []*cfr.Agency{
			{
				Name: "Department of Labor",
				CfrReferences: []cfr.AgencyCfrReference{
					{Title: 29, Chapter: "XVII"},
				},
				Children: []*cfr.Agency{
					{
						Name: "Occupational Safety and Health Administration",
						CfrReferences: []cfr.AgencyCfrReference{
							{Title: 29, Chapter: "XVII"},
							{Title: 41, Chapter: ""}, // subtitle-scoped, skipped
						},
					},
				},
			},
			{
				Name: "Railroad Retirement Board",
				CfrReferences: []cfr.AgencyCfrReference{
					{Title: 20, Chapter: "II"},
				},
			},
		},
	}

	refs := list.Flatten()

	assert.Equal(t, []cfr.AgencyRef{
		{Agency: "Department of Labor", Title: 29, Chapter: "XVII"},
		{Agency: "Occupational Safety and Health Administration", Title: 29, Chapter: "XVII"},
		{Agency: "Railroad Retirement Board", Title: 20, Chapter: "II"},
	}, refs)
}
