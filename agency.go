package cfr

// AgencyList mirrors the eCFR admin API's agencies.json payload.
type AgencyList struct {
	Agencies []*Agency `json:"agencies"`
}

// Agency is one federal agency with the CFR chapters it administers.
// Agencies nest: children are sub-agencies with their own references.
type Agency struct {
	Name          string               `json:"name"`
	CfrReferences []AgencyCfrReference `json:"cfr_references"`
	Children      []*Agency            `json:"children"`
}

// AgencyCfrReference points an agency at a CFR title/chapter. A few
// references are scoped to a subtitle instead of a chapter and arrive with
// an empty Chapter; those are skipped during flattening.
type AgencyCfrReference struct {
	Title   int    `json:"title"`
	Chapter string `json:"chapter"`
}

// AgencyRef is one flattened (agency, title, chapter) mandate row.
type AgencyRef struct {
	Agency  string
	Title   int
	Chapter string
}

// Flatten walks the agency forest and returns one AgencyRef per
// chapter-scoped reference, covering agencies and all their descendants.
func (l *AgencyList) Flatten() []AgencyRef {
	var refs []AgencyRef
	stack := make([]*Agency, 0, len(l.Agencies))
	for i := len(l.Agencies) - 1; i >= 0; i-- {
		stack = append(stack, l.Agencies[i])
	}
	for len(stack) > 0 {
		agency := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, ref := range agency.CfrReferences {
			if ref.Chapter == "" {
				// Subtitle-scoped reference; no chapter to attribute.
				continue
			}
			refs = append(refs, AgencyRef{Agency: agency.Name, Title: ref.Title, Chapter: ref.Chapter})
		}
		for i := len(agency.Children) - 1; i >= 0; i-- {
			stack = append(stack, agency.Children[i])
		}
	}
	return refs
}
