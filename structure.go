package cfr

import (
	"context"
	"io"
	"iter"
	"strconv"
)

// StructureNode is one node of the eCFR's hierarchical table of contents
// (title > chapter > part > section). Identifiers are usually but not
// always numeric: reserved placeholders carry ranges like "457.104-457.109"
// and must be rejected by NumericIdentifier rather than parsed.
type StructureNode struct {
	Type             string           `json:"type"`
	Identifier       string           `json:"identifier"`
	LabelDescription string           `json:"label_description"`
	Children         []*StructureNode `json:"children"`
}

// Find yields every node of the wanted type under n, depth-first in child
// order. Matching nodes are yielded without descending into them, so a
// part nested under a matched chapter is found by a second Find on the
// chapter. The traversal uses an explicit worklist and is single-pass.
func (n *StructureNode) Find(wantedType string) iter.Seq[*StructureNode] {
	return func(yield func(*StructureNode) bool) {
		stack := []*StructureNode{n}
		for len(stack) > 0 {
			node := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if node.Type == wantedType {
				if !yield(node) {
					return
				}
				continue
			}
			// Push in reverse so children pop in document order.
			for i := len(node.Children) - 1; i >= 0; i-- {
				stack = append(stack, node.Children[i])
			}
		}
	}
}

// TitleDescriptions maps identifiers to human-readable descriptions for one
// CFR title, derived from its structure tree. Section keys use the eCFR's
// "part.section" form. This is the on-disk descriptions cache format.
type TitleDescriptions struct {
	Title   map[string]string `json:"title"`
	Part    map[string]string `json:"part"`
	Section map[string]string `json:"section"`
}

// Descriptions flattens the structure tree rooted at n (a title node) into
// description lookup tables.
func (n *StructureNode) Descriptions(title int) *TitleDescriptions {
	d := &TitleDescriptions{
		Title:   map[string]string{strconv.Itoa(title): n.LabelDescription},
		Part:    map[string]string{},
		Section: map[string]string{},
	}
	for part := range n.Find("part") {
		d.Part[part.Identifier] = part.LabelDescription
	}
	for section := range n.Find("section") {
		d.Section[section.Identifier] = section.LabelDescription
	}
	return d
}

// NumericIdentifier coerces a structure identifier to an int. Identifiers
// that are not purely numeric denote reserved placeholders; callers should
// skip them with a warning rather than abort.
func NumericIdentifier(s string) (int, error) {
	return atoiDigits(s)
}

// RegulationAPI retrieves regulation data from the eCFR. Large payloads are
// streamed to a writer so callers can apply their own atomic-write
// discipline.
type RegulationAPI interface {
	// Agencies streams the agency list JSON to w.
	Agencies(ctx context.Context, w io.Writer) error

	// Structure streams the structural table of contents for one title,
	// as of the first day of the given month.
	Structure(ctx context.Context, year, month, title int, w io.Writer) error

	// TitleXML streams the full regulation XML for one part of a title.
	TitleXML(ctx context.Context, year, month, title, part int, w io.Writer) error
}
