package ecfr

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// SectionWordCounts parses one part's regulation XML and returns the word
// count of every section in it, keyed by section number. DIV8 elements are
// the eCFR's section nodes; their N attribute holds "part.section".
//
// Section names that don't split into exactly two dot-separated fields
// (reserved ranges like "457.104-457.109") are skipped and returned in the
// second value so the caller can log them.
func SectionWordCounts(r io.Reader) (map[int]int, []string, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, nil, fmt.Errorf("parsing part XML: %w", err)
	}

	counts := make(map[int]int)
	var skipped []string

	for _, div8 := range doc.FindElements("//DIV8") {
		name := div8.SelectAttrValue("N", "")
		fields := strings.Split(name, ".")
		if len(fields) != 2 {
			skipped = append(skipped, name)
			continue
		}
		section, ok := digitsToInt(fields[1])
		if !ok {
			skipped = append(skipped, name)
			continue
		}
		counts[section] += elementWords(div8)
	}

	return counts, skipped, nil
}

// digitsToInt coerces an identifier by keeping only its digit characters.
// Suffixed sections like "104a" count toward section 104.
func digitsToInt(s string) (int, bool) {
	var b strings.Builder
	for _, c := range s {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0, false
	}
	return n, true
}

// elementWords counts whitespace-separated words across every text node
// nested under el.
func elementWords(el *etree.Element) int {
	words := 0
	stack := []*etree.Element{el}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, tok := range cur.Child {
			switch t := tok.(type) {
			case *etree.CharData:
				words += len(strings.Fields(t.Data))
			case *etree.Element:
				stack = append(stack, t)
			}
		}
	}
	return words
}
