package ecfr_test

import (
	"strings"
	"testing"

	"github.com/markasoftware/cfr-court-opinions/ecfr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const partXML = `<?xml version="1.0" encoding="UTF-8"?>
<DIV5 N="404" TYPE="PART">
  <HEAD>PART 404—FEDERAL OLD-AGE BENEFITS</HEAD>
  <DIV8 N="404.1" TYPE="SECTION">
    <HEAD>§ 404.1 Introduction.</HEAD>
    <P>This part relates to <E T="03">old-age</E> benefits.</P>
    <P>It has two paragraphs.</P>
  </DIV8>
  <DIV8 N="404.2" TYPE="SECTION">
    <P>Short section.</P>
  </DIV8>
  <DIV8 N="404.104-404.109" TYPE="SECTION">
    <P>Reserved range that must be skipped.</P>
  </DIV8>
  <DIV8 N="404.3a" TYPE="SECTION">
    <P>Suffixed section.</P>
  </DIV8>
</DIV5>`

func TestSectionWordCounts(t *testing.T) {
	t.Parallel()

	counts, skipped, err := ecfr.SectionWordCounts(strings.NewReader(partXML))
	require.NoError(t, err)

	// "§ 404.1 Introduction." (3) + "This part relates to old-age
	// benefits." (6, including the nested emphasis) + "It has two
	// paragraphs." (4).
	assert.Equal(t, 13, counts[1])
	assert.Equal(t, 2, counts[2])

	// Suffixed identifiers coerce to their digit content.
	assert.Equal(t, 2, counts[3])

	assert.Equal(t, []string{"404.104-404.109"}, skipped)
}

func TestSectionWordCounts_MalformedXML(t *testing.T) {
	t.Parallel()

	_, _, err := ecfr.SectionWordCounts(strings.NewReader("<DIV5><unclosed"))
	require.Error(t, err)
}
