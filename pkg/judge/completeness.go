package judge

import (
	"strings"
	"unicode/utf8"
)

const maxExampleCoverage = 6

// scoreCompleteness checks metadata, core content, examples, warnings and links.
func scoreCompleteness(doc *Document) DimensionScore {
	t := startingAt(0)
	lower := strings.ToLower(doc.Body)

	if doc.Meta("name") != "" {
		t.award(1, "has name")
	} else {
		t.note("missing name")
	}

	desc := utf8.RuneCountInString(doc.Meta("description"))
	switch {
	case desc >= 80:
		t.award(2, "rich description")
	case desc >= 20:
		t.award(1, "short description")
	default:
		t.note("missing or very short description")
	}

	core := keywordsPresent(lower, coreKeywords)
	switch {
	case core >= 3:
		t.award(2, "strong core content")
	case core >= 1:
		t.award(1, "some core content")
	default:
		t.note("weak core content")
	}

	coverage := countMatches(examplePattern, lower) + codeBlocks(doc.Body)
	if coverage > maxExampleCoverage {
		coverage = maxExampleCoverage
	}
	switch {
	case coverage >= 4:
		t.award(2, "good examples coverage")
	case coverage >= 1:
		t.award(1, "some examples")
	default:
		t.note("no examples")
	}

	if keywordsPresent(lower, antiPatternKeywords) >= 2 {
		t.award(1, "has anti-patterns / warnings")
	} else {
		t.note("no anti-patterns section")
	}

	links := countMatches(linkPattern, doc.Body)
	switch {
	case links >= 5:
		t.award(2, "%d links/references", links)
	case links >= 1:
		t.award(1, "only %d link(s)", links)
	default:
		t.note("no links or references")
	}

	return t.finish(Completeness)
}
