package judge

import "strings"

// scoreDepth measures the overall size of the document.
func scoreDepth(doc *Document) DimensionScore {
	t := startingAt(0)

	// Lines are counted over the whole file, frontmatter included.
	lines := strings.Count(doc.Content, "\n") + 1
	sections := countMatches(sectionPattern, doc.Body)
	words := len(strings.Fields(doc.Body))

	switch {
	case lines >= 250:
		t.award(4, "%d lines (excellent)", lines)
	case lines >= 150:
		t.award(3, "%d lines (good)", lines)
	case lines >= 80:
		t.award(2, "%d lines (adequate)", lines)
	case lines >= 50:
		t.award(1, "%d lines (minimal)", lines)
	default:
		t.note("%d lines (too short)", lines)
	}

	switch {
	case sections >= 8:
		t.award(3, "%d sections", sections)
	case sections >= 5:
		t.award(2, "%d sections", sections)
	case sections >= 2:
		t.award(1, "%d sections", sections)
	default:
		t.note("only %d section(s)", sections)
	}

	switch {
	case words >= 1500:
		t.award(3, "%d words (deep)", words)
	case words >= 800:
		t.award(2, "%d words", words)
	case words >= 300:
		t.award(1, "%d words", words)
	default:
		t.note("only %d words", words)
	}

	return t.finish(Depth)
}
