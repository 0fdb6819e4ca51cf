package judge

import "strings"

// scoreActionability checks for material a reader can act on directly.
func scoreActionability(doc *Document) DimensionScore {
	t := startingAt(0)

	rows := tableRows(doc.Body)
	switch {
	case rows >= 10:
		t.award(3, "%d table rows", rows)
	case rows >= 5:
		t.award(2, "%d table rows", rows)
	case rows >= 1:
		t.award(1, "only %d table row(s)", rows)
	default:
		t.note("no tables")
	}

	blocks := codeBlocks(doc.Body)
	switch {
	case blocks >= 5:
		t.award(3, "%d code blocks", blocks)
	case blocks >= 2:
		t.award(2, "%d code blocks", blocks)
	case blocks >= 1:
		t.award(1, "only %d code block", blocks)
	default:
		t.note("no code blocks")
	}

	checklists := countMatches(checklistPattern, doc.Body)
	bullets := countMatches(bulletPattern, doc.Body)
	switch {
	case checklists >= 3:
		t.award(2, "%d checklist items", checklists)
	case checklists >= 1 || bullets >= 8:
		t.award(1, "%d checklist(s), %d bullet(s)", checklists, bullets)
	default:
		t.note("no checklists")
	}

	numbered := countMatches(numberedPattern, doc.Body)
	decisions := keywordsPresent(strings.ToLower(doc.Body), decisionKeywords)
	switch {
	case numbered >= 5 || decisions >= 4:
		t.award(2, "%d numbered items, %d decision keywords", numbered, decisions)
	case numbered >= 2 || decisions >= 2:
		t.award(1, "%d numbered items, %d decision keywords", numbered, decisions)
	default:
		t.note("no step-by-step instructions")
	}

	return t.finish(Actionability)
}
