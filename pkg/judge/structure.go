package judge

// scoreStructure checks frontmatter, an H1, H2 sections, tables and code blocks.
func scoreStructure(doc *Document) DimensionScore {
	t := startingAt(0)

	if doc.HasFrontmatter() {
		t.award(2, "has frontmatter")
		if doc.HasMeta("name") && doc.HasMeta("description") {
			t.award(1, "frontmatter has name+description")
		} else {
			t.note("frontmatter missing name or description")
		}
	} else {
		t.note("no YAML frontmatter")
	}

	if h1Pattern.MatchString(doc.Body) {
		t.award(1, "has H1 heading")
	} else {
		t.note("no H1 heading")
	}

	h2 := countMatches(h2Pattern, doc.Body)
	switch {
	case h2 >= 4:
		t.award(2, "%d H2 sections", h2)
	case h2 >= 2:
		t.award(1, "only %d H2 sections", h2)
	default:
		t.note("only %d H2 section(s)", h2)
	}

	rows := tableRows(doc.Body)
	switch {
	case rows >= 6:
		t.award(2, "%d table rows", rows)
	case rows >= 2:
		t.award(1, "only %d table rows", rows)
	default:
		t.note("no tables")
	}

	blocks := codeBlocks(doc.Body)
	switch {
	case blocks >= 3:
		t.award(2, "%d code blocks", blocks)
	case blocks >= 1:
		t.award(1, "only %d code block(s)", blocks)
	default:
		t.note("no code blocks")
	}

	return t.finish(Structure)
}
