package judge

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxPlaceholderPenalty  = 4
	placeholderPenalty     = 2
	maxEmptySectionPenalty = 3
	trailingWhitespaceMax  = 5
	longLineLength         = 200
	longLineMax            = 3
)

type placeholder struct {
	label   string
	pattern *regexp.Regexp
}

var placeholders = []placeholder{
	{label: "TODO", pattern: regexp.MustCompile(`(?i)\bTODO\b`)},
	{label: "FIXME", pattern: regexp.MustCompile(`(?i)\bFIXME\b`)},
	{label: "<placeholder>", pattern: regexp.MustCompile(`(?i)<placeholder>`)},
	{label: "TBD", pattern: regexp.MustCompile(`\bTBD\b`)},
	{label: "XXX", pattern: regexp.MustCompile(`\bXXX\b`)},
}

// scoreQuality starts at MaxScore and deducts for unfinished or sloppy content.
func scoreQuality(doc *Document) DimensionScore {
	t := startingAt(MaxScore)

	penalty := 0
	for _, p := range placeholders {
		if hits := countMatches(p.pattern, doc.Body); hits > 0 {
			penalty += placeholderPenalty
			t.note("found %dx %s", hits, p.label)
		}
	}
	t.points -= min(penalty, maxPlaceholderPenalty)

	if empty := emptySections(doc.Body); empty > 0 {
		t.deduct(min(empty, maxEmptySectionPenalty), "%d empty section(s)", empty)
	}

	if headingLevelJump(doc.Body) {
		t.deduct(1, "heading level jump detected")
	}

	if trailing := trailingWhitespaceLines(doc.Content); trailing > trailingWhitespaceMax {
		t.deduct(1, "%d lines with trailing whitespace", trailing)
	}

	if long := longLines(doc.Body); long > longLineMax {
		t.deduct(1, "%d lines > %d chars", long, longLineLength)
	}

	if t.points < 0 {
		t.points = 0
	}
	if t.points == MaxScore {
		t.note("clean - no issues detected")
	}

	return t.finish(Quality)
}

// emptySections counts level 1-3 headings followed by at least one blank line
// and then another level 1-3 heading or the end of the text. Lines holding
// only whitespace count as blank; any other text makes the section non-empty.
func emptySections(body string) int {
	lines := strings.Split(body, "\n")
	count := 0

	for i := 0; i < len(lines); i++ {
		if !sectionLinePattern.MatchString(lines[i]) {
			continue
		}

		j := i + 1
		for j < len(lines) && isBlank(lines[j]) {
			j++
		}

		if j == len(lines) {
			// Newlines after the heading up to the end of the text.
			if len(lines)-1-i >= 2 {
				count++
			}
			break
		}

		if j-i >= 2 && sectionStartPattern.MatchString(lines[j]) {
			count++
			i = j - 1
		}
	}

	return count
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// headingLevelJump reports whether any heading is more than one level deeper
// than the heading before it.
func headingLevelJump(body string) bool {
	matches := headingPattern.FindAllStringSubmatch(body, -1)
	for i := 1; i < len(matches); i++ {
		if len(matches[i][1]) > len(matches[i-1][1])+1 {
			return true
		}
	}
	return false
}

func trailingWhitespaceLines(content string) int {
	count := 0
	for _, line := range splitLines(content) {
		if line != strings.TrimRightFunc(line, unicode.IsSpace) {
			count++
		}
	}
	return count
}

func longLines(body string) int {
	count := 0
	for _, line := range splitLines(body) {
		if utf8.RuneCountInString(line) > longLineLength {
			count++
		}
	}
	return count
}
