package judge

import (
	"regexp"
	"strings"
)

var (
	h1Pattern        = regexp.MustCompile(`(?m)^# .+`)
	h2Pattern        = regexp.MustCompile(`(?m)^## .+`)
	sectionPattern   = regexp.MustCompile(`(?m)^#{1,3}\s+.+`)
	headingPattern   = regexp.MustCompile(`(?m)^(#{1,6})\s`)
	tableRowPattern  = regexp.MustCompile(`(?m)^\|.+\|.+\|$`)
	fencePattern     = regexp.MustCompile("(?m)^```")
	linkPattern      = regexp.MustCompile(`\[([^\]]*)\]\(([^)]+)\)`)
	checklistPattern = regexp.MustCompile(`(?m)^\s*-\s*\[[ x]\]`)
	bulletPattern    = regexp.MustCompile(`(?m)^\s*[-*]\s+\S`)
	numberedPattern  = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	examplePattern   = regexp.MustCompile(`(example|pattern|sample|template|snippet|demo)`)

	// sectionLinePattern and sectionStartPattern work on single lines.
	sectionLinePattern  = regexp.MustCompile(`^#{1,3}\s+.+`)
	sectionStartPattern = regexp.MustCompile(`^#{1,3}\s`)
)

var (
	coreKeywords = []string{
		"core", "principle", "overview", "fundamental", "philosophy",
		"guideline", "standard", "rule",
	}
	antiPatternKeywords = []string{
		"never", "don't", "avoid", "anti-pattern", "bad", "wrong",
		"mistake", "pitfall",
	}
	decisionKeywords = []string{
		"if ", "when ", "decision", "choose", "step ", "phase", "workflow",
	}
)

func countMatches(re *regexp.Regexp, text string) int {
	return len(re.FindAllStringIndex(text, -1))
}

// codeBlocks counts fenced code blocks as pairs of fence lines.
func codeBlocks(text string) int {
	return countMatches(fencePattern, text) / 2
}

func tableRows(text string) int {
	return countMatches(tableRowPattern, text)
}

// keywordsPresent counts how many distinct keywords occur in text.
func keywordsPresent(text string, keywords []string) int {
	found := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			found++
		}
	}
	return found
}

// splitLines splits text into lines the way an editor shows them: "\r\n"
// and "\n" both end a line and a trailing newline does not add an empty line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}
