// Package judge scores SKILL.md documents against six heuristic rubric
// dimensions and grades the result. Every scorer is a pure function of the
// parsed document and its ecosystem listing, so evaluations can run in any
// order or in parallel and always produce the same scores and notes.
package judge

import "fmt"

// MaxScore is the upper bound of every dimension score.
const MaxScore = 10

// Dimension identifies one of the six fixed scoring categories.
type Dimension int

const (
	// Structure rewards frontmatter, headings, tables and code blocks.
	Structure Dimension = iota
	// Completeness rewards metadata, core content, examples, warnings and links.
	Completeness
	// Actionability rewards tables, code, checklists and step-by-step guidance.
	Actionability
	// Depth rewards length, section count and word count.
	Depth
	// Ecosystem rewards auxiliary directories and files next to SKILL.md.
	Ecosystem
	// Quality starts at the maximum and deducts for placeholders and sloppy formatting.
	Quality
)

var dimensionNames = [...]string{
	Structure:     "Structure",
	Completeness:  "Completeness",
	Actionability: "Actionability",
	Depth:         "Depth",
	Ecosystem:     "Ecosystem",
	Quality:       "Quality",
}

// Dimensions returns all dimensions in evaluation order.
func Dimensions() []Dimension {
	return []Dimension{Structure, Completeness, Actionability, Depth, Ecosystem, Quality}
}

func (d Dimension) String() string {
	if d < 0 || int(d) >= len(dimensionNames) {
		return fmt.Sprintf("Dimension(%d)", int(d))
	}
	return dimensionNames[d]
}

// Input bundles everything a scorer may look at.
type Input struct {
	Document  *Document
	Ecosystem EcosystemListing
}

// Score runs the scorer attached to the dimension.
func (d Dimension) Score(in Input) DimensionScore {
	doc := in.Document
	if doc == nil {
		doc = ParseDocument("")
	}

	switch d {
	case Structure:
		return scoreStructure(doc)
	case Completeness:
		return scoreCompleteness(doc)
	case Actionability:
		return scoreActionability(doc)
	case Depth:
		return scoreDepth(doc)
	case Ecosystem:
		return scoreEcosystem(in.Ecosystem)
	case Quality:
		return scoreQuality(doc)
	default:
		return DimensionScore{Name: d.String(), MaxScore: MaxScore, Notes: []string{"unknown dimension"}}
	}
}

// DimensionScore is the outcome of a single scorer.
type DimensionScore struct {
	Name     string   `json:"name" yaml:"name"`
	Score    int      `json:"score" yaml:"score"`
	MaxScore int      `json:"max" yaml:"max"`
	Notes    []string `json:"notes" yaml:"notes"`
}

// zeroScores returns all six dimensions at zero, each carrying the same note.
func zeroScores(note string) []DimensionScore {
	scores := make([]DimensionScore, 0, len(dimensionNames))
	for _, d := range Dimensions() {
		scores = append(scores, DimensionScore{
			Name:     d.String(),
			Score:    0,
			MaxScore: MaxScore,
			Notes:    []string{note},
		})
	}
	return scores
}

// tally accumulates points and notes for one scorer. It is owned by a single
// scorer call and only clamped when finished.
type tally struct {
	points int
	notes  []string
}

func startingAt(points int) *tally {
	return &tally{points: points}
}

// award adds points and records why.
func (t *tally) award(points int, format string, args ...any) {
	t.points += points
	t.notes = append(t.notes, fmt.Sprintf(format, args...))
}

// deduct removes points and records why.
func (t *tally) deduct(points int, format string, args ...any) {
	t.points -= points
	t.notes = append(t.notes, fmt.Sprintf(format, args...))
}

func (t *tally) note(format string, args ...any) {
	t.notes = append(t.notes, fmt.Sprintf(format, args...))
}

func (t *tally) finish(d Dimension) DimensionScore {
	score := t.points
	if score < 0 {
		score = 0
	}
	if score > MaxScore {
		score = MaxScore
	}

	notes := make([]string, len(t.notes))
	copy(notes, t.notes)

	return DimensionScore{
		Name:     d.String(),
		Score:    score,
		MaxScore: MaxScore,
		Notes:    notes,
	}
}
