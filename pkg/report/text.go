package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/fatih/color"
	"github.com/jingkaihe/skilljudge/pkg/judge"
)

// BarWidth is the number of cells in a dimension score bar.
const BarWidth = 11

// TextRenderer prints evaluations as colored text. A single evaluation is
// printed on its own (with notes when Verbose); several are followed by a
// summary table.
type TextRenderer struct {
	Verbose bool
}

// Render implements Renderer.
func (r *TextRenderer) Render(w io.Writer, evaluations []*judge.Evaluation) error {
	ew := &errWriter{w: w}

	if len(evaluations) == 1 {
		writeEvaluation(ew, evaluations[0])
		if r.Verbose {
			writeNotes(ew, evaluations[0])
		}
		return ew.err
	}

	for _, e := range evaluations {
		writeEvaluation(ew, e)
	}
	if ew.err != nil {
		return ew.err
	}

	return RenderSummary(w, evaluations)
}

// Bar draws score out of maxScore as width cells of full and light blocks.
func Bar(score, maxScore, width int) string {
	filled := 0
	if maxScore > 0 {
		filled = int(math.Round(float64(score) / float64(maxScore) * float64(width)))
	}
	filled = max(0, min(filled, width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func writeEvaluation(w *errWriter, e *judge.Evaluation) {
	bold := color.New(color.Bold)
	header := fmt.Sprintf("Skill Evaluation: %s", e.Name)

	w.printf("\n%s\n", bold.Sprint(header))
	w.printf("%s\n", bold.Sprint(strings.Repeat("=", len(header))))

	labelWidth := 0
	for _, d := range e.Dimensions {
		labelWidth = max(labelWidth, len(d.Name))
	}

	for _, d := range e.Dimensions {
		score := scoreColor(d.Score).Sprintf("%d/%d", d.Score, d.MaxScore)
		w.printf("  %-*s  %s  %s\n", labelWidth, d.Name, score, Bar(d.Score, d.MaxScore, BarWidth))
	}

	w.printf("\n  %s: %d/%d (%d%%) - Grade: %s\n\n",
		bold.Sprint("Overall"),
		e.Total(), e.MaxTotal(),
		int(math.Round(e.Percentage())),
		bold.Sprint(gradeColor(e.Grade()).Sprint(e.Grade())),
	)
}

func writeNotes(w *errWriter, e *judge.Evaluation) {
	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	for _, d := range e.Dimensions {
		w.printf("  %s:\n", bold.Sprint(d.Name))
		for _, note := range d.Notes {
			w.printf("    - %s\n", dim.Sprint(note))
		}
	}
	w.printf("\n")
}

func scoreColor(score int) *color.Color {
	switch {
	case score >= 8:
		return color.New(color.FgGreen)
	case score >= 5:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

func gradeColor(grade judge.Grade) *color.Color {
	switch grade {
	case judge.GradeA, judge.GradeB:
		return color.New(color.FgGreen)
	case judge.GradeC, judge.GradeD:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

// errWriter keeps the first write error so rendering code can stay linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
