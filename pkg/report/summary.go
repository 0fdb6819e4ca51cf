package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/jingkaihe/skilljudge/pkg/judge"
)

// columnLabels abbreviates dimension names for the summary table.
var columnLabels = map[string]string{
	judge.Structure.String():     "Struct",
	judge.Completeness.String():  "Compl",
	judge.Actionability.String(): "Action",
	judge.Depth.String():         "Depth",
	judge.Ecosystem.String():     "Eco",
	judge.Quality.String():       "Quality",
}

// RenderSummary writes a table with one row per evaluation followed by the
// batch totals line.
func RenderSummary(w io.Writer, evaluations []*judge.Evaluation) error {
	renderer := lipgloss.NewRenderer(w)
	titleStyle := renderer.NewStyle().Bold(true)
	headerStyle := renderer.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := renderer.NewStyle().Padding(0, 1)
	numberStyle := cellStyle.Align(lipgloss.Right)

	headers := summaryHeaders()
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(renderer.NewStyle().Faint(true)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			default:
				return numberStyle
			}
		})

	for _, e := range evaluations {
		t.Row(summaryRow(e)...)
	}

	rule := strings.Repeat("=", 70)
	_, err := fmt.Fprintf(w, "\n%s\n  %s\n%s\n%s\n\n  %s\n\n",
		rule,
		titleStyle.Render("Skill Evaluation Summary"),
		rule,
		t.String(),
		TotalsLine(judge.Summarize(evaluations)),
	)
	return err
}

// TotalsLine formats a summary as "Total: N skills  Avg: X/M (P%)  Grades: A=1, ...".
func TotalsLine(s judge.Summary) string {
	return fmt.Sprintf("Total: %d skills  Avg: %.1f/%d (%.0f%%)  Grades: %s",
		s.Count, s.AverageScore, s.MaxTotal, s.AveragePercentage, GradeDistribution(s.Grades))
}

// GradeDistribution renders grade counts as "A=1, C=2" in grade order.
func GradeDistribution(grades map[judge.Grade]int) string {
	keys := make([]judge.Grade, 0, len(grades))
	for g, n := range grades {
		if n > 0 {
			keys = append(keys, g)
		}
	}
	if len(keys) == 0 {
		return "none"
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Rank() < keys[j].Rank() })

	parts := make([]string, len(keys))
	for i, g := range keys {
		parts[i] = fmt.Sprintf("%s=%d", g, grades[g])
	}
	return strings.Join(parts, ", ")
}

func summaryHeaders() []string {
	headers := []string{"Skill"}
	for _, d := range judge.Dimensions() {
		headers = append(headers, columnLabels[d.String()])
	}
	return append(headers, "Total", "Grade")
}

func summaryRow(e *judge.Evaluation) []string {
	row := []string{e.Name}
	for _, d := range judge.Dimensions() {
		score, ok := e.Dimension(d)
		if !ok {
			row = append(row, "-")
			continue
		}
		row = append(row, strconv.Itoa(score.Score))
	}
	return append(row, fmt.Sprintf("%d/%d", e.Total(), e.MaxTotal()), e.Grade().String())
}
