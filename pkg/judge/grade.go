package judge

// Grade is a letter grade derived from an evaluation percentage.
type Grade string

// Letter grades from best to worst.
const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// GradeThreshold maps a minimum percentage to a grade.
type GradeThreshold struct {
	Min   float64
	Grade Grade
}

// gradeTable is sorted by descending minimum; the final 0 row always matches.
var gradeTable = []GradeThreshold{
	{Min: 90, Grade: GradeA},
	{Min: 80, Grade: GradeB},
	{Min: 70, Grade: GradeC},
	{Min: 60, Grade: GradeD},
	{Min: 0, Grade: GradeF},
}

// GradeTable returns a copy of the grade thresholds, best grade first.
func GradeTable() []GradeThreshold {
	table := make([]GradeThreshold, len(gradeTable))
	copy(table, gradeTable)
	return table
}

// GradeFor returns the first grade whose minimum the percentage meets.
func GradeFor(percentage float64) Grade {
	for _, row := range gradeTable {
		if percentage >= row.Min {
			return row.Grade
		}
	}
	return GradeF
}

// Rank orders grades from best (0) to worst. Unknown grades sort last.
func (g Grade) Rank() int {
	for i, row := range gradeTable {
		if row.Grade == g {
			return i
		}
	}
	return len(gradeTable)
}

func (g Grade) String() string {
	return string(g)
}
