package judge

import "math"

// Evaluation is the scored result for one skill directory.
type Evaluation struct {
	Name       string
	Path       string
	Dimensions []DimensionScore
}

// Total is the sum of all dimension scores.
func (e *Evaluation) Total() int {
	total := 0
	for _, d := range e.Dimensions {
		total += d.Score
	}
	return total
}

// MaxTotal is the sum of all dimension maxima.
func (e *Evaluation) MaxTotal() int {
	total := 0
	for _, d := range e.Dimensions {
		total += d.MaxScore
	}
	return total
}

// Percentage is Total as a percentage of MaxTotal, or 0 when there is no maximum.
func (e *Evaluation) Percentage() float64 {
	maxTotal := e.MaxTotal()
	if maxTotal == 0 {
		return 0
	}
	return float64(e.Total()) / float64(maxTotal) * 100
}

// Grade is the letter grade for Percentage.
func (e *Evaluation) Grade() Grade {
	return GradeFor(e.Percentage())
}

// Dimension returns the score for d, if present.
func (e *Evaluation) Dimension(d Dimension) (DimensionScore, bool) {
	for _, score := range e.Dimensions {
		if score.Name == d.String() {
			return score, true
		}
	}
	return DimensionScore{}, false
}

// Summary aggregates a batch of evaluations.
type Summary struct {
	Count             int           `json:"total" yaml:"total"`
	AverageScore      float64       `json:"avg_score" yaml:"avg_score"`
	AveragePercentage float64       `json:"avg_pct" yaml:"avg_pct"`
	MaxTotal          int           `json:"max" yaml:"max"`
	Grades            map[Grade]int `json:"grade_distribution" yaml:"grade_distribution"`
}

// Summarize computes batch averages (rounded to one decimal) and the grade distribution.
func Summarize(evaluations []*Evaluation) Summary {
	summary := Summary{
		Count:    len(evaluations),
		MaxTotal: len(dimensionNames) * MaxScore,
		Grades:   make(map[Grade]int),
	}
	if len(evaluations) == 0 {
		return summary
	}

	var totalScore, totalPct float64
	for _, e := range evaluations {
		totalScore += float64(e.Total())
		totalPct += e.Percentage()
		summary.Grades[e.Grade()]++
	}
	summary.MaxTotal = evaluations[0].MaxTotal()

	n := float64(len(evaluations))
	summary.AverageScore = RoundTenth(totalScore / n)
	summary.AveragePercentage = RoundTenth(totalPct / n)

	return summary
}

// RoundTenth rounds v to one decimal place.
func RoundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
