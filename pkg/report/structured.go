package report

import (
	"encoding/json"
	"io"

	"github.com/jingkaihe/skilljudge/pkg/judge"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// EvaluationReport is the serialized form of one evaluation.
type EvaluationReport struct {
	Name       string                 `json:"name" yaml:"name"`
	Path       string                 `json:"path" yaml:"path"`
	Total      int                    `json:"total" yaml:"total"`
	Max        int                    `json:"max" yaml:"max"`
	Percentage float64                `json:"pct" yaml:"pct"`
	Grade      judge.Grade            `json:"grade" yaml:"grade"`
	Dimensions []judge.DimensionScore `json:"dimensions" yaml:"dimensions"`
}

// Report is the document written by the JSON and YAML renderers.
type Report struct {
	Summary     judge.Summary      `json:"summary" yaml:"summary"`
	Evaluations []EvaluationReport `json:"evaluations" yaml:"evaluations"`
}

// NewReport builds the serializable report for evaluations.
func NewReport(evaluations []*judge.Evaluation) Report {
	r := Report{
		Summary:     judge.Summarize(evaluations),
		Evaluations: make([]EvaluationReport, 0, len(evaluations)),
	}
	for _, e := range evaluations {
		r.Evaluations = append(r.Evaluations, EvaluationReport{
			Name:       e.Name,
			Path:       e.Path,
			Total:      e.Total(),
			Max:        e.MaxTotal(),
			Percentage: judge.RoundTenth(e.Percentage()),
			Grade:      e.Grade(),
			Dimensions: e.Dimensions,
		})
	}
	return r
}

// JSONRenderer writes an indented JSON report.
type JSONRenderer struct{}

// Render implements Renderer.
func (r *JSONRenderer) Render(w io.Writer, evaluations []*judge.Evaluation) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(NewReport(evaluations)); err != nil {
		return errors.Wrap(err, "failed to encode JSON report")
	}
	return nil
}

// YAMLRenderer writes a YAML report.
type YAMLRenderer struct{}

// Render implements Renderer.
func (r *YAMLRenderer) Render(w io.Writer, evaluations []*judge.Evaluation) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(NewReport(evaluations)); err != nil {
		return errors.Wrap(err, "failed to encode YAML report")
	}
	return errors.Wrap(encoder.Close(), "failed to flush YAML report")
}
