package judge

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jingkaihe/skilljudge/pkg/logger"
	"github.com/spf13/afero"
)

// DefaultSkillFile is the primary document of a skill directory.
const DefaultSkillFile = "SKILL.md"

// Evaluator scores skill directories. It holds no state between calls.
type Evaluator struct {
	fs        afero.Fs
	skillFile string
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithFs sets the filesystem used to read documents and list directories.
func WithFs(fs afero.Fs) EvaluatorOption {
	return func(e *Evaluator) {
		e.fs = fs
	}
}

// WithSkillFile overrides the primary document name.
func WithSkillFile(name string) EvaluatorOption {
	return func(e *Evaluator) {
		if name != "" {
			e.skillFile = name
		}
	}
}

// NewEvaluator creates an Evaluator reading from the OS filesystem by default.
func NewEvaluator(opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		fs:        afero.NewOsFs(),
		skillFile: DefaultSkillFile,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SkillFile returns the primary document name this evaluator looks for.
func (e *Evaluator) SkillFile() string {
	return e.skillFile
}

// Evaluate scores the skill in dir. A missing or unreadable primary document
// yields an all-zero evaluation with a note instead of an error.
func (e *Evaluator) Evaluate(ctx context.Context, dir string) *Evaluation {
	log := logger.G(ctx).WithField("skill", dir)
	evaluation := &Evaluation{
		Name: filepath.Base(filepath.Clean(dir)),
		Path: dir,
	}

	path := filepath.Join(dir, e.skillFile)
	content, err := afero.ReadFile(e.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug("skill file not found")
			evaluation.Dimensions = zeroScores(fmt.Sprintf("%s not found", e.skillFile))
		} else {
			log.WithError(err).Warn("failed to read skill file")
			evaluation.Dimensions = zeroScores(fmt.Sprintf("Cannot read %s: %v", e.skillFile, err))
		}
		return evaluation
	}

	listing := ListEcosystem(e.fs, dir, e.skillFile)
	evaluation = EvaluateContent(evaluation.Name, dir, string(content), listing)

	log.WithField("total", evaluation.Total()).
		WithField("grade", evaluation.Grade()).
		Debug("skill evaluated")

	return evaluation
}

// EvaluateContent scores raw document content with an explicit ecosystem listing.
func EvaluateContent(name, path, content string, listing EcosystemListing) *Evaluation {
	in := Input{
		Document:  ParseDocument(content),
		Ecosystem: listing,
	}

	evaluation := &Evaluation{
		Name:       name,
		Path:       path,
		Dimensions: make([]DimensionScore, 0, len(dimensionNames)),
	}
	for _, d := range Dimensions() {
		evaluation.Dimensions = append(evaluation.Dimensions, d.Score(in))
	}
	return evaluation
}
