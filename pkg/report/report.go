// Package report renders skill evaluations for people (colored text with
// score bars and a summary table) and for machines (JSON or YAML).
package report

import (
	"io"
	"strings"

	"github.com/jingkaihe/skilljudge/pkg/judge"
	"github.com/pkg/errors"
)

// Format is an output format name.
type Format string

// Supported output formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the accepted output formats, default first.
func Formats() []string {
	return []string{string(FormatText), string(FormatJSON), string(FormatYAML)}
}

// ParseFormat validates a format name; "" means FormatText.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", errors.Errorf("invalid format %q, must be one of: %s", s, strings.Join(Formats(), ", "))
	}
}

// Renderer writes a set of evaluations to w.
type Renderer interface {
	Render(w io.Writer, evaluations []*judge.Evaluation) error
}

// Options tune the human readable renderer.
type Options struct {
	// Verbose appends every dimension's notes to a single evaluation.
	Verbose bool
}

// NewRenderer returns the renderer for format.
func NewRenderer(format string, opts Options) (Renderer, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}

	switch f {
	case FormatJSON:
		return &JSONRenderer{}, nil
	case FormatYAML:
		return &YAMLRenderer{}, nil
	default:
		return &TextRenderer{Verbose: opts.Verbose}, nil
	}
}
