package presenter

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	p := New()
	assert.NotNil(t, p)
	assert.Equal(t, os.Stderr, p.output)
	assert.Equal(t, os.Stderr, p.errorOutput)
	assert.False(t, p.quiet)
}

func TestDetectColorMode(t *testing.T) {
	tests := []struct {
		name       string
		noColor    string
		judgeColor string
		expected   ColorMode
	}{
		{"NO_COLOR set", "1", "always", ColorNever},
		{"SKILLJUDGE_COLOR always", "", "always", ColorAlways},
		{"SKILLJUDGE_COLOR force", "", "force", ColorAlways},
		{"SKILLJUDGE_COLOR never", "", "never", ColorNever},
		{"SKILLJUDGE_COLOR off", "", "off", ColorNever},
		{"SKILLJUDGE_COLOR auto", "", "auto", ColorAuto},
		{"default", "", "", ColorAuto},
		{"invalid value", "", "rainbow", ColorAuto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", tt.noColor)
			t.Setenv("SKILLJUDGE_COLOR", tt.judgeColor)

			assert.Equal(t, tt.expected, DetectColorMode())
		})
	}
}

func TestError(t *testing.T) {
	var errorOutput bytes.Buffer
	p := NewWithOptions(nil, &errorOutput, ColorNever)

	p.Error(errors.New("skills directory missing"), "Discovery failed")
	assert.Equal(t, "[ERROR] Discovery failed: skills directory missing\n", errorOutput.String())

	errorOutput.Reset()
	p.Error(errors.New("skills directory missing"), "")
	assert.Equal(t, "[ERROR] skills directory missing\n", errorOutput.String())

	errorOutput.Reset()
	p.Error(nil, "context")
	assert.Empty(t, errorOutput.String())
}

func TestMessages(t *testing.T) {
	tests := []struct {
		name     string
		emit     func(p *TerminalPresenter)
		expected string
	}{
		{"success", func(p *TerminalPresenter) { p.Success("evaluated 3 skills") }, "✓ evaluated 3 skills\n"},
		{"warning", func(p *TerminalPresenter) { p.Warning("no skills matched") }, "⚠ no skills matched\n"},
		{"info", func(p *TerminalPresenter) { p.Info("watching clean-code") }, "watching clean-code\n"},
		{"separator", func(p *TerminalPresenter) { p.Separator() }, strings.Repeat("-", 60) + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var output bytes.Buffer
			p := NewWithOptions(&output, nil, ColorNever)
			tt.emit(p)
			assert.Equal(t, tt.expected, output.String())
		})

		t.Run(tt.name+" quiet", func(t *testing.T) {
			var output bytes.Buffer
			p := NewWithOptions(&output, nil, ColorNever)
			p.SetQuiet(true)
			tt.emit(p)
			assert.Empty(t, output.String())
		})
	}
}

func TestSection(t *testing.T) {
	var output bytes.Buffer
	p := NewWithOptions(&output, nil, ColorNever)

	p.Section("Change detected: SKILL.md")

	lines := strings.Split(strings.TrimSpace(output.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Change detected: SKILL.md", lines[0])
	assert.Equal(t, strings.Repeat("-", len("Change detected: SKILL.md")), lines[1])
}

func TestColorModeConfiguration(t *testing.T) {
	oldNoColor := color.NoColor
	defer func() { color.NoColor = oldNoColor }()

	p := NewWithOptions(&bytes.Buffer{}, &bytes.Buffer{}, ColorNever)
	assert.Equal(t, ColorNever, p.colorMode)
	assert.True(t, color.NoColor)

	p = NewWithOptions(&bytes.Buffer{}, &bytes.Buffer{}, ColorAlways)
	assert.Equal(t, ColorAlways, p.colorMode)
	assert.False(t, color.NoColor)
}

func TestGlobalFunctions(t *testing.T) {
	originalPresenter := defaultPresenter
	defer func() { defaultPresenter = originalPresenter }()

	var output, errorOutput bytes.Buffer
	defaultPresenter = NewWithOptions(&output, &errorOutput, ColorNever)

	Error(errors.New("boom"), "evaluate")
	assert.Contains(t, errorOutput.String(), "[ERROR] evaluate: boom")

	Success("done")
	Warning("careful")
	Info("note")
	Section("Summary")
	Separator()
	result := output.String()
	assert.Contains(t, result, "✓ done")
	assert.Contains(t, result, "⚠ careful")
	assert.Contains(t, result, "note")
	assert.Contains(t, result, "Summary\n-------")

	SetQuiet(true)
	assert.True(t, IsQuiet())
	output.Reset()
	Info("hidden")
	assert.Empty(t, output.String())

	SetQuiet(false)
	assert.False(t, IsQuiet())
}
