package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/jingkaihe/skilljudge/pkg/config"
	"github.com/jingkaihe/skilljudge/pkg/judge"
	"github.com/jingkaihe/skilljudge/pkg/report"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const skillsRoot = "/repo/.agents/skills"

const richSkill = `---
name: clean-code
description: Write readable, maintainable code with clear naming, small functions and honest error handling.
---
# Clean Code

## Overview

Use this skill when reviewing or writing code.

## Workflow

1. Read the change
2. Check naming
3. Suggest fixes

## Examples

` + "```go\nfunc add(a, b int) int { return a + b }\n```" + `

## Anti-patterns

- Avoid god objects
- Never swallow errors

| Smell | Fix |
|-------|-----|
| Long function | Extract |
`

const bareSkill = `# Bare

Some text.
`

func newSkillFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, skillsRoot+"/clean-code/SKILL.md", []byte(richSkill), 0o644))
	require.NoError(t, afero.WriteFile(fs, skillsRoot+"/clean-code/references/guide.md", []byte("# Guide\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, skillsRoot+"/bare/SKILL.md", []byte(bareSkill), 0o644))
	require.NoError(t, fs.MkdirAll(skillsRoot+"/not-a-skill", 0o755))
	return fs
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.SkillsDirs = []string{skillsRoot}
	return cfg
}

func noColor(t *testing.T) {
	t.Helper()
	old := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = old })
}

func decodeReport(t *testing.T, data []byte) report.Report {
	t.Helper()
	var r report.Report
	require.NoError(t, json.Unmarshal(data, &r))
	return r
}

func TestRunEvaluateRequiresTarget(t *testing.T) {
	err := runEvaluate(context.Background(), testConfig(), newSkillFs(t), &bytes.Buffer{}, "", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provide a skill path or use --all")
}

func TestRunEvaluateSingle(t *testing.T) {
	noColor(t)
	fs := newSkillFs(t)

	t.Run("by name", func(t *testing.T) {
		cfg := testConfig()
		cfg.Format = "json"

		var out bytes.Buffer
		require.NoError(t, runEvaluate(context.Background(), cfg, fs, &out, "clean-code", false))

		r := decodeReport(t, out.Bytes())
		require.Len(t, r.Evaluations, 1)
		e := r.Evaluations[0]
		assert.Equal(t, "clean-code", e.Name)
		assert.Equal(t, skillsRoot+"/clean-code", e.Path)
		assert.Equal(t, 60, e.Max)
		require.Len(t, e.Dimensions, 6)
		assert.Equal(t, judge.GradeFor(e.Percentage), e.Grade)
		assert.Equal(t, 1, r.Summary.Count)
	})

	t.Run("by path with verbose text", func(t *testing.T) {
		cfg := testConfig()
		cfg.Verbose = true

		var out bytes.Buffer
		require.NoError(t, runEvaluate(context.Background(), cfg, fs, &out, skillsRoot+"/bare", false))

		text := out.String()
		assert.Contains(t, text, "Skill Evaluation: bare")
		assert.Contains(t, text, "no YAML frontmatter")
		assert.NotContains(t, text, "Skill Evaluation Summary")
	})

	t.Run("directory without a skill file scores zero", func(t *testing.T) {
		cfg := testConfig()
		cfg.Format = "json"

		var out bytes.Buffer
		require.NoError(t, runEvaluate(context.Background(), cfg, fs, &out, "not-a-skill", false))

		r := decodeReport(t, out.Bytes())
		require.Len(t, r.Evaluations, 1)
		assert.Equal(t, 0, r.Evaluations[0].Total)
		assert.Equal(t, judge.GradeF, r.Evaluations[0].Grade)
		assert.Equal(t, []string{"SKILL.md not found"}, r.Evaluations[0].Dimensions[0].Notes)
	})

	t.Run("unknown target", func(t *testing.T) {
		err := runEvaluate(context.Background(), testConfig(), fs, &bytes.Buffer{}, "missing", false)
		require.Error(t, err)
		assert.ErrorIs(t, err, judge.ErrNotFound)
	})
}

func TestRunEvaluateAll(t *testing.T) {
	noColor(t)
	fs := newSkillFs(t)

	t.Run("text summary", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, runEvaluate(context.Background(), testConfig(), fs, &out, "", true))

		text := out.String()
		assert.Contains(t, text, "Skill Evaluation: bare")
		assert.Contains(t, text, "Skill Evaluation: clean-code")
		assert.Contains(t, text, "Skill Evaluation Summary")
		assert.Contains(t, text, "Total: 2 skills")
		assert.NotContains(t, text, "not-a-skill")
	})

	t.Run("sorted by score", func(t *testing.T) {
		cfg := testConfig()
		cfg.Format = "json"
		cfg.Sort = "score"

		var out bytes.Buffer
		require.NoError(t, runEvaluate(context.Background(), cfg, fs, &out, "", true))

		r := decodeReport(t, out.Bytes())
		require.Len(t, r.Evaluations, 2)
		assert.Equal(t, "clean-code", r.Evaluations[0].Name)
		assert.GreaterOrEqual(t, r.Evaluations[0].Total, r.Evaluations[1].Total)
	})

	t.Run("match glob", func(t *testing.T) {
		cfg := testConfig()
		cfg.Format = "json"
		cfg.Match = "clean-*"

		var out bytes.Buffer
		require.NoError(t, runEvaluate(context.Background(), cfg, fs, &out, "", true))

		r := decodeReport(t, out.Bytes())
		require.Len(t, r.Evaluations, 1)
		assert.Equal(t, "clean-code", r.Evaluations[0].Name)
	})

	t.Run("min score removing everything still succeeds", func(t *testing.T) {
		cfg := testConfig()
		cfg.Format = "json"
		cfg.MinScore = 60

		var out bytes.Buffer
		require.NoError(t, runEvaluate(context.Background(), cfg, fs, &out, "", true))

		r := decodeReport(t, out.Bytes())
		assert.Empty(t, r.Evaluations)
		assert.Equal(t, 0, r.Summary.Count)
	})

	t.Run("missing skills directory", func(t *testing.T) {
		cfg := testConfig()
		cfg.SkillsDirs = []string{"/nowhere"}

		err := runEvaluate(context.Background(), cfg, fs, &bytes.Buffer{}, "", true)
		require.Error(t, err)
		assert.ErrorIs(t, err, judge.ErrNotFound)
	})

	t.Run("empty skills directory", func(t *testing.T) {
		empty := afero.NewMemMapFs()
		require.NoError(t, empty.MkdirAll(skillsRoot, 0o755))

		err := runEvaluate(context.Background(), testConfig(), empty, &bytes.Buffer{}, "", true)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no skills found")
	})

	t.Run("invalid format", func(t *testing.T) {
		cfg := testConfig()
		cfg.Format = "xml"

		err := runEvaluate(context.Background(), cfg, fs, &bytes.Buffer{}, "", true)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid format")
	})
}

func TestRunEvaluateConcurrencyKeepsOrder(t *testing.T) {
	fs := newSkillFs(t)
	for _, name := range []string{"a", "b", "c", "d"} {
		require.NoError(t, afero.WriteFile(fs, skillsRoot+"/"+name+"/SKILL.md", []byte(bareSkill), 0o644))
	}

	cfg := testConfig()
	cfg.Format = "json"
	cfg.Concurrency = 3

	var out bytes.Buffer
	require.NoError(t, runEvaluate(context.Background(), cfg, fs, &out, "", true))

	r := decodeReport(t, out.Bytes())
	names := make([]string, 0, len(r.Evaluations))
	for _, e := range r.Evaluations {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"a", "b", "bare", "c", "clean-code", "d"}, names)
}
