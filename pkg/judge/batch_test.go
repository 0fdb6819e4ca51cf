package judge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(evaluations []*Evaluation) []string {
	out := make([]string, 0, len(evaluations))
	for _, e := range evaluations {
		out = append(out, e.Name)
	}
	return out
}

func TestParseSortOrder(t *testing.T) {
	tests := []struct {
		input    string
		expected SortOrder
		wantErr  bool
	}{
		{"", SortByName, false},
		{"name", SortByName, false},
		{"SCORE", SortByScore, false},
		{" grade ", SortByGrade, false},
		{"size", "", true},
	}

	for _, tt := range tests {
		order, err := ParseSortOrder(tt.input)
		if tt.wantErr {
			require.Error(t, err)
			assert.Contains(t, err.Error(), "must be one of: name, score, grade")
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.expected, order)
	}
}

func TestSortEvaluations(t *testing.T) {
	input := func() []*Evaluation {
		return []*Evaluation{
			withTotal("alpha", 55),
			withTotal("charlie", 50),
			withTotal("bravo", 58),
			withTotal("delta", 50),
			withTotal("echo", 30),
			withTotal("foxtrot", 53),
		}
	}

	tests := []struct {
		order    SortOrder
		expected []string
	}{
		{SortByName, []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot"}},
		{SortByScore, []string{"bravo", "alpha", "foxtrot", "charlie", "delta", "echo"}},
		{SortByGrade, []string{"bravo", "alpha", "foxtrot", "charlie", "delta", "echo"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			evaluations := input()
			SortEvaluations(evaluations, tt.order)
			assert.Equal(t, tt.expected, names(evaluations))
		})
	}
}

func TestSortByGradeGroupsGradesFirst(t *testing.T) {
	evaluations := []*Evaluation{withTotal("b-high", 53), withTotal("a-low", 54), withTotal("b-low", 48)}
	SortEvaluations(evaluations, SortByGrade)

	assert.Equal(t, []string{"a-low", "b-high", "b-low"}, names(evaluations))
	assert.Equal(t, GradeA, evaluations[0].Grade())
	assert.Equal(t, GradeB, evaluations[1].Grade())
}

func TestNewBatchValidation(t *testing.T) {
	_, err := NewBatch(nil, BatchOptions{Sort: "size"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid sort order")

	_, err = NewBatch(nil, BatchOptions{Match: "[unclosed"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid match pattern")

	batch, err := NewBatch(nil, BatchOptions{})
	require.NoError(t, err)
	assert.Equal(t, SortByName, batch.opts.Sort)
	assert.NotNil(t, batch.evaluator)
}

func newBatchFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/skills/alpha/SKILL.md", []byte(structuredDoc), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/skills/beta/SKILL.md", []byte("# Beta\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/skills/api-docs/SKILL.md", []byte(shortDoc), 0o644))
	require.NoError(t, fs.MkdirAll("/skills/ghost", 0o755))
	return fs
}

func TestBatchRun(t *testing.T) {
	fs := newBatchFs(t)
	dirs := []string{"/skills/ghost", "/skills/beta", "/skills/api-docs", "/skills/alpha"}

	tests := []struct {
		name     string
		opts     BatchOptions
		expected []string
	}{
		{"all by name", BatchOptions{}, []string{"alpha", "api-docs", "beta", "ghost"}},
		{"match glob", BatchOptions{Match: "a*"}, []string{"alpha", "api-docs"}},
		{"min score drops missing skills", BatchOptions{MinScore: 1}, []string{"alpha", "api-docs", "beta"}},
		{"min score above every total", BatchOptions{MinScore: 61}, []string{}},
		{"score order", BatchOptions{Sort: SortByScore, Match: "alpha"}, []string{"alpha"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch, err := NewBatch(NewEvaluator(WithFs(fs)), tt.opts)
			require.NoError(t, err)

			results := batch.Run(context.Background(), dirs)
			assert.Equal(t, tt.expected, names(results))
			for _, r := range results {
				assert.GreaterOrEqual(t, r.Total(), tt.opts.MinScore)
			}
		})
	}
}

func TestBatchRunScoreOrder(t *testing.T) {
	fs := newBatchFs(t)
	batch, err := NewBatch(NewEvaluator(WithFs(fs)), BatchOptions{Sort: SortByScore})
	require.NoError(t, err)

	results := batch.Run(context.Background(), []string{"/skills/ghost", "/skills/alpha", "/skills/beta"})
	require.Len(t, results, 3)
	assert.Equal(t, "alpha", results[0].Name)
	assert.Equal(t, "ghost", results[2].Name)
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Total(), results[i].Total())
	}
}

func TestBatchConcurrencyPreservesInputOrder(t *testing.T) {
	fs := afero.NewMemMapFs()
	dirs := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		dir := fmt.Sprintf("/skills/skill-%02d", i)
		content := "# Skill\n\n" + strings.Repeat("TODO ", i%3) + strings.Repeat("\n## Part\ntext\n", i)
		require.NoError(t, afero.WriteFile(fs, dir+"/SKILL.md", []byte(content), 0o644))
		dirs = append(dirs, dir)
	}

	evaluator := NewEvaluator(WithFs(fs))
	sequential, err := NewBatch(evaluator, BatchOptions{})
	require.NoError(t, err)
	parallel, err := NewBatch(evaluator, BatchOptions{Concurrency: 4})
	require.NoError(t, err)

	expected := sequential.evaluateAll(context.Background(), dirs)
	actual := parallel.evaluateAll(context.Background(), dirs)
	assert.Equal(t, expected, actual)
	assert.Equal(t, sequential.Run(context.Background(), dirs), parallel.Run(context.Background(), dirs))
}

func TestNotFoundError(t *testing.T) {
	err := NotFoundError("skills directory", "/missing")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "skills directory /missing: not found", err.Error())
}
