package judge

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/gobwas/glob"
	"github.com/jingkaihe/skilljudge/pkg/logger"
	"github.com/pkg/errors"
)

// ErrNotFound reports a missing skill, skills directory or target.
var ErrNotFound = errors.New("not found")

// SortOrder selects how batch results are ordered.
type SortOrder string

// Supported sort orders.
const (
	SortByName  SortOrder = "name"
	SortByScore SortOrder = "score"
	SortByGrade SortOrder = "grade"
)

// SortOrders lists the accepted sort orders, default first.
func SortOrders() []string {
	return []string{string(SortByName), string(SortByScore), string(SortByGrade)}
}

// ParseSortOrder validates a sort order name; "" means SortByName.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortByName:
		return SortByName, nil
	case SortByScore:
		return SortByScore, nil
	case SortByGrade:
		return SortByGrade, nil
	default:
		return "", errors.Errorf("invalid sort order %q, must be one of: %s", s, strings.Join(SortOrders(), ", "))
	}
}

// BatchOptions controls filtering, ordering and parallelism of a batch run.
type BatchOptions struct {
	// MinScore keeps only evaluations whose total is at least this value.
	MinScore int
	// Match is a glob over skill names; empty matches everything.
	Match string
	// Sort is the result order.
	Sort SortOrder
	// Concurrency is the number of skills evaluated at once; values below 1 mean sequential.
	Concurrency int
}

// Batch evaluates many skill directories with shared options.
type Batch struct {
	evaluator *Evaluator
	opts      BatchOptions
	matcher   glob.Glob
}

// NewBatch validates opts and returns a Batch using evaluator.
func NewBatch(evaluator *Evaluator, opts BatchOptions) (*Batch, error) {
	if evaluator == nil {
		evaluator = NewEvaluator()
	}

	order, err := ParseSortOrder(string(opts.Sort))
	if err != nil {
		return nil, err
	}
	opts.Sort = order

	b := &Batch{evaluator: evaluator, opts: opts}
	if opts.Match != "" {
		matcher, err := glob.Compile(opts.Match)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid match pattern %q", opts.Match)
		}
		b.matcher = matcher
	}

	return b, nil
}

// Run evaluates every directory, then filters and sorts the results.
func (b *Batch) Run(ctx context.Context, dirs []string) []*Evaluation {
	evaluations := b.evaluateAll(ctx, dirs)
	evaluations = b.filter(evaluations)
	SortEvaluations(evaluations, b.opts.Sort)

	logger.G(ctx).WithFields(map[string]interface{}{
		"discovered": len(dirs),
		"reported":   len(evaluations),
		"sort":       string(b.opts.Sort),
	}).Debug("batch evaluation finished")

	return evaluations
}

// evaluateAll keeps results in input order regardless of concurrency.
func (b *Batch) evaluateAll(ctx context.Context, dirs []string) []*Evaluation {
	results := make([]*Evaluation, len(dirs))

	workers := b.opts.Concurrency
	if workers <= 1 || len(dirs) <= 1 {
		for i, dir := range dirs {
			results[i] = b.evaluator.Evaluate(ctx, dir)
		}
		return results
	}

	sem := make(chan struct{}, workers)
	wg := sync.WaitGroup{}
	wg.Add(len(dirs))
	for i, dir := range dirs {
		sem <- struct{}{}
		go func(i int, dir string) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = b.evaluator.Evaluate(ctx, dir)
		}(i, dir)
	}
	wg.Wait()

	return results
}

func (b *Batch) filter(evaluations []*Evaluation) []*Evaluation {
	filtered := make([]*Evaluation, 0, len(evaluations))
	for _, e := range evaluations {
		if b.matcher != nil && !b.matcher.Match(e.Name) {
			continue
		}
		if e.Total() < b.opts.MinScore {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

// SortEvaluations orders evaluations in place. Score order is descending by
// total; grade order puts better grades first and breaks ties by descending
// total; name order is lexicographic.
func SortEvaluations(evaluations []*Evaluation, order SortOrder) {
	switch order {
	case SortByScore:
		sort.SliceStable(evaluations, func(i, j int) bool {
			return evaluations[i].Total() > evaluations[j].Total()
		})
	case SortByGrade:
		sort.SliceStable(evaluations, func(i, j int) bool {
			gi, gj := evaluations[i].Grade().Rank(), evaluations[j].Grade().Rank()
			if gi != gj {
				return gi < gj
			}
			return evaluations[i].Total() > evaluations[j].Total()
		})
	default:
		sort.SliceStable(evaluations, func(i, j int) bool {
			return evaluations[i].Name < evaluations[j].Name
		})
	}
}

// NotFoundError wraps ErrNotFound with what was missing.
func NotFoundError(what, path string) error {
	return errors.Wrap(ErrNotFound, fmt.Sprintf("%s %s", what, path))
}
