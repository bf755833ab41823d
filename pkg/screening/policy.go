package screening

import (
	"fmt"

	"github.com/aretw0/qiscreen/pkg/domain"
)

// FallbackPolicy chooses where a session continues when the graph signals termination
// before the minimum session length is reached.
//
// Next must never return the current question or an answered one. Returning false
// forces completion.
type FallbackPolicy interface {
	Name() string
	Next(g *domain.QuestionGraph, current string, answered map[string]bool) (string, bool)
}

// StagePolicy prefers an unanswered question from the current question's stage,
// scanning the sorted stage IDs after the current one and wrapping. It falls back to
// SequentialPolicy when the stage is exhausted.
type StagePolicy struct{}

// Name implements FallbackPolicy.
func (StagePolicy) Name() string { return "stage" }

// Next implements FallbackPolicy.
func (StagePolicy) Next(g *domain.QuestionGraph, current string, answered map[string]bool) (string, bool) {
	if q, ok := g.Get(current); ok {
		ids := g.ByStage(q.Stage)
		start := 0
		for i, id := range ids {
			if id == current {
				start = i + 1
				break
			}
		}
		if id, ok := scan(ids, start, current, answered); ok {
			return id, true
		}
	}
	return SequentialPolicy{}.Next(g, current, answered)
}

// SequentialPolicy walks the whole graph in deterministic order from the current position.
type SequentialPolicy struct{}

// Name implements FallbackPolicy.
func (SequentialPolicy) Name() string { return "sequential" }

// Next implements FallbackPolicy.
func (SequentialPolicy) Next(g *domain.QuestionGraph, current string, answered map[string]bool) (string, bool) {
	start := g.IndexOf(current) + 1 // 0 when current is unknown
	return scan(g.IDs(), start, current, answered)
}

// scan visits ids once starting at start and wrapping around.
func scan(ids []string, start int, current string, answered map[string]bool) (string, bool) {
	n := len(ids)
	for i := 0; i < n; i++ {
		id := ids[(start+i)%n]
		if id == current || answered[id] {
			continue
		}
		return id, true
	}
	return "", false
}

// PolicyByName resolves a policy from its Name.
func PolicyByName(name string) (FallbackPolicy, error) {
	switch name {
	case "", StagePolicy{}.Name():
		return StagePolicy{}, nil
	case SequentialPolicy{}.Name():
		return SequentialPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown fallback policy %q", name)
	}
}
