package bank

import (
	"fmt"
	"strings"

	"github.com/aretw0/qiscreen/pkg/domain"
)

// Report is the result of crawling a graph from its entry question.
type Report struct {
	Entry       string
	Reachable   []string // in crawl order
	Unreachable []string // sorted
	// DeadEnds are questions with at least one option that has no next entry.
	// A session landing on such an option recovers sequentially.
	DeadEnds []string
}

// OK reports whether every question is reachable and has a next entry per option.
func (r *Report) OK() bool {
	return len(r.Unreachable) == 0 && len(r.DeadEnds) == 0
}

func (r *Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "entry %s: %d reachable", r.Entry, len(r.Reachable))
	if len(r.Unreachable) > 0 {
		fmt.Fprintf(&sb, "\n- unreachable: %s", strings.Join(r.Unreachable, ", "))
	}
	if len(r.DeadEnds) > 0 {
		fmt.Fprintf(&sb, "\n- missing next entries: %s", strings.Join(r.DeadEnds, ", "))
	}
	return sb.String()
}

// Validate crawls g breadth-first from entry following next edges.
// An empty entry means the first question in deterministic order.
func Validate(g *domain.QuestionGraph, entry string) (*Report, error) {
	if entry == "" {
		first, ok := g.First()
		if !ok {
			return nil, fmt.Errorf("empty graph: %w", domain.ErrLoad)
		}
		entry = first
	}
	if !g.Has(entry) {
		return nil, fmt.Errorf("entry question %q not found: %w", entry, domain.ErrLoad)
	}

	report := &Report{Entry: entry}
	visited := make(map[string]bool)
	queue := []string{entry}

	for len(queue) > 0 {
		currentID := queue[0]
		queue = queue[1:]

		if visited[currentID] {
			continue
		}
		visited[currentID] = true
		report.Reachable = append(report.Reachable, currentID)

		q, _ := g.Get(currentID)
		deadEnd := false
		for i := range q.Options {
			target, ok := q.NextFor(i)
			if !ok {
				deadEnd = true
				continue
			}
			if target == domain.TerminalID {
				continue // sink
			}
			if !visited[target] {
				queue = append(queue, target)
			}
		}
		if deadEnd {
			report.DeadEnds = append(report.DeadEnds, currentID)
		}
	}

	for _, id := range g.IDs() {
		if !visited[id] {
			report.Unreachable = append(report.Unreachable, id)
		}
	}
	return report, nil
}
