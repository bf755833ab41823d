// Package guidance selects everyday suggestions from a rhythm-indexed rule table, scored
// against the user's strongest Qi dimensions and Lumin channel.
package guidance

import (
	"fmt"
	"slices"
	"sort"

	"github.com/aretw0/qiscreen/pkg/domain"
)

// DefaultMaxCount is the number of suggestions returned when Options.MaxCount is zero.
const DefaultMaxCount = 3

// GenericTag marks the synthesized suggestion returned when no rule matches.
const GenericTag = "通用"

// Options narrows a selection.
type Options struct {
	MaxCount int
	// Tags restricts results to rules carrying any of the tags. If that leaves nothing,
	// the unfiltered matches are returned instead.
	Tags []string
}

// Suggestion is a scored rule ready for display.
type Suggestion struct {
	Forward string   `json:"forward"`
	Reverse string   `json:"reverse,omitempty"`
	Tags    []string `json:"tags"`
	Score   int      `json:"score"`
}

// Selector scores rule tables. It is immutable and safe for concurrent use.
type Selector struct {
	table Table
}

// NewSelector creates a Selector over table. A nil table uses DefaultTable.
func NewSelector(table Table) *Selector {
	if table == nil {
		table = DefaultTable()
	}
	return &Selector{table: table}
}

// Select returns up to MaxCount suggestions for the rhythm label. A rule scores two points
// if its channel is the top Lumin channel, plus one per Qi dimension among the top two.
// Only positive scores are kept, highest first; equal scores keep table order.
func (s *Selector) Select(qi domain.QiVector, lumin domain.LuminVector, rhythm string, opts Options) []Suggestion {
	maxCount := opts.MaxCount
	if maxCount <= 0 {
		maxCount = DefaultMaxCount
	}

	topQi := topN(qi[:], domain.QiNames[:], 2)
	topLumin := topN(lumin[:], domain.LuminNames[:], 1)[0]

	var scored []Suggestion
	for _, r := range s.table[rhythm] {
		score := 0
		if r.Lumin == topLumin {
			score += 2
		}
		for _, q := range r.Qi {
			if slices.Contains(topQi, q) {
				score++
			}
		}
		if score > 0 {
			scored = append(scored, Suggestion{
				Forward: r.Forward,
				Reverse: r.Reverse,
				Tags:    slices.Clone(r.Tags),
				Score:   score,
			})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	out := scored
	if len(opts.Tags) > 0 {
		var filtered []Suggestion
		for _, sg := range scored {
			if slices.ContainsFunc(sg.Tags, func(tag string) bool { return slices.Contains(opts.Tags, tag) }) {
				filtered = append(filtered, sg)
			}
		}
		if len(filtered) > 0 {
			out = filtered
		}
	}

	if len(out) > maxCount {
		out = out[:maxCount]
	}
	if len(out) == 0 {
		return []Suggestion{Generic(rhythm)}
	}
	return out
}

// Generic is the suggestion used when no rule matches.
func Generic(rhythm string) Suggestion {
	return Suggestion{
		Forward: fmt.Sprintf("当前主导节奏为【%s】，建议顺应此势，缓步而行，静待自显。", rhythm),
		Tags:    []string{GenericTag},
	}
}

// topN returns the names of the n largest values. Ties keep canonical order.
func topN(values []float64, names []string, n int) []string {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return values[idx[a]] > values[idx[b]] })
	out := make([]string, 0, n)
	for _, i := range idx[:min(n, len(idx))] {
		out = append(out, names[i])
	}
	return out
}
