package domain

import (
	"sort"
	"strconv"
)

// Option is one answer choice of a Question.
type Option struct {
	ID      string  `json:"id,omitempty" yaml:"id,omitempty"`
	Label   string  `json:"label" yaml:"label"`
	Effects Effects `json:"effects" yaml:"effects"`
}

// Question represents a node of the screening graph.
type Question struct {
	ID      string   `json:"id" yaml:"id"`
	Text    string   `json:"text" yaml:"text"`
	Stage   int      `json:"stage,omitempty" yaml:"stage,omitempty"`
	Options []Option `json:"options" yaml:"options"`

	// Next maps an option index (decimal string) or an option ID to the next question ID
	// or TerminalID.
	Next map[string]string `json:"next" yaml:"next"`
}

// NextFor resolves the next-step entry of the option at index.
// Index keys take precedence over option-ID keys. The second result is false when
// the option has no entry at all.
func (q *Question) NextFor(index int) (string, bool) {
	if target, ok := q.Next[strconv.Itoa(index)]; ok {
		return target, true
	}
	if index >= 0 && index < len(q.Options) {
		if id := q.Options[index].ID; id != "" {
			if target, ok := q.Next[id]; ok {
				return target, true
			}
		}
	}
	return "", false
}

// Option returns the option at index.
func (q *Question) Option(index int) (Option, bool) {
	if index < 0 || index >= len(q.Options) {
		return Option{}, false
	}
	return q.Options[index], true
}

// QuestionGraph is the immutable question bank. Iteration order is the sorted ID list.
type QuestionGraph struct {
	questions map[string]*Question
	order     []string
	index     map[string]int
}

// NewQuestionGraph indexes questions by ID. Later duplicates replace earlier ones.
func NewQuestionGraph(questions []*Question) *QuestionGraph {
	g := &QuestionGraph{
		questions: make(map[string]*Question, len(questions)),
		index:     make(map[string]int, len(questions)),
	}
	for _, q := range questions {
		g.questions[q.ID] = q
	}
	g.order = make([]string, 0, len(g.questions))
	for id := range g.questions {
		g.order = append(g.order, id)
	}
	sort.Strings(g.order)
	for i, id := range g.order {
		g.index[id] = i
	}
	return g
}

// Get returns the question with the given ID.
func (g *QuestionGraph) Get(id string) (*Question, bool) {
	q, ok := g.questions[id]
	return q, ok
}

// Has reports whether id is a question of the graph.
func (g *QuestionGraph) Has(id string) bool {
	_, ok := g.questions[id]
	return ok
}

// Len returns the number of questions.
func (g *QuestionGraph) Len() int {
	return len(g.order)
}

// IDs returns a copy of the deterministic ID order.
func (g *QuestionGraph) IDs() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// At returns the ID at position i of the deterministic order.
func (g *QuestionGraph) At(i int) (string, bool) {
	if i < 0 || i >= len(g.order) {
		return "", false
	}
	return g.order[i], true
}

// IndexOf returns the position of id in the deterministic order, or -1.
func (g *QuestionGraph) IndexOf(id string) int {
	if i, ok := g.index[id]; ok {
		return i
	}
	return -1
}

// First returns the lexicographically smallest ID.
func (g *QuestionGraph) First() (string, bool) {
	return g.At(0)
}

// ByStage returns the sorted IDs of every question in stage.
func (g *QuestionGraph) ByStage(stage int) []string {
	var ids []string
	for _, id := range g.order {
		if g.questions[id].Stage == stage {
			ids = append(ids, id)
		}
	}
	return ids
}

// Questions returns the questions in deterministic order.
func (g *QuestionGraph) Questions() []*Question {
	out := make([]*Question, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.questions[id])
	}
	return out
}
