package dsl

import (
	"fmt"
	"sort"

	"github.com/aretw0/qiscreen/pkg/adapters/memory"
	"github.com/aretw0/qiscreen/pkg/domain"
)

// Builder manages the question bank construction.
type Builder struct {
	questions map[string]*QuestionBuilder
}

// New creates a new bank builder.
func New() *Builder {
	return &Builder{
		questions: make(map[string]*QuestionBuilder),
	}
}

// Add creates a new question in the bank.
// If the question already exists, it returns the existing builder.
func (b *Builder) Add(id string) *QuestionBuilder {
	if qb, ok := b.questions[id]; ok {
		return qb
	}
	qb := &QuestionBuilder{
		question: domain.Question{
			ID:    id,
			Next:  make(map[string]string),
			Stage: 1,
		},
	}
	b.questions[id] = qb
	return qb
}

// Build compiles the bank into a memory Source. It fails on the first question that
// names an unknown dimension.
func (b *Builder) Build() (*memory.Source, error) {
	ids := make([]string, 0, len(b.questions))
	for id := range b.questions {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	questions := make([]*domain.Question, 0, len(ids))
	for _, id := range ids {
		qb := b.questions[id]
		if qb.err != nil {
			return nil, fmt.Errorf("question %q: %w", id, qb.err)
		}
		q := qb.Build()
		questions = append(questions, &q)
	}

	src, err := memory.NewFromQuestions(questions...)
	if err != nil {
		return nil, fmt.Errorf("failed to build memory source: %w", err)
	}
	return src, nil
}
