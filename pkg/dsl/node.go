package dsl

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/aretw0/qiscreen/pkg/domain"
)

// QuestionBuilder provides a fluent API for configuring a question.
type QuestionBuilder struct {
	question domain.Question
	err      error
}

// Text sets the prompt shown to the user.
func (q *QuestionBuilder) Text(content string) *QuestionBuilder {
	q.question.Text = content
	return q
}

// Stage sets the Lumin wheel tier (1 to 5).
func (q *QuestionBuilder) Stage(tier int) *QuestionBuilder {
	q.question.Stage = tier
	return q
}

// Option appends an answer choice. Effects are keyed by Qi dimension, Lumin channel or
// rhythm label.
func (q *QuestionBuilder) Option(label string, effects map[string]float64) *QuestionBuilder {
	opt := domain.Option{Label: label}
	for _, name := range sortedKeys(effects) {
		if !opt.Effects.Set(name, effects[name]) && q.err == nil {
			q.err = fmt.Errorf("option %q: unknown dimension %q", label, name)
		}
	}
	q.question.Options = append(q.question.Options, opt)
	return q
}

// Go routes the most recently added option to target.
func (q *QuestionBuilder) Go(target string) *QuestionBuilder {
	if len(q.question.Options) == 0 {
		if q.err == nil {
			q.err = fmt.Errorf("Go(%q) before any option", target)
		}
		return q
	}
	q.question.Next[strconv.Itoa(len(q.question.Options)-1)] = target
	return q
}

// End routes the most recently added option to the end of the session.
func (q *QuestionBuilder) End() *QuestionBuilder {
	return q.Go(domain.TerminalID)
}

// Build returns a copy of the underlying domain.Question.
// This is primarily used by the Builder, but exposed for advanced usage.
func (q *QuestionBuilder) Build() domain.Question {
	out := q.question
	out.Options = append([]domain.Option(nil), q.question.Options...)
	out.Next = maps.Clone(q.question.Next)
	return out
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
