package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/qiscreen/pkg/adapters/memory"
	"github.com/aretw0/qiscreen/pkg/domain"
	"github.com/aretw0/qiscreen/pkg/bank"
	contract "github.com/aretw0/qiscreen/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_Contract(t *testing.T) {
	source := memory.NewSource(map[string]any{
		"_meta": map[string]any{"name": "demo"},
		"start": map[string]any{
			"id": "start", "text": "Hello", "options": []any{"ok"}, "next": map[string]any{"0": "end"},
		},
		"end": map[string]any{
			"id": "end", "text": "Goodbye", "options": []any{"ok"}, "next": map[string]any{"0": "END"},
		},
	})

	contract.BankSourceContractTest(t, source, []string{"end", "start"})
}

func TestNewFromQuestions_Contract(t *testing.T) {
	var e domain.Effects
	e.Set("厚载", 1)
	source, err := memory.NewFromQuestions(
		&domain.Question{ID: "a", Text: "A", Stage: 2, Options: []domain.Option{{Label: "x", Effects: e}}, Next: map[string]string{"0": "b"}},
		&domain.Question{ID: "b", Text: "B", Stage: 1, Options: []domain.Option{{ID: "y", Label: "y"}}, Next: map[string]string{"y": "END"}},
	)
	require.NoError(t, err)

	contract.BankSourceContractTest(t, source, []string{"a", "b"})

	_, err = memory.NewFromQuestions(&domain.Question{})
	require.Error(t, err)
}

func TestNewFromQuestions_DefaultStage(t *testing.T) {
	source, err := memory.NewFromQuestions(&domain.Question{
		ID:      "q1",
		Text:    "t",
		Options: []domain.Option{{Label: "a"}},
		Next:    map[string]string{"0": domain.TerminalID},
	})
	require.NoError(t, err)

	raw, err := source.Load(context.Background())
	require.NoError(t, err)

	g, warnings, err := bank.NewLoader().Inspect(raw)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	q, ok := g.Get("q1")
	require.True(t, ok)
	assert.Equal(t, domain.MinStage, q.Stage)
}
