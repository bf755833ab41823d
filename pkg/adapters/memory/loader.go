package memory

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/qiscreen/pkg/domain"
)

// Source implements ports.BankSource over an in-memory tree.
type Source struct {
	name string
	raw  any
}

// NewSource serves raw as-is on every Load. raw should look like a decoded bank
// (map[string]any of records).
func NewSource(raw any) *Source {
	return &Source{name: "memory", raw: raw}
}

// NewFromQuestions creates a Source from domain objects.
// This handles serialization automatically, improving DX for tests.
func NewFromQuestions(questions ...*domain.Question) (*Source, error) {
	root := make(map[string]any, len(questions))
	for _, q := range questions {
		if q.ID == "" {
			return nil, fmt.Errorf("question missing ID")
		}
		data, err := json.Marshal(q)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal question %s: %w", q.ID, err)
		}
		var rec any
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("failed to decode question %s: %w", q.ID, err)
		}
		root[q.ID] = rec
	}
	return &Source{name: "memory", raw: root}, nil
}

// Load returns the tree.
func (s *Source) Load(ctx context.Context) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.raw, nil
}

// Name implements ports.BankSource.
func (s *Source) Name() string {
	return s.name
}
