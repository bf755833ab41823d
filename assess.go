package qiscreen

import (
	"context"

	"github.com/aretw0/qiscreen/pkg/breath"
	"github.com/aretw0/qiscreen/pkg/domain"
	"github.com/aretw0/qiscreen/pkg/guidance"
	"github.com/aretw0/qiscreen/pkg/session"
)

// Assessment is the result a session's answers lead to.
type Assessment struct {
	SessionID  string                `json:"session_id"`
	Normalized domain.Accumulators   `json:"normalized"`
	Breath     domain.Breath         `json:"breath"`
	Active     []domain.ShieldID     `json:"active_shields"`
	Presented  *domain.ShieldID      `json:"presented_shield,omitempty"`
	Rhythm     string                `json:"rhythm"`
	Guidance   []guidance.Suggestion `json:"guidance,omitempty"`
	Progress   domain.Progress       `json:"progress"`
}

// Assess normalises the session's vectors, derives the breath signals and runs the
// circuit breaker on them. Guidance is selected only when no shield is active; the rhythm
// is the dominant tally, or the seasonal rhythm of the current month when nothing was
// tallied. Assess may be called before completion.
func (e *Engine) Assess(ctx context.Context, id string) (*Assessment, error) {
	var a *Assessment
	err := e.sessions.Update(ctx, id, func(entry *session.Entry) error {
		var err error
		a, err = e.assess(entry)
		return err
	})
	return a, err
}

func (e *Engine) assess(entry *session.Entry) (*Assessment, error) {
	acc := entry.Session.Accumulators()
	n := breath.Normalize(acc)
	br, err := breath.FromVectors(n.Qi, n.Lumin)
	if err != nil {
		return nil, err
	}

	a := &Assessment{
		SessionID:  entry.ID(),
		Normalized: n,
		Breath:     br,
		Active:     entry.Breaker.Evaluate(br, n.Qi.Slice()),
		Rhythm:     e.rhythm(acc.Rhythm),
		Progress:   entry.Session.Progress(),
	}
	if id, ok := entry.Breaker.Presented(); ok {
		a.Presented = &id
	}
	if len(a.Active) == 0 {
		a.Guidance = e.selector.Select(n.Qi, n.Lumin, a.Rhythm, guidance.Options{})
	}
	return a, nil
}

func (e *Engine) rhythm(v domain.RhythmVector) string {
	if v.IsZero() {
		return domain.RhythmForMonth(e.now().Month())
	}
	return v.Dominant()
}
