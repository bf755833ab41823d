package qiscreen

import (
	"context"
	"time"

	"github.com/aretw0/qiscreen/pkg/breath"
	"github.com/aretw0/qiscreen/pkg/domain"
	"github.com/aretw0/qiscreen/pkg/screening"
	"github.com/aretw0/qiscreen/pkg/session"
	"github.com/aretw0/qiscreen/pkg/shield"
)

// Snapshot is a copy of a session's visible state, taken under its lock.
type Snapshot struct {
	ID        string           `json:"id"`
	Question  *domain.Question `json:"question,omitempty"`
	Complete  bool             `json:"complete"`
	CanUndo   bool             `json:"can_undo"`
	Progress  domain.Progress  `json:"progress"`
	History   []domain.Answer  `json:"history"`
	Shield    *domain.ShieldID `json:"shield,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// ReleaseResult reports a release attempt.
type ReleaseResult struct {
	Released bool               `json:"released"`
	Shield   *domain.ShieldID   `json:"shield,omitempty"` // the shield the attempt was made against
	Next     *domain.ShieldID   `json:"next,omitempty"`   // presented after the attempt
	Actions  domain.UserActions `json:"actions"`
}

func snapshot(e *session.Entry) Snapshot {
	s := e.Session
	snap := Snapshot{
		ID:        s.ID(),
		Complete:  s.IsComplete(),
		CanUndo:   s.CanUndo(),
		Progress:  s.Progress(),
		History:   s.AnswerHistory(),
		CreatedAt: e.CreatedAt,
	}
	if q, ok := s.CurrentQuestion(); ok {
		snap.Question = q
	}
	if id, ok := e.Breaker.Presented(); ok {
		snap.Shield = &id
	}
	return snap
}

// StartSession creates a session on the current graph and registers it.
func (e *Engine) StartSession(ctx context.Context) (Snapshot, error) {
	s, err := screening.New(e.Graph(),
		screening.WithConfig(e.cfg),
		screening.WithLogger(e.logger),
		screening.WithLifecycleHooks(e.hooks),
	)
	if err != nil {
		return Snapshot{}, err
	}
	entry := &session.Entry{
		Session:   s,
		Breaker:   shield.NewBreaker(s.ID(), shield.WithBreakerLogger(e.logger), shield.WithBreakerHooks(e.hooks)),
		CreatedAt: e.now(),
	}
	if err := e.sessions.Create(ctx, entry); err != nil {
		return Snapshot{}, err
	}
	e.logger.Info("session started", "session", s.ID())
	return snapshot(entry), nil
}

// Session returns the state of a registered session.
func (e *Engine) Session(ctx context.Context, id string) (Snapshot, error) {
	var snap Snapshot
	err := e.sessions.View(ctx, id, func(entry *session.Entry) error {
		snap = snapshot(entry)
		return nil
	})
	return snap, err
}

// Sessions lists registered session IDs.
func (e *Engine) Sessions(ctx context.Context) ([]string, error) {
	return e.sessions.List(ctx)
}

// EndSession removes a session.
func (e *Engine) EndSession(ctx context.Context, id string) error {
	return e.sessions.Delete(ctx, id)
}

// Submit answers the current question. When the answer completes the session, the
// circuit breaker evaluates the accumulated vectors so a triggered shield is presented
// before the caller asks for an assessment.
func (e *Engine) Submit(ctx context.Context, id string, optionIndex int) (screening.Outcome, Snapshot, error) {
	var (
		outcome screening.Outcome
		snap    Snapshot
	)
	err := e.sessions.Update(ctx, id, func(entry *session.Entry) error {
		outcome = entry.Session.Submit(optionIndex)
		if outcome == screening.Completed {
			if _, err := evaluate(entry); err != nil {
				return err
			}
		}
		snap = snapshot(entry)
		return nil
	})
	return outcome, snap, err
}

// Undo takes back the last answer.
func (e *Engine) Undo(ctx context.Context, id string) (bool, Snapshot, error) {
	var (
		ok   bool
		snap Snapshot
	)
	err := e.sessions.Update(ctx, id, func(entry *session.Entry) error {
		ok = entry.Session.Undo()
		snap = snapshot(entry)
		return nil
	})
	return ok, snap, err
}

// Release records the user's remediation actions and tries to release the presented
// shield against the session's current breath signals. Free text is sanitized first;
// oversized or malformed text fails with a contract violation and records nothing.
func (e *Engine) Release(ctx context.Context, id string, actions domain.UserActions) (ReleaseResult, error) {
	actions, err := shield.SanitizeActions(actions)
	if err != nil {
		return ReleaseResult{}, err
	}
	var res ReleaseResult
	err = e.sessions.Update(ctx, id, func(entry *session.Entry) error {
		entry.Record(actions)
		n := breath.Normalize(entry.Session.Accumulators())
		br, err := breath.FromVectors(n.Qi, n.Lumin)
		if err != nil {
			return err
		}
		if cur, ok := entry.Breaker.Presented(); ok {
			res.Shield = &cur
		}
		res.Released = entry.Breaker.Release(br, n.Qi.Slice(), entry.Actions)
		if next, ok := entry.Breaker.Presented(); ok {
			res.Next = &next
		}
		res.Actions = entry.Actions
		return nil
	})
	return res, err
}

// evaluate runs the breaker on the session's normalised vectors.
func evaluate(entry *session.Entry) ([]domain.ShieldID, error) {
	n := breath.Normalize(entry.Session.Accumulators())
	br, err := breath.FromVectors(n.Qi, n.Lumin)
	if err != nil {
		return nil, err
	}
	return entry.Breaker.Evaluate(br, n.Qi.Slice()), nil
}
