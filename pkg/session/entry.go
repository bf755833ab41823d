package session

import (
	"time"

	"github.com/aretw0/qiscreen/pkg/domain"
	"github.com/aretw0/qiscreen/pkg/screening"
	"github.com/aretw0/qiscreen/pkg/shield"
)

// Entry is everything the registry keeps for one user: the questionnaire walk, its circuit
// breaker and the remediation actions recorded so far.
// Fields must only be touched under Manager.WithLock / Manager.Update.
type Entry struct {
	Session   *screening.Session
	Breaker   *shield.Breaker
	Actions   domain.UserActions
	CreatedAt time.Time
}

// ID returns the session ID.
func (e *Entry) ID() string {
	return e.Session.ID()
}

// Record merges newly reported actions into the recorded ones. Lists are appended and the
// pattern statement is replaced when non-empty. A boundary, once set, stays set.
func (e *Entry) Record(a domain.UserActions) {
	e.Actions.GroundingAnswers = append(e.Actions.GroundingAnswers, a.GroundingAnswers...)
	e.Actions.ConcreteActions = append(e.Actions.ConcreteActions, a.ConcreteActions...)
	if a.PatternStatement != "" {
		e.Actions.PatternStatement = a.PatternStatement
	}
	e.Actions.BoundarySet = e.Actions.BoundarySet || a.BoundarySet
}
