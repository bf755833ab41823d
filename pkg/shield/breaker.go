package shield

import (
	"log/slog"
	"time"

	"github.com/aretw0/qiscreen/internal/logging"
	"github.com/aretw0/qiscreen/pkg/domain"
)

// Breaker is the session-scoped circuit breaker. It presents at most one shield at a time
// and keeps it presented until CanRelease holds for it.
//
// Like a screening session, a Breaker is not safe for concurrent use.
type Breaker struct {
	sessionID string
	presented domain.ShieldID
	logger    *slog.Logger
	hooks     domain.LifecycleHooks
	now       func() time.Time
}

// BreakerOption configures a Breaker.
type BreakerOption func(*Breaker)

// WithBreakerLogger sets the breaker logger.
func WithBreakerLogger(logger *slog.Logger) BreakerOption {
	return func(b *Breaker) {
		b.logger = logger
	}
}

// WithBreakerHooks registers the OnShield callback of hooks.
func WithBreakerHooks(hooks domain.LifecycleHooks) BreakerOption {
	return func(b *Breaker) {
		b.hooks = hooks
	}
}

// NewBreaker creates a breaker for the given session.
func NewBreaker(sessionID string, opts ...BreakerOption) *Breaker {
	b := &Breaker{
		sessionID: sessionID,
		logger:    logging.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Presented returns the shield currently shown to the user.
func (b *Breaker) Presented() (domain.ShieldID, bool) {
	return b.presented, b.presented != ""
}

// Evaluate detects the active shields. If none is presented yet, the top active shield
// becomes presented. An already presented shield stays until released, even if the breath
// signals no longer trigger it.
func (b *Breaker) Evaluate(br domain.Breath, qi []float64) []domain.ShieldID {
	active := Detect(br, qi)
	if b.presented != "" {
		return active
	}
	if top, ok := Present(active); ok {
		b.presented = top
		b.logger.Info("shield presented", "session", b.sessionID, "shield", top, "active", active)
		b.emit(top, false)
	}
	return active
}

// Release clears the presented shield when its release condition holds and then
// re-evaluates, which may present the next active shield. It reports whether the
// presented shield was cleared.
func (b *Breaker) Release(br domain.Breath, qi []float64, actions domain.UserActions) bool {
	if b.presented == "" {
		return false
	}
	if !CanRelease(b.presented, br, actions) {
		b.logger.Debug("shield release refused", "session", b.sessionID, "shield", b.presented,
			"action_met", ActionMet(b.presented, actions))
		return false
	}
	released := b.presented
	b.presented = ""
	b.logger.Info("shield released", "session", b.sessionID, "shield", released)
	b.emit(released, true)
	b.Evaluate(br, qi)
	return true
}

func (b *Breaker) emit(id domain.ShieldID, released bool) {
	if b.hooks.OnShield == nil {
		return
	}
	b.hooks.OnShield(&domain.ShieldEvent{
		EventBase: domain.EventBase{Timestamp: b.now(), Type: domain.EventShield, SessionID: b.sessionID},
		Shield:    id,
		Released:  released,
	})
}
