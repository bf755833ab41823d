package screening

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/qiscreen/internal/logging"
	"github.com/aretw0/qiscreen/pkg/domain"
	"github.com/google/uuid"
)

// ErrInvalidConfig is returned by New when the session configuration is inconsistent.
var ErrInvalidConfig = errors.New("invalid session config")

// Outcome reports what a Submit call did.
type Outcome int

const (
	// Ignored means the session was already complete and nothing changed.
	Ignored Outcome = iota
	// Advanced means the answer was recorded and the session moved to the next question.
	Advanced
	// Completed means the answer was recorded and the session ended.
	Completed
	// FellBack means the graph signalled termination too early and the fallback policy
	// picked the continuation.
	FellBack
	// Recovered means the current question or option was invalid; no answer was recorded
	// and the session resumed at a valid question.
	Recovered
)

func (o Outcome) String() string {
	switch o {
	case Advanced:
		return "advanced"
	case Completed:
		return "completed"
	case FellBack:
		return "fell_back"
	case Recovered:
		return "recovered"
	default:
		return "ignored"
	}
}

// MarshalText lets Outcome render as its name in JSON.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Config holds the session length bounds and navigation strategy.
// Zero values take the defaults.
type Config struct {
	MinQuestions int
	MaxQuestions int
	Entry        string         // first question; defaults to the smallest ID
	Policy       FallbackPolicy // defaults to StagePolicy
}

func (c Config) withDefaults() Config {
	if c.MinQuestions <= 0 {
		c.MinQuestions = domain.DefaultMinQuestions
	}
	if c.MaxQuestions <= 0 {
		c.MaxQuestions = domain.DefaultMaxQuestions
	}
	if c.Policy == nil {
		c.Policy = StagePolicy{}
	}
	return c
}

// Validate reports inconsistent bounds.
func (c Config) Validate() error {
	c = c.withDefaults()
	if c.MaxQuestions < c.MinQuestions {
		return fmt.Errorf("%w: max questions (%d) below min questions (%d)", ErrInvalidConfig, c.MaxQuestions, c.MinQuestions)
	}
	return nil
}

// entry is one answer plus the accumulator snapshot taken before it was applied.
type entry struct {
	answer domain.Answer
	before domain.Accumulators
}

// Session walks one user through a QuestionGraph.
//
// A Session is not safe for concurrent use; callers must serialise Submit and Undo.
type Session struct {
	id     string
	graph  *domain.QuestionGraph
	cfg    Config
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	now    func() time.Time

	currentID string
	acc       domain.Accumulators
	history   []entry
	answered  map[string]int // question id -> times answered
	completed bool
}

// Option configures a Session.
type Option func(*Session)

// WithConfig sets length bounds, entry and policy.
func WithConfig(cfg Config) Option {
	return func(s *Session) {
		s.cfg = cfg
	}
}

// WithPolicy overrides only the fallback policy.
func WithPolicy(p FallbackPolicy) Option {
	return func(s *Session) {
		s.cfg.Policy = p
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Session) {
		s.hooks = hooks
	}
}

// WithID sets the session ID instead of a random UUID.
func WithID(id string) Option {
	return func(s *Session) {
		s.id = id
	}
}

// New starts a session at the entry question of g.
func New(g *domain.QuestionGraph, opts ...Option) (*Session, error) {
	if g == nil || g.Len() == 0 {
		return nil, fmt.Errorf("%w: empty question graph", ErrInvalidConfig)
	}
	s := &Session{
		id:       uuid.NewString(),
		graph:    g,
		logger:   logging.NewNop(),
		now:      time.Now,
		answered: make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}
	s.cfg = s.cfg.withDefaults()

	if s.cfg.Entry == "" {
		s.currentID, _ = g.First()
	} else {
		if !g.Has(s.cfg.Entry) {
			return nil, fmt.Errorf("%w: entry question %q not found", ErrInvalidConfig, s.cfg.Entry)
		}
		s.currentID = s.cfg.Entry
	}
	s.logger = s.logger.With("session", s.id)
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Config returns the effective configuration.
func (s *Session) Config() Config { return s.cfg }

// Graph returns the graph the session walks.
func (s *Session) Graph() *domain.QuestionGraph { return s.graph }

// CurrentID returns the current question ID, valid or not.
func (s *Session) CurrentID() string { return s.currentID }

// CurrentQuestion returns the question to present, or false when the session is complete
// or positioned on an unknown question.
func (s *Session) CurrentQuestion() (*domain.Question, bool) {
	if s.IsComplete() {
		return nil, false
	}
	return s.graph.Get(s.currentID)
}

// Submit records the answer at optionIndex and advances.
// It never fails: invalid input triggers recovery.
func (s *Session) Submit(optionIndex int) Outcome {
	if s.IsComplete() {
		return Ignored
	}

	q, ok := s.graph.Get(s.currentID)
	if !ok {
		s.recover(fmt.Sprintf("unknown question %q", s.currentID))
		return Recovered
	}
	opt, ok := q.Option(optionIndex)
	if !ok {
		s.recover(fmt.Sprintf("option %d out of range on %q", optionIndex, q.ID))
		return Recovered
	}

	answer := domain.Answer{QuestionID: q.ID, OptionIndex: optionIndex}
	s.history = append(s.history, entry{answer: answer, before: s.acc})
	s.answered[q.ID]++
	s.acc = s.acc.Add(opt.Effects)
	s.emitAnswer(s.hooks.OnAnswer, domain.EventAnswer, answer)

	nextID, ok := q.NextFor(optionIndex)
	if ok && nextID != domain.TerminalID && s.graph.Has(nextID) {
		s.currentID = nextID
		if len(s.history) >= s.cfg.MaxQuestions {
			s.emitComplete(true)
			return Completed
		}
		return Advanced
	}

	// Termination signal.
	if len(s.history) >= s.cfg.MinQuestions {
		s.completed = true
		s.emitComplete(false)
		return Completed
	}

	fallback, ok := s.cfg.Policy.Next(s.graph, q.ID, s.answeredSet())
	if !ok {
		s.logger.Debug("no fallback candidate, forcing completion", "question", q.ID, "answered", len(s.history))
		s.completed = true
		s.emitComplete(true)
		return Completed
	}
	s.logger.Debug("early termination, falling back", "from", q.ID, "to", fallback, "policy", s.cfg.Policy.Name())
	s.currentID = fallback
	s.emitNavigation(s.hooks.OnFallback, domain.EventFallback, q.ID, fallback, "early termination")
	if len(s.history) >= s.cfg.MaxQuestions {
		s.emitComplete(true)
		return Completed
	}
	return FellBack
}

// recover moves the session to the question after the most recent valid answered one,
// or to position min(len(history), size-1) when there is none.
func (s *Session) recover(reason string) {
	ids := s.graph.IDs()
	target := ""
	for i := len(s.history) - 1; i >= 0; i-- {
		if idx := s.graph.IndexOf(s.history[i].answer.QuestionID); idx >= 0 {
			target = ids[(idx+1)%len(ids)]
			break
		}
	}
	if target == "" {
		pos := min(len(s.history), len(ids)-1)
		target = ids[pos]
	}
	s.logger.Debug("navigation recovered", "from", s.currentID, "to", target, "reason", reason)
	from := s.currentID
	s.currentID = target
	s.emitNavigation(s.hooks.OnRecover, domain.EventRecover, from, target, reason)
}

// CanUndo reports whether Undo would succeed.
func (s *Session) CanUndo() bool {
	return len(s.history) > 0 && !s.completed
}

// Undo pops the last answer, restores the accumulators exactly as they were before it
// and returns to its question.
func (s *Session) Undo() bool {
	if !s.CanUndo() {
		return false
	}
	last := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	if s.answered[last.answer.QuestionID]--; s.answered[last.answer.QuestionID] <= 0 {
		delete(s.answered, last.answer.QuestionID)
	}
	s.acc = last.before
	s.currentID = last.answer.QuestionID
	s.completed = false
	s.emitAnswer(s.hooks.OnUndo, domain.EventUndo, last.answer)
	return true
}

// IsComplete reports natural or forced completion, or reaching the answer cap.
func (s *Session) IsComplete() bool {
	return s.completed || len(s.history) >= s.cfg.MaxQuestions
}

// AnswerHistory returns a copy of the answer history.
func (s *Session) AnswerHistory() []domain.Answer {
	out := make([]domain.Answer, len(s.history))
	for i, e := range s.history {
		out[i] = e.answer
	}
	return out
}

// Accumulators returns a copy of the accumulated vectors.
func (s *Session) Accumulators() domain.Accumulators {
	return s.acc
}

// Progress summarises the session length against its bounds.
func (s *Session) Progress() domain.Progress {
	return domain.Progress{
		Answered:     len(s.history),
		MinQuestions: s.cfg.MinQuestions,
		MaxQuestions: s.cfg.MaxQuestions,
		Complete:     s.IsComplete(),
	}
}

func (s *Session) answeredSet() map[string]bool {
	set := make(map[string]bool, len(s.answered))
	for id := range s.answered {
		set[id] = true
	}
	return set
}

func (s *Session) base(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: s.now(), Type: t, SessionID: s.id}
}

func (s *Session) emitAnswer(hook func(*domain.AnswerEvent), t domain.EventType, a domain.Answer) {
	if hook == nil {
		return
	}
	hook(&domain.AnswerEvent{EventBase: s.base(t), QuestionID: a.QuestionID, OptionIndex: a.OptionIndex})
}

func (s *Session) emitNavigation(hook func(*domain.NavigationEvent), t domain.EventType, from, to, reason string) {
	if hook == nil {
		return
	}
	hook(&domain.NavigationEvent{EventBase: s.base(t), FromID: from, ToID: to, Reason: reason})
}

func (s *Session) emitComplete(forced bool) {
	s.logger.Debug("session complete", "answered", len(s.history), "forced", forced)
	if s.hooks.OnComplete == nil {
		return
	}
	s.hooks.OnComplete(&domain.CompleteEvent{EventBase: s.base(domain.EventComplete), Answered: len(s.history), Forced: forced})
}
