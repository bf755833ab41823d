package qiscreen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/aretw0/qiscreen/internal/logging"
	"github.com/aretw0/qiscreen/pkg/adapters/memory"
	"github.com/aretw0/qiscreen/pkg/bank"
	"github.com/aretw0/qiscreen/pkg/domain"
	"github.com/aretw0/qiscreen/pkg/guidance"
	"github.com/aretw0/qiscreen/pkg/ports"
	"github.com/aretw0/qiscreen/pkg/screening"
	"github.com/aretw0/qiscreen/pkg/session"
	"github.com/aretw0/qiscreen/pkg/shield"
)

// ErrWatchUnsupported is returned by Watch when the bank source cannot be watched.
var ErrWatchUnsupported = errors.New("bank source does not support watching")

// Engine is the high-level entry point for the qiscreen library.
// It owns the loaded question graph and a registry of live sessions, and wires the
// breath, shield and guidance evaluators behind a simplified API.
type Engine struct {
	source ports.BankSource
	graph  atomic.Pointer[domain.QuestionGraph]

	cfg       screening.Config
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	store     session.Store
	table     guidance.Table
	generator ports.TextGenerator
	now       func() time.Time

	sessions  *session.Manager
	selector  *guidance.Selector
	assistant *shield.Assistant

	Name string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks for every session and breaker.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithSessionConfig sets the length bounds, entry question and fallback policy of new sessions.
func WithSessionConfig(cfg screening.Config) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithStore replaces the in-memory session store.
func WithStore(store session.Store) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithGuidanceTable replaces the built-in guidance rules.
func WithGuidanceTable(table guidance.Table) Option {
	return func(e *Engine) {
		e.table = table
	}
}

// WithGenerator enables generated shield guidance.
func WithGenerator(g ports.TextGenerator) Option {
	return func(e *Engine) {
		e.generator = g
	}
}

// WithClock overrides time.Now, which picks the seasonal rhythm and breath phase.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New loads the question bank from src and initializes the engine.
func New(ctx context.Context, src ports.BankSource, opts ...Option) (*Engine, error) {
	if src == nil {
		return nil, fmt.Errorf("bank source is required")
	}
	eng := &Engine{
		source: src,
		logger: logging.NewNop(),
		now:    time.Now,
		Name:   src.Name(),
	}
	for _, opt := range opts {
		opt(eng)
	}
	if err := eng.cfg.Validate(); err != nil {
		return nil, err
	}
	eng.logger = eng.logger.With("bank", eng.Name)

	if eng.store == nil {
		eng.store = memory.NewStore()
	}
	eng.sessions = session.NewManager(eng.store, session.WithLogger(eng.logger))
	eng.selector = guidance.NewSelector(eng.table)

	assistOpts := []shield.AssistantOption{
		shield.WithClock(eng.now),
		shield.WithAssistantLogger(eng.logger),
	}
	if eng.generator != nil {
		assistOpts = append(assistOpts, shield.WithGenerator(eng.generator))
	}
	eng.assistant = shield.NewAssistant(assistOpts...)

	g, err := eng.load(ctx)
	if err != nil {
		return nil, err
	}
	eng.graph.Store(g)
	return eng, nil
}

func (e *Engine) load(ctx context.Context) (*domain.QuestionGraph, error) {
	raw, err := e.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load question bank: %w", err)
	}
	return bank.Load(raw, bank.WithLogger(e.logger), bank.WithSourceName(e.Name))
}

// Graph returns the current question graph. Existing sessions keep the graph they
// started with.
func (e *Engine) Graph() *domain.QuestionGraph {
	return e.graph.Load()
}

// Reload re-reads the bank and swaps the graph. On failure the previous graph stays.
func (e *Engine) Reload(ctx context.Context) error {
	g, err := e.load(ctx)
	if err != nil {
		return err
	}
	e.graph.Store(g)
	e.logger.Info("question bank reloaded", "questions", g.Len())
	return nil
}

// Watch reloads the graph whenever the source changes and reports each successful
// reload with the source name. The channel is closed when ctx is done.
// Returns ErrWatchUnsupported if the source does not support watching.
func (e *Engine) Watch(ctx context.Context) (<-chan string, error) {
	w, ok := e.source.(ports.Watchable)
	if !ok {
		return nil, ErrWatchUnsupported
	}
	changes, err := w.Watch(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan string, 1)
	go func() {
		defer close(out)
		for range changes {
			if err := e.Reload(ctx); err != nil {
				e.logger.Warn("reload failed, keeping previous graph", "err", err)
				continue
			}
			select {
			case out <- e.Name:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// Source returns the bank source used by the engine.
func (e *Engine) Source() ports.BankSource {
	return e.source
}

// Guide returns remediation guidance for a shield.
func (e *Engine) Guide(ctx context.Context, id domain.ShieldID) (shield.Guidance, error) {
	return e.assistant.Guide(ctx, id)
}

// Suggest runs the guidance selector directly.
func (e *Engine) Suggest(qi domain.QiVector, lumin domain.LuminVector, rhythm string, opts guidance.Options) []guidance.Suggestion {
	return e.selector.Select(qi, lumin, rhythm, opts)
}
