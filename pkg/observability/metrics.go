package observability

import (
	"log/slog"
	"strconv"

	"github.com/aretw0/qiscreen/internal/logging"
	"github.com/aretw0/qiscreen/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the engine collectors.
type Metrics struct {
	Answers     prometheus.Counter
	Undos       prometheus.Counter
	Navigation  *prometheus.CounterVec
	Completions *prometheus.CounterVec
	Length      prometheus.Histogram
	Shields     *prometheus.CounterVec

	logger *slog.Logger
}

// Option configures Metrics.
type Option func(*Metrics)

// WithLogger logs every lifecycle event at INFO (answers at DEBUG).
func WithLogger(logger *slog.Logger) Option {
	return func(m *Metrics) {
		m.logger = logger
	}
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer, opts ...Option) (*Metrics, error) {
	m := &Metrics{
		Answers: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "qiscreen_answers_total",
			Help: "Total number of recorded answers",
		}),
		Undos: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "qiscreen_undos_total",
			Help: "Total number of undone answers",
		}),
		Navigation: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "qiscreen_navigation_repairs_total",
			Help: "Navigation recoveries and fallbacks",
		}, []string{"kind"}),
		Completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "qiscreen_sessions_completed_total",
			Help: "Completed sessions",
		}, []string{"forced"}),
		Length: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "qiscreen_session_answers",
			Help:    "Number of answers in completed sessions",
			Buckets: []float64{5, 10, 20, 40, 60, 80, 100},
		}),
		Shields: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "qiscreen_shield_events_total",
			Help: "Shields presented and released",
		}, []string{"shield", "event"}),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	for _, c := range []prometheus.Collector{m.Answers, m.Undos, m.Navigation, m.Completions, m.Length, m.Shields} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnAnswer: func(e *domain.AnswerEvent) {
			m.logger.Debug("answer", "session", e.SessionID, "question", e.QuestionID, "option", e.OptionIndex)
			m.Answers.Inc()
		},
		OnUndo: func(e *domain.AnswerEvent) {
			m.logger.Info("undo", "session", e.SessionID, "question", e.QuestionID)
			m.Undos.Inc()
		},
		OnRecover: func(e *domain.NavigationEvent) {
			m.logger.Info("navigation_recovered", "session", e.SessionID, "from", e.FromID, "to", e.ToID, "reason", e.Reason)
			m.Navigation.WithLabelValues(string(domain.EventRecover)).Inc()
		},
		OnFallback: func(e *domain.NavigationEvent) {
			m.logger.Info("navigation_fallback", "session", e.SessionID, "from", e.FromID, "to", e.ToID)
			m.Navigation.WithLabelValues(string(domain.EventFallback)).Inc()
		},
		OnComplete: func(e *domain.CompleteEvent) {
			m.logger.Info("session_complete", "session", e.SessionID, "answered", e.Answered, "forced", e.Forced)
			m.Completions.WithLabelValues(strconv.FormatBool(e.Forced)).Inc()
			m.Length.Observe(float64(e.Answered))
		},
		OnShield: func(e *domain.ShieldEvent) {
			event := "presented"
			if e.Released {
				event = "released"
			}
			m.logger.Info("shield_"+event, "session", e.SessionID, "shield", e.Shield)
			m.Shields.WithLabelValues(string(e.Shield), event).Inc()
		},
	}
}
