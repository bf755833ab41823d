package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/qiscreen/internal/logging"
	"github.com/aretw0/qiscreen/pkg/domain"
)

// Store persists session entries. Implementations must return domain.ErrSessionNotFound
// for unknown IDs and be safe for concurrent use.
type Store interface {
	Save(ctx context.Context, e *Entry) error
	Load(ctx context.Context, sessionID string) (*Entry, error)
	Delete(ctx context.Context, sessionID string) error
	List(ctx context.Context) ([]string, error)
}

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store Store

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new Session Manager with the given store.
func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		locks:  make(map[string]*lockEntry),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Create registers a new entry. It fails if the ID is already taken.
func (m *Manager) Create(ctx context.Context, e *Entry) error {
	return m.WithLock(ctx, e.ID(), func(ctx context.Context) error {
		_, err := m.store.Load(ctx, e.ID())
		if err == nil {
			return fmt.Errorf("session %q already exists", e.ID())
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("failed to check session existence: %w", err)
		}
		if err := m.store.Save(ctx, e); err != nil {
			return fmt.Errorf("failed to register session: %w", err)
		}
		m.logger.Debug("session created", "session", e.ID())
		return nil
	})
}

// Update runs fn on the entry while holding its lock.
func (m *Manager) Update(ctx context.Context, sessionID string, fn func(*Entry) error) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		e, err := m.store.Load(ctx, sessionID)
		if err != nil {
			return err
		}
		if err := fn(e); err != nil {
			return err
		}
		return m.store.Save(ctx, e)
	})
}

// View runs fn on the entry while holding its lock, without saving it back.
func (m *Manager) View(ctx context.Context, sessionID string, fn func(*Entry) error) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		e, err := m.store.Load(ctx, sessionID)
		if err != nil {
			return err
		}
		return fn(e)
	})
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		if _, err := m.store.Load(ctx, sessionID); err != nil {
			return err
		}
		m.logger.Debug("session deleted", "session", sessionID)
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}
