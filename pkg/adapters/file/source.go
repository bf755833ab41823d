// Package file provides a question bank source backed by a JSON or YAML file.
package file

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/qiscreen/internal/logging"
	"github.com/aretw0/qiscreen/pkg/bank"
	"github.com/aretw0/qiscreen/pkg/domain"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts of writes (editors often write, rename and chmod in a row).
const DefaultDebounce = 200 * time.Millisecond

// Source implements ports.BankSource and ports.Watchable for a single file.
type Source struct {
	path     string
	format   bank.Format
	debounce time.Duration
	logger   *slog.Logger
}

// Option configures the Source.
type Option func(*Source)

// WithFormat forces the format instead of guessing it from the extension.
func WithFormat(f bank.Format) Option {
	return func(s *Source) {
		s.format = f
	}
}

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(s *Source) {
		s.debounce = d
	}
}

// WithLogger sets the logger for watch events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) {
		s.logger = logger
	}
}

// New creates a Source for path.
func New(path string, opts ...Option) *Source {
	s := &Source{
		path:     path,
		format:   bank.FormatFromPath(path),
		debounce: DefaultDebounce,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements ports.BankSource.
func (s *Source) Name() string {
	return s.path
}

// Load reads and decodes the file.
func (s *Source) Load(ctx context.Context) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &domain.LoadError{Source: s.path, Reason: "unreadable", Err: err}
	}
	raw, err := bank.Decode(data, s.format)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return raw, nil
}

// Watch implements ports.Watchable. It watches the parent directory so that atomic
// replace-by-rename saves are seen, and signals at most once per debounce window.
func (s *Source) Watch(ctx context.Context) (<-chan struct{}, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to start file watcher: %w", err)
	}
	abs, err := filepath.Abs(s.path)
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("resolve %s: %w", s.path, err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		defer w.Close()

		var timer *time.Timer
		var fire <-chan time.Time
		defer func() {
			if timer != nil {
				timer.Stop()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != abs || evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				s.logger.Debug("bank file changed", "path", evt.Name, "op", evt.Op.String())
				if timer == nil {
					timer = time.NewTimer(s.debounce)
				} else {
					timer.Reset(s.debounce)
				}
				fire = timer.C
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				s.logger.Warn("bank watcher error", "path", s.path, "err", err)
			case <-fire:
				fire = nil
				select {
				case ch <- struct{}{}:
				default: // a signal is already pending
				}
			}
		}
	}()
	return ch, nil
}
