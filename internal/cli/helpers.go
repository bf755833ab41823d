package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/qiscreen/internal/logging"
	"github.com/aretw0/qiscreen/pkg/domain"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	start  sync.Once
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	sc.start.Do(func() {
		signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			select {
			case sig := <-sc.sigCh:
				sc.mu.Lock()
				sc.sigVal = sig
				sc.mu.Unlock()
				sc.Cancel()
			case <-sc.Context.Done():
				// Context cancelled elsewhere
			}
			sc.stop.Do(func() {
				signal.Stop(sc.sigCh)
			})
		}()
	})

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// CreateLogger configures the application logger.
// In debug mode, it writes to Stderr (to separate from Stdout flow UI).
func CreateLogger(debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.NewNop()
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnAnswer: func(e *domain.AnswerEvent) {
			logger.Debug("Answer", "question", e.QuestionID, "option", e.OptionIndex)
		},
		OnUndo: func(e *domain.AnswerEvent) {
			logger.Debug("Undo", "question", e.QuestionID)
		},
		OnRecover: func(e *domain.NavigationEvent) {
			logger.Debug("Navigation Recovered", "from", e.FromID, "to", e.ToID, "reason", e.Reason)
		},
		OnFallback: func(e *domain.NavigationEvent) {
			logger.Debug("Navigation Fallback", "from", e.FromID, "to", e.ToID)
		},
		OnComplete: func(e *domain.CompleteEvent) {
			logger.Debug("Session Complete", "answered", e.Answered, "forced", e.Forced)
		},
		OnShield: func(e *domain.ShieldEvent) {
			logger.Debug("Shield", "shield", e.Shield, "released", e.Released)
		},
	}
}

// pumpLines reads r line by line on its own goroutine. The channel is closed at EOF or
// when ctx is done. Only one pump may exist per reader, so prompts can be abandoned (on
// reload or signal) without leaving a reader blocked on a stale prompt.
func pumpLines(ctx context.Context, r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines
}

// errInputClosed reports that the input ended before an answer was given.
var errInputClosed = errors.New("input closed")

func readLine(ctx context.Context, lines <-chan string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-lines:
		if !ok {
			return "", errInputClosed
		}
		return line, nil
	}
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, errInputClosed) || errors.Is(err, io.EOF)
}

func handleExecutionError(err error) error {
	if err == nil || isInterrupted(err) {
		return nil // Exit 0 for interruptions
	}
	return err
}
