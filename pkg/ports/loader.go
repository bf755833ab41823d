package ports

import "context"

// BankSource defines how the engine retrieves a question bank.
// This allows the storage layer (file, memory) to be decoupled from validation, which
// is done by pkg/bank on the returned tree.
type BankSource interface {
	// Load returns the decoded bank tree (mappings as map[string]any, lists as []any).
	// It is the only I/O boundary of the engine and honours ctx cancellation.
	Load(ctx context.Context) (any, error)

	// Name identifies the source in logs and load errors (e.g. a file path).
	Name() string
}

// Watchable defines an interface for sources that can notify about backend changes.
// This is typically used for hot-reload or dev-mode functionality.
type Watchable interface {
	// Watch returns a channel that is signaled when the underlying bank changes.
	// It abstracts away the specific event details, signaling only that a reload is required.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
