package domain

import "time"

// EventType defines the category of the event.
type EventType string

const (
	EventAnswer   EventType = "answer"
	EventUndo     EventType = "undo"
	EventRecover  EventType = "recover"
	EventFallback EventType = "fallback"
	EventComplete EventType = "complete"
	EventShield   EventType = "shield"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// AnswerEvent is emitted for submitted and undone answers.
type AnswerEvent struct {
	EventBase
	QuestionID  string `json:"question_id"`
	OptionIndex int    `json:"option_index"`
}

// NavigationEvent is emitted when the session self-heals or falls back.
type NavigationEvent struct {
	EventBase
	FromID string `json:"from_id"`
	ToID   string `json:"to_id,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// CompleteEvent is emitted once a session reaches completion.
type CompleteEvent struct {
	EventBase
	Answered int  `json:"answered"`
	Forced   bool `json:"forced"`
}

// ShieldEvent is emitted when a shield is presented or released.
type ShieldEvent struct {
	EventBase
	Shield   ShieldID `json:"shield"`
	Released bool     `json:"released"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks run synchronously on the caller's goroutine.
type LifecycleHooks struct {
	OnAnswer   func(*AnswerEvent)
	OnUndo     func(*AnswerEvent)
	OnRecover  func(*NavigationEvent)
	OnFallback func(*NavigationEvent)
	OnComplete func(*CompleteEvent)
	OnShield   func(*ShieldEvent)
}
