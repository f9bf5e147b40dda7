// Package audit captures key actions as transport-agnostic events. Services
// hand events to a Recorder; a background Worker drains them into a Store.
package audit

import (
	"context"
	"log/slog"
	"time"
)

// Category classifies events by their primary purpose so stores can apply
// different retention.
type Category string

const (
	// CategoryOperations covers routine actions useful for debugging and
	// operational visibility.
	CategoryOperations Category = "operations"
	// CategorySecurity covers events relevant to security monitoring:
	// auth failures, logins, logouts.
	CategorySecurity Category = "security"
)

// Action names follow "<subject>_<verb in past tense>".
type Action string

const (
	ActionItemAdded             Action = "item_added"
	ActionItemUpdated           Action = "item_updated"
	ActionItemRemoved           Action = "item_removed"
	ActionProgressionRegistered Action = "progression_registered"
	ActionRuleRejected          Action = "rule_rejected"

	ActionUserRegistered Action = "user_registered"
	ActionLoginSucceeded Action = "login_succeeded"
	ActionLoginFailed    Action = "login_failed"
	ActionLogout         Action = "logout"
)

// Event is one audited action. Keep it flat and transport-agnostic so
// stores and sinks can fan out without knowing about HTTP or the domain.
type Event struct {
	Category  Category  `json:"category"`
	Action    Action    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	UserID    string    `json:"user_id,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	// ItemID is set for task events, zero otherwise.
	ItemID int `json:"item_id,omitempty"`
	// Detail carries the human-readable specifics, e.g. a rule rejection
	// description.
	Detail string `json:"detail,omitempty"`
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	List(ctx context.Context) ([]Event, error)
}

// Recorder accepts events without blocking the request path. When the buffer
// is full the event is dropped and counted; audit loss must never stall a
// mutation.
type Recorder struct {
	inbox  chan Event
	logger *slog.Logger
}

// NewRecorder builds a Recorder with the given buffer size.
func NewRecorder(buffer int, logger *slog.Logger) *Recorder {
	return &Recorder{
		inbox:  make(chan Event, buffer),
		logger: logger,
	}
}

// Record enqueues an event, stamping the time when unset.
func (r *Recorder) Record(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case r.inbox <- event:
	default:
		r.logger.Warn("audit buffer full, event dropped",
			"action", event.Action,
			"user_id", event.UserID,
		)
	}
}

// Events exposes the inbox for the draining worker.
func (r *Recorder) Events() <-chan Event {
	return r.inbox
}
