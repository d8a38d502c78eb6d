package session

import "time"

// EventKind names a successful mutation. Presentation layers subscribe to
// these instead of polling session state.
type EventKind string

const (
	EventSessionOpened    EventKind = "session_opened"
	EventSessionEnded     EventKind = "session_ended"
	EventRoomSelected     EventKind = "room_selected"
	EventPhotoCaptured    EventKind = "photo_captured"
	EventCommentChanged   EventKind = "comment_changed"
	EventDictationStarted EventKind = "dictation_started"
	EventDictationStopped EventKind = "dictation_stopped"
	EventRecordCommitted  EventKind = "record_committed"
)

// Event is emitted after each successful mutation, never before it.
type Event struct {
	SessionID string
	Kind      EventKind
	At        time.Time
}

// Notifier receives change events. Implementations must not block; the
// session emits while holding its own lock.
type Notifier interface {
	Notify(Event)
}

// NopNotifier discards events.
type NopNotifier struct{}

func (NopNotifier) Notify(Event) {}
