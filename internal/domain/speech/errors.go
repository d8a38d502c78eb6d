package speech

import "errors"

// ErrUnavailable indicates speech recognition never became usable for this
// session. Typed comments keep working.
var ErrUnavailable = errors.New("speech recognition unavailable")

// ErrNotListening indicates a push/stop with no listening turn in flight.
var ErrNotListening = errors.New("no dictation in progress")

// ErrAlreadyListening indicates a start while a turn is already in flight.
var ErrAlreadyListening = errors.New("dictation already in progress")
