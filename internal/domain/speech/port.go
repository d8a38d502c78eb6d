package speech

import "context"

// Result is one transcript event. Final marks the capability-originated
// terminator; the controller treats it the same as an explicit stop.
type Result struct {
	Text  string
	Final bool
}

// ResultFunc receives transcript events while a turn is listening.
type ResultFunc func(Result)

// Recognizer port (interface untuk speech-to-text capability)
type Recognizer interface {
	// Initialize reports ErrUnavailable when speech can never be used this
	// session (missing credentials, denied permission upstream).
	Initialize(ctx context.Context) error
	// Start begins a listening turn. fn gets partial and final transcripts;
	// each one carries the full text so far, not a delta.
	Start(ctx context.Context, fn ResultFunc) error
	// Push feeds an audio chunk into the current turn.
	Push(ctx context.Context, audio []byte) error
	// Stop ends the turn, emitting the final transcript if one is pending.
	Stop(ctx context.Context) error
}
