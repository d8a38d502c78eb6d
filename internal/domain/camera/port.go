package camera

import "context"

// Device port (interface untuk camera capability)
type Device interface {
	// Initialize brings the feed up. ErrUnavailable means the camera can
	// never be used this session.
	Initialize(ctx context.Context) error
	// Capture takes one photo. May block on device I/O; a failed attempt is
	// retryable (ErrCapture).
	Capture(ctx context.Context) ([]byte, error)
	// Release stops the feed. Safe to call more than once.
	Release()
}

// Sink is the ingest side of a device-fed camera implementation: the mobile
// client streams preview frames into it and Capture picks up the newest one.
type Sink interface {
	Offer(frame []byte) error
}
