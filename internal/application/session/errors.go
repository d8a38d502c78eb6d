package session

import "errors"

// ErrEmptyDraft indicates a commit with no photo and an empty comment.
// The UI disables commit in that state; the controller still hard-rejects.
var ErrEmptyDraft = errors.New("draft has no image and no comment")

// ErrCaptureBusy indicates a capture request while one is already in flight.
// Two concurrent requests must never reach the device.
var ErrCaptureBusy = errors.New("photo capture already in flight")

// ErrNotFound indicates an unknown or already-closed session id.
var ErrNotFound = errors.New("session not found")

// ErrEnded indicates an operation on a session after End.
var ErrEnded = errors.New("session has ended")
