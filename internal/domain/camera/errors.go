package camera

import "errors"

// ErrUnavailable indicates the camera never became usable for this session
// (init failure or denied permission). Not retried automatically.
var ErrUnavailable = errors.New("camera unavailable")

// ErrCapture indicates a single photo attempt failed. Retryable.
var ErrCapture = errors.New("camera capture failed")
