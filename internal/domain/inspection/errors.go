package inspection

import "errors"

// ErrEmptyRecord indicates an observation with neither a photo nor a comment.
// The store hard-rejects these even though UI gating should make it unreachable.
var ErrEmptyRecord = errors.New("inspection record has no image and no comment")
