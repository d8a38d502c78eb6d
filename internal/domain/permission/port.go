package permission

import "context"

// Kind of platform permission backing a capability.
type Kind string

const (
	KindCamera     Kind = "camera"
	KindMicrophone Kind = "microphone"
)

// Granter port. A denied permission is reported to callers exactly like a
// capability that failed to initialize.
type Granter interface {
	Granted(ctx context.Context, k Kind) bool
}
