package permission

import (
	"context"

	domain "github.com/rhys706/house-inspector/internal/domain/permission"
)

// Static answers permission checks from config. A permission denied here
// surfaces to the session exactly like a capability init failure.
type Static struct {
	Camera     bool
	Microphone bool
}

func (s Static) Granted(ctx context.Context, k domain.Kind) bool {
	switch k {
	case domain.KindCamera:
		return s.Camera
	case domain.KindMicrophone:
		return s.Microphone
	}
	return false
}
