package camera

import (
	"context"
	"fmt"
	"sync"
	"time"

	domain "github.com/rhys706/house-inspector/internal/domain/camera"
)

const defaultFrameTimeout = 5 * time.Second

// Feed implements the camera capability for a device that streams preview
// frames over the ingest endpoint. Offer keeps only the newest frame;
// Capture waits up to the timeout for one. That gives capture the same
// shape as real hardware: asynchronous, may fail per attempt, single feed
// per session.
type Feed struct {
	timeout time.Duration

	mu     sync.Mutex
	open   bool
	frames chan []byte // cap 1, latest wins
}

func NewFeed(timeout time.Duration) *Feed {
	if timeout <= 0 {
		timeout = defaultFrameTimeout
	}
	return &Feed{
		timeout: timeout,
		frames:  make(chan []byte, 1),
	}
}

func (f *Feed) Initialize(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = true
	return nil
}

// Offer replaces the buffered frame with a newer one.
func (f *Feed) Offer(frame []byte) error {
	f.mu.Lock()
	open := f.open
	f.mu.Unlock()
	if !open {
		return domain.ErrUnavailable
	}
	if len(frame) == 0 {
		return fmt.Errorf("%w: empty frame", domain.ErrCapture)
	}
	buf := make([]byte, len(frame))
	copy(buf, frame)

	// Drop the stale frame, if any, then buffer the new one.
	select {
	case <-f.frames:
	default:
	}
	select {
	case f.frames <- buf:
	default:
	}
	return nil
}

func (f *Feed) Capture(ctx context.Context) ([]byte, error) {
	f.mu.Lock()
	open := f.open
	f.mu.Unlock()
	if !open {
		return nil, domain.ErrUnavailable
	}

	t := time.NewTimer(f.timeout)
	defer t.Stop()
	select {
	case frame := <-f.frames:
		return frame, nil
	case <-t.C:
		return nil, fmt.Errorf("%w: no frame within %s", domain.ErrCapture, f.timeout)
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", domain.ErrCapture, ctx.Err())
	}
}

func (f *Feed) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = false
}
