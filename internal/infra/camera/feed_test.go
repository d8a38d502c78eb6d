package camera

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/rhys706/house-inspector/internal/domain/camera"
)

func TestOfferBeforeInitialize(t *testing.T) {
	f := NewFeed(time.Second)
	assert.ErrorIs(t, f.Offer([]byte{1}), domain.ErrUnavailable)
}

func TestCaptureReturnsOfferedFrame(t *testing.T) {
	f := NewFeed(time.Second)
	require.NoError(t, f.Initialize(context.Background()))
	require.NoError(t, f.Offer([]byte{1, 2, 3}))

	frame, err := f.Capture(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, frame)
}

func TestLatestFrameWins(t *testing.T) {
	f := NewFeed(time.Second)
	require.NoError(t, f.Initialize(context.Background()))
	require.NoError(t, f.Offer([]byte{1}))
	require.NoError(t, f.Offer([]byte{2}))

	frame, err := f.Capture(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte{2}, frame)
}

func TestCaptureTimesOutWithoutFrames(t *testing.T) {
	f := NewFeed(20 * time.Millisecond)
	require.NoError(t, f.Initialize(context.Background()))

	_, err := f.Capture(context.Background())
	assert.ErrorIs(t, err, domain.ErrCapture)
}

func TestCaptureHonorsContext(t *testing.T) {
	f := NewFeed(time.Minute)
	require.NoError(t, f.Initialize(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := f.Capture(ctx)
	assert.ErrorIs(t, err, domain.ErrCapture)
}

func TestReleaseClosesFeed(t *testing.T) {
	f := NewFeed(time.Second)
	require.NoError(t, f.Initialize(context.Background()))
	f.Release()

	_, err := f.Capture(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.ErrorIs(t, f.Offer([]byte{1}), domain.ErrUnavailable)
}

func TestRejectsEmptyFrame(t *testing.T) {
	f := NewFeed(time.Second)
	require.NoError(t, f.Initialize(context.Background()))
	assert.ErrorIs(t, f.Offer(nil), domain.ErrCapture)
}

func TestOfferCopiesFrame(t *testing.T) {
	f := NewFeed(time.Second)
	require.NoError(t, f.Initialize(context.Background()))

	frame := []byte{9}
	require.NoError(t, f.Offer(frame))
	frame[0] = 0

	got, err := f.Capture(context.Background())
	require.NoError(t, err)
	assert.Equal(t, byte(9), got[0])
}
