package inspection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecordRejectsEmpty(t *testing.T) {
	_, err := NewRecord("r1", "s1", RoomKitchen, nil, "", time.Now())
	assert.ErrorIs(t, err, ErrEmptyRecord)
}

func TestNewRecordCommentOnly(t *testing.T) {
	rec, err := NewRecord("r1", "s1", RoomKitchen, nil, "leak under sink", time.Now())
	require.NoError(t, err)
	assert.False(t, rec.HasImage)
	assert.Equal(t, "leak under sink", rec.Comment)
}

func TestNewRecordImageOnly(t *testing.T) {
	rec, err := NewRecord("r1", "s1", RoomBathroom, []byte{0xff, 0xd8}, "", time.Now())
	require.NoError(t, err)
	assert.True(t, rec.HasImage)
	assert.Empty(t, rec.Comment)
}

func TestNewRecordCopiesImage(t *testing.T) {
	img := []byte{1, 2, 3}
	rec, err := NewRecord("r1", "s1", RoomGarage, img, "", time.Now())
	require.NoError(t, err)

	img[0] = 99
	assert.Equal(t, byte(1), rec.Image[0])
}

func TestNewRecordDefaultsRoom(t *testing.T) {
	rec, err := NewRecord("r1", "s1", "", nil, "note", time.Now())
	require.NoError(t, err)
	assert.Equal(t, DefaultRoom(), rec.Room)
}
