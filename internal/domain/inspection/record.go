package inspection

import (
	"time"
)

// ID tipe untuk Record
type RecordID string

// Room enum
type Room string

const (
	RoomKitchen    Room = "Kitchen"
	RoomLivingRoom Room = "Living Room"
	RoomBathroom   Room = "Bathroom"
	RoomBedroom    Room = "Bedroom"
	RoomDiningRoom Room = "Dining Room"
	RoomGarage     Room = "Garage"
	RoomBasement   Room = "Basement"
	RoomAttic      Room = "Attic"
	RoomOther      Room = "Other"
)

// Rooms is the selection order shown to the inspector. Free-text rooms are
// also accepted; the enum is the default picker content, not a closed set.
var Rooms = []Room{
	RoomKitchen,
	RoomLivingRoom,
	RoomBathroom,
	RoomBedroom,
	RoomDiningRoom,
	RoomGarage,
	RoomBasement,
	RoomAttic,
	RoomOther,
}

// DefaultRoom is the room a fresh draft starts on.
func DefaultRoom() Room { return Rooms[0] }

// Aggregate Root: Record (one committed observation, immutable)
type Record struct {
	ID        RecordID  `json:"id"`
	SessionID string    `json:"session_id"`
	Room      Room      `json:"room"`
	Image     []byte    `json:"-"`
	HasImage  bool      `json:"has_image"`
	Comment   string    `json:"comment,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRecord builds an immutable record. A record with no image and no
// comment is never constructed (ErrEmptyRecord). The image buffer is copied
// so later draft mutation cannot reach into a committed record.
func NewRecord(id RecordID, sessionID string, room Room, image []byte, comment string, at time.Time) (*Record, error) {
	if len(image) == 0 && comment == "" {
		return nil, ErrEmptyRecord
	}
	if room == "" {
		room = DefaultRoom()
	}
	var img []byte
	if len(image) > 0 {
		img = make([]byte, len(image))
		copy(img, image)
	}
	return &Record{
		ID:        id,
		SessionID: sessionID,
		Room:      room,
		Image:     img,
		HasImage:  len(img) > 0,
		Comment:   comment,
		Timestamp: at,
	}, nil
}
