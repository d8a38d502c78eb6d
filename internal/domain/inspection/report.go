package inspection

import "time"

// RoomGroup value object: one room's records in insertion order.
type RoomGroup struct {
	Room    Room      `json:"room"`
	Records []*Record `json:"records"`
}

// Report is the grouped projection over a store snapshot. An empty store is
// a valid report ("no items yet"), not an error condition.
type Report struct {
	SessionID   string      `json:"session_id"`
	GeneratedAt time.Time   `json:"generated_at"`
	Rooms       []RoomGroup `json:"rooms"`
	Total       int         `json:"total_records"`
	Empty       bool        `json:"empty"`
	Note        string      `json:"note,omitempty"`
}
