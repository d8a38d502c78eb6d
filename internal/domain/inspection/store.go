package inspection

import "sync"

// Store is the append-only record list for one inspection session.
// Entries are never removed or reordered. The session serializes its own
// mutations; the lock here covers read access from report/archive consumers.
type Store struct {
	mu      sync.RWMutex
	records []*Record
}

func NewStore() *Store { return &Store{} }

// Append adds a record to the end. Rejects empty records (ErrEmptyRecord)
// without changing the store.
func (s *Store) Append(r *Record) error {
	if r == nil || (!r.HasImage && r.Comment == "") {
		return ErrEmptyRecord
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
	return nil
}

// All returns a snapshot in insertion order. Later appends never show up in
// a slice already handed out.
func (s *Store) All() []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Record, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// GroupByRoom recomputes the grouped view on every call: rooms keyed by
// first occurrence across insertion order, records inside a room in
// insertion order. Single pass over the store.
func (s *Store) GroupByRoom() []RoomGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := make(map[Room]int, len(s.records))
	var groups []RoomGroup
	for _, r := range s.records {
		i, ok := idx[r.Room]
		if !ok {
			i = len(groups)
			idx[r.Room] = i
			groups = append(groups, RoomGroup{Room: r.Room})
		}
		groups[i].Records = append(groups[i].Records, r)
	}
	return groups
}
