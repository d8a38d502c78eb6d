package inspection

import "context"

// Archiver port (interface untuk persistence fan-out on commit).
// The in-memory store stays the source of truth for the session; the archive
// is a best-effort copy and its failures never undo a commit.
type Archiver interface {
	Save(ctx context.Context, inspector string, r *Record) error
	ListBySession(ctx context.Context, inspector, sessionID string, limit int) ([]*Record, error)
}

// ImageStore port (interface untuk photo export)
type ImageStore interface {
	Upload(ctx context.Context, key string, image []byte) (string, error)
}
