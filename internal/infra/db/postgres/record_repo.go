package postgres

import (
	"context"
	"database/sql"
	"strings"

	domain "github.com/rhys706/house-inspector/internal/domain/inspection"
)

type RecordRepository struct{ db *sql.DB }

func NewRecordRepository(db *sql.DB) *RecordRepository { return &RecordRepository{db: db} }

// Save insert/update satu record hasil commit
func (r *RecordRepository) Save(ctx context.Context, inspector string, rec *domain.Record) error {
	const q = `
INSERT INTO inspection_records
(id, inspector, session_id, room, comment, image, has_image, recorded_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO UPDATE SET
 room = EXCLUDED.room,
 comment = EXCLUDED.comment,
 image = EXCLUDED.image,
 has_image = EXCLUDED.has_image;`

	_, err := r.db.ExecContext(ctx, q,
		rec.ID, stringOrDash(inspector), rec.SessionID,
		stringOrDash(string(rec.Room)), rec.Comment,
		rec.Image, rec.HasImage, rec.Timestamp,
	)
	return err
}

// ListBySession returns a session's archived records in commit order.
func (r *RecordRepository) ListBySession(ctx context.Context, inspector, sessionID string, limit int) ([]*domain.Record, error) {
	if limit <= 0 {
		limit = 200
	}
	const q = `
SELECT id, session_id, room, comment, image, has_image, recorded_at
FROM inspection_records
WHERE inspector=$1 AND session_id=$2
ORDER BY recorded_at ASC, id ASC
LIMIT $3;`

	rows, err := r.db.QueryContext(ctx, q, inspector, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Record
	for rows.Next() {
		var rec domain.Record
		if err := rows.Scan(
			&rec.ID, &rec.SessionID, &rec.Room, &rec.Comment,
			&rec.Image, &rec.HasImage, &rec.Timestamp,
		); err != nil {
			return nil, err
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
