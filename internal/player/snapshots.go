package player

import (
	"context"
	"database/sql"
	"github.com/myrjola/dailysleuth/internal/errors"
	"github.com/myrjola/dailysleuth/internal/sqlite"
	"time"
)

// SnapshotKey is the single storage key the player record lives under.
const SnapshotKey = "player-state"

// ErrNoSnapshot signals that no prior snapshot exists. Callers fall back to
// fresh defaults.
var ErrNoSnapshot = errors.NewSentinel("no snapshot")

// SnapshotStore persists the player record as one JSON blob.
type SnapshotStore interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, blob []byte) error
}

// SQLiteSnapshots stores snapshots in the key-value table of the local
// SQLite database.
type SQLiteSnapshots struct {
	db  *sqlite.Database
	key string
}

func NewSQLiteSnapshots(db *sqlite.Database) *SQLiteSnapshots {
	return &SQLiteSnapshots{
		db:  db,
		key: SnapshotKey,
	}
}

func (r *SQLiteSnapshots) Load(ctx context.Context) ([]byte, error) {
	var value string
	stmt := `SELECT value FROM snapshots WHERE key = ?`
	if err := r.db.ReadOnly.GetContext(ctx, &value, stmt, r.key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoSnapshot
		}
		return nil, errors.Wrap(err, "read snapshot")
	}
	return []byte(value), nil
}

func (r *SQLiteSnapshots) Save(ctx context.Context, blob []byte) error {
	stmt := `INSERT INTO snapshots (key, value, updated_at)
VALUES (?, ?, ?)
ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	if _, err := r.db.ReadWrite.ExecContext(ctx, stmt, r.key, string(blob),
		time.Now().UTC().Format(time.RFC3339)); err != nil {
		return errors.Wrap(err, "write snapshot")
	}
	return nil
}
