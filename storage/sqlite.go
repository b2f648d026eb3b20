package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const decisionSchema = `
CREATE TABLE IF NOT EXISTS decisions (
	seq          INTEGER PRIMARY KEY AUTOINCREMENT,
	id           TEXT NOT NULL UNIQUE,
	battle_id    TEXT NOT NULL,
	turn         INTEGER NOT NULL,
	rqid         INTEGER NOT NULL,
	action_space TEXT NOT NULL,
	action       TEXT NOT NULL,
	decided_at   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_decisions_battle ON decisions(battle_id, seq);
`

// SQLiteStore persists decisions in a local sqlite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and creates, when needed) the database at dbPath.
// ":memory:" gives a throwaway database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if dbPath != ":memory:" {
		parent := filepath.Dir(dbPath)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	// a single connection keeps ":memory:" databases alive and serializes writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, decisionSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create decisions schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) Record(ctx context.Context, d *Decision) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.DecidedAt.IsZero() {
		d.DecidedAt = time.Now()
	}
	space, err := json.Marshal(d.ActionSpace)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO decisions (id, battle_id, turn, rqid, action_space, action, decided_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.BattleID, d.Turn, d.RequestID, string(space), d.Action, d.DecidedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert decision: %w", err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, battleID string) ([]*Decision, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, battle_id, turn, rqid, action_space, action, decided_at
		 FROM decisions WHERE battle_id = ? ORDER BY seq`,
		battleID,
	)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	var out []*Decision
	for rows.Next() {
		var (
			d         Decision
			space     string
			decidedAt int64
		)
		if err := rows.Scan(&d.ID, &d.BattleID, &d.Turn, &d.RequestID, &space, &d.Action, &decidedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(space), &d.ActionSpace); err != nil {
			return nil, fmt.Errorf("decode action space of %s: %w", d.ID, err)
		}
		d.DecidedAt = time.Unix(0, decidedAt)
		out = append(out, &d)
	}
	return out, rows.Err()
}
