package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/lead-intake/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id         TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	stage      TEXT NOT NULL DEFAULT 'raw-only',
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_leads_stage ON leads(stage);
CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateLead(ctx context.Context, lead model.Lead) (*model.Lead, error) {
	if lead.ID == "" {
		lead.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	lead.CreatedAt = now
	lead.UpdatedAt = now
	if lead.Stage == "" {
		lead.Stage = model.StageRawOnly
	}

	payload, err := json.Marshal(lead)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal lead")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO leads (id, payload, stage, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		lead.ID, string(payload), string(lead.Stage), now, now,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: insert lead %s", lead.ID)
	}
	return &lead, nil
}

func (s *SQLiteStore) GetLead(ctx context.Context, id string) (*model.Lead, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, payload, stage, created_at, updated_at FROM leads WHERE id = ?`,
		id,
	)
	return scanLead(row)
}

func (s *SQLiteStore) UpdateLead(ctx context.Context, id string, lead model.Lead) error {
	lead.ID = id
	lead.UpdatedAt = time.Now().UTC()

	payload, err := json.Marshal(lead)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal lead")
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE leads SET payload = ?, stage = ?, updated_at = ? WHERE id = ?`,
		string(payload), string(lead.Stage), lead.UpdatedAt, id,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update lead %s", id)
	}
	return checkRowsAffected(res, id)
}

func (s *SQLiteStore) ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error) {
	query := `SELECT id, payload, stage, created_at, updated_at FROM leads WHERE 1=1`
	var args []any

	if filter.Stage != "" {
		query += ` AND stage = ?`
		args = append(args, string(filter.Stage))
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *l)
	}
	return leads, eris.Wrap(rows.Err(), "sqlite: list leads iterate")
}

// helpers

func checkRowsAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "lead %s", id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanLead(row scannable) (*model.Lead, error) {
	var l model.Lead
	var payload, stage string

	err := row.Scan(&l.ID, &payload, &stage, &l.CreatedAt, &l.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan lead")
	}

	id, createdAt, updatedAt := l.ID, l.CreatedAt, l.UpdatedAt
	if err := json.Unmarshal([]byte(payload), &l); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal lead payload")
	}
	// Columns are authoritative over the serialized copy.
	l.ID = id
	l.Stage = model.Stage(stage)
	l.CreatedAt = createdAt
	l.UpdatedAt = updatedAt
	return &l, nil
}
