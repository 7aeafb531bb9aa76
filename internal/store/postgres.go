package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-intake/internal/model"
)

// pool is the subset of pgxpool.Pool used by PostgresStore. Declared
// as an interface so pgxmock can stand in during tests.
type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool pool
}

// NewPostgres connects to the given database URL and verifies the
// connection with a ping.
func NewPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	p, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: p}, nil
}

// NewPostgresWithPool wraps an existing pool. Used by tests.
func NewPostgresWithPool(p pool) *PostgresStore {
	return &PostgresStore{pool: p}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS leads (
	id         TEXT PRIMARY KEY,
	payload    JSONB NOT NULL,
	stage      TEXT NOT NULL DEFAULT 'raw-only',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_leads_stage ON leads(stage);
CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateLead(ctx context.Context, lead model.Lead) (*model.Lead, error) {
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
		return nil, eris.Wrap(err, "postgres: marshal lead")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO leads (id, payload, stage, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		lead.ID, payload, string(lead.Stage), now, now,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: insert lead %s", lead.ID)
	}
	return &lead, nil
}

func (s *PostgresStore) GetLead(ctx context.Context, id string) (*model.Lead, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, payload, stage, created_at, updated_at FROM leads WHERE id = $1`,
		id,
	)
	return scanPgLead(row)
}

func (s *PostgresStore) UpdateLead(ctx context.Context, id string, lead model.Lead) error {
	lead.ID = id
	lead.UpdatedAt = time.Now().UTC()

	payload, err := json.Marshal(lead)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal lead")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE leads SET payload = $1, stage = $2, updated_at = $3 WHERE id = $4`,
		payload, string(lead.Stage), lead.UpdatedAt, id,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update lead %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "lead %s", id)
	}
	return nil
}

func (s *PostgresStore) ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error) {
	query := `SELECT id, payload, stage, created_at, updated_at FROM leads WHERE 1=1`
	var args []any

	if filter.Stage != "" {
		args = append(args, string(filter.Stage))
		query += fmt.Sprintf(` AND stage = $%d`, len(args))
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(` LIMIT $%d`, len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list leads")
	}
	defer rows.Close()

	var leads []model.Lead
	for rows.Next() {
		l, err := scanPgLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *l)
	}
	return leads, eris.Wrap(rows.Err(), "postgres: list leads iterate")
}

func scanPgLead(row pgx.Row) (*model.Lead, error) {
	var l model.Lead
	var payload []byte
	var stage string

	err := row.Scan(&l.ID, &payload, &stage, &l.CreatedAt, &l.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan lead")
	}

	id, createdAt, updatedAt := l.ID, l.CreatedAt, l.UpdatedAt
	if err := json.Unmarshal(payload, &l); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal lead payload")
	}
	l.ID = id
	l.Stage = model.Stage(stage)
	l.CreatedAt = createdAt
	l.UpdatedAt = updatedAt
	return &l, nil
}
