package draft

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/discountkit/pkg/pg"
)

// Migrations holds the schema of PostgresStore, applied with pg.Migrate.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory of Migrations.
const MigrationsDir = "migrations"

// pgxConn is the subset of *pgxpool.Pool the store uses.
type pgxConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps drafts as JSONB rows of the drafts table. Rows expire
// ttl after their last save; expired rows are invisible to Get and removed
// by PurgeExpired.
type PostgresStore struct {
	db  pgxConn
	ttl time.Duration
	now func() time.Time
}

func NewPostgresStore(db pgxConn, ttl time.Duration) *PostgresStore {
	return &PostgresStore{db: db, ttl: ttl, now: time.Now}
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (Draft, error) {
	var body []byte
	err := s.db.QueryRow(ctx,
		`SELECT body FROM drafts WHERE id = $1 AND (expires_at IS NULL OR expires_at > $2)`,
		id, s.now(),
	).Scan(&body)
	if pg.IsNotFoundError(err) {
		return Draft{}, ErrNotFound
	}
	if err != nil {
		return Draft{}, fmt.Errorf("get draft %s: %w", id, err)
	}

	var d Draft
	if err := json.Unmarshal(body, &d); err != nil {
		return Draft{}, fmt.Errorf("decode draft %s: %w", id, err)
	}
	return d, nil
}

func (s *PostgresStore) Save(ctx context.Context, d Draft) error {
	body, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode draft %s: %w", d.ID, err)
	}

	var expiresAt *time.Time
	if s.ttl > 0 {
		t := s.now().Add(s.ttl)
		expiresAt = &t
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO drafts (id, kind, version, body, updated_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			kind       = EXCLUDED.kind,
			version    = EXCLUDED.version,
			body       = EXCLUDED.body,
			updated_at = EXCLUDED.updated_at,
			expires_at = EXCLUDED.expires_at`,
		d.ID, string(d.Kind), d.Version, body, d.UpdatedAt, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("save draft %s: %w", d.ID, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM drafts WHERE id = $1 AND (expires_at IS NULL OR expires_at > $2)`,
		id, s.now(),
	)
	if err != nil {
		return fmt.Errorf("delete draft %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// PurgeExpired deletes expired rows and returns how many were removed.
func (s *PostgresStore) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM drafts WHERE expires_at <= $1`, s.now())
	if err != nil {
		return 0, fmt.Errorf("purge drafts: %w", err)
	}
	return tag.RowsAffected(), nil
}
