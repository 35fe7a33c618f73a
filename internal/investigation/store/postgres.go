package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/edd1080/project-olympo-sub002/internal/investigation/models"
	id "github.com/edd1080/project-olympo-sub002/pkg/domain"
	"github.com/edd1080/project-olympo-sub002/pkg/platform/sentinel"
)

// Postgres persists records as jsonb documents. State and updated_at are
// lifted into columns for operational queries; the payload stays the source
// of truth when reading.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed record store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the investigations table when it does not exist.
// Deployments with managed migrations run the equivalent DDL there instead.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS investigations (
    application_id TEXT PRIMARY KEY,
    payload        JSONB NOT NULL,
    state          TEXT NOT NULL,
    updated_at     TIMESTAMPTZ NOT NULL
)`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure investigations schema: %w", err)
	}
	return nil
}

// Save upserts the record. Last write wins.
func (s *Postgres) Save(ctx context.Context, record *models.Investigation) error {
	payload, err := encodeRecord(record)
	if err != nil {
		return err
	}
	const query = `
INSERT INTO investigations (application_id, payload, state, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (application_id)
DO UPDATE SET payload = EXCLUDED.payload, state = EXCLUDED.state, updated_at = EXCLUDED.updated_at`
	if _, err := s.db.ExecContext(ctx, query, string(record.ApplicationID), payload, string(record.State), record.UpdatedAt); err != nil {
		return fmt.Errorf("save investigation: %w", err)
	}
	return nil
}

// Find loads a record by application id.
func (s *Postgres) Find(ctx context.Context, applicationID id.ApplicationID) (*models.Investigation, error) {
	const query = `SELECT payload FROM investigations WHERE application_id = $1`
	var payload []byte
	if err := s.db.QueryRowContext(ctx, query, string(applicationID)).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find investigation: %w", err)
	}
	return decodeRecord(payload)
}
