package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Siddarth2230/upid/internal/models"
	"github.com/Siddarth2230/upid/pkg/log"
	"github.com/Siddarth2230/upid/pkg/metrics"
	"github.com/Siddarth2230/upid/pkg/upid"
)

// ErrNoRecord is returned by DeleteByID when nothing was deleted.
var ErrNoRecord = errors.New("no record found")

// Schema creates the upids table. A uuid column compares bytewise, so
// ORDER BY id is creation order.
const Schema = `
CREATE TABLE IF NOT EXISTS upids (
    id         UUID PRIMARY KEY,
    prefix     CHAR(4) NOT NULL,
    label      TEXT NOT NULL DEFAULT '',
    issued_at  TIMESTAMPTZ NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS upids_prefix_id_idx ON upids (prefix, id);
`

// uniqueViolation is the PostgreSQL SQLSTATE for a unique index conflict.
const uniqueViolation = "23505"

type UPIDRepository struct {
	db *sql.DB
}

func NewUPIDRepository(db *sql.DB) *UPIDRepository {
	return &UPIDRepository{db: db}
}

func observe(op string, start time.Time) {
	metrics.DatabaseQueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// EnsureSchema creates the table and index if they are missing.
func (r *UPIDRepository) EnsureSchema(ctx context.Context) error {
	defer observe("ensure_schema", time.Now())
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

const insertQuery = `
        INSERT INTO upids (id, prefix, label, issued_at)
        VALUES ($1, $2, $3, $4)
        RETURNING created_at
    `

// SaveBatch inserts recs in one transaction and fills in CreatedAt. Either
// every record is stored or none is. A duplicate id surfaces as an error
// for which IsUniqueViolation is true.
func (r *UPIDRepository) SaveBatch(ctx context.Context, recs []*models.Record) (err error) {
	defer observe("save_batch", time.Now())
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, rec := range recs {
		row := tx.QueryRowContext(ctx, insertQuery, rec.ID, rec.Prefix, rec.Label, rec.IssuedAt)
		if err = row.Scan(&rec.CreatedAt); err != nil {
			if !IsUniqueViolation(err) {
				l := log.Ctx(ctx)
				l.Error().Err(err).Str(log.FieldUPID, rec.ID.String()).Msg("error saving upid")
			}
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// FindByID returns the record for id, or nil if it was never issued.
func (r *UPIDRepository) FindByID(ctx context.Context, id upid.UPID) (*models.Record, error) {
	defer observe("find_by_id", time.Now())
	query := `
        SELECT id, prefix, label, issued_at, created_at
        FROM upids
        WHERE id = $1
	`
	var rec models.Record
	row := r.db.QueryRowContext(ctx, query, id)
	if err := row.Scan(&rec.ID, &rec.Prefix, &rec.Label, &rec.IssuedAt, &rec.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		l := log.Ctx(ctx)
		l.Error().Err(err).Str(log.FieldUPID, id.String()).Msg("error finding upid")
		return nil, err
	}
	return &rec, nil
}

// ListByPrefix returns up to limit records in creation order. An empty
// prefix lists all prefixes.
func (r *UPIDRepository) ListByPrefix(ctx context.Context, prefix string, limit int) ([]models.Record, error) {
	defer observe("list_by_prefix", time.Now())
	var (
		rows *sql.Rows
		err  error
	)
	if prefix == "" {
		rows, err = r.db.QueryContext(ctx, `
        SELECT id, prefix, label, issued_at, created_at
        FROM upids
        ORDER BY id
        LIMIT $1`, limit)
	} else {
		rows, err = r.db.QueryContext(ctx, `
        SELECT id, prefix, label, issued_at, created_at
        FROM upids
        WHERE prefix = $1
        ORDER BY id
        LIMIT $2`, prefix, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list upids: %w", err)
	}
	defer rows.Close()

	recs := make([]models.Record, 0)
	for rows.Next() {
		var rec models.Record
		if err := rows.Scan(&rec.ID, &rec.Prefix, &rec.Label, &rec.IssuedAt, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan upid: %w", err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list upids: %w", err)
	}
	return recs, nil
}

// DeleteByID removes the record for id. It returns ErrNoRecord if there
// was none.
func (r *UPIDRepository) DeleteByID(ctx context.Context, id upid.UPID) error {
	defer observe("delete_by_id", time.Now())
	result, err := r.db.ExecContext(ctx, `DELETE FROM upids WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete upid %s: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete upid %s: %w", id, err)
	}
	if n == 0 {
		return ErrNoRecord
	}
	l := log.Ctx(ctx)
	l.Info().Str(log.FieldUPID, id.String()).Msg("revoked upid")
	return nil
}

// IsUniqueViolation reports whether err is a PostgreSQL unique_violation.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
