// File: internal/store/postgres.go
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/voltride/crew-cli/api/schemas"
)

// DBPool abstracts the pgxpool.Pool so the store can be exercised with
// pgxmock in tests.
type DBPool interface {
	Ping(ctx context.Context) error
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Postgres is the PostgreSQL implementation of schemas.ComplaintStore.
type Postgres struct {
	pool DBPool
	log  *zap.Logger
}

// New verifies the connection and returns the store.
func New(ctx context.Context, pool DBPool, logger *zap.Logger) (*Postgres, error) {
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Postgres{pool: pool, log: logger.Named("store")}, nil
}

const getComplaintSQL = `
    SELECT id, customer_id, customer_email, title, description,
           category, priority, status,
           scooter_id, station_id, resolution_summary,
           created_at, updated_at
    FROM complaints
    WHERE id = $1;
`

// Get fetches one complaint by id. A missing row maps to
// schemas.ErrComplaintNotFound.
func (s *Postgres) Get(ctx context.Context, id string) (*schemas.Complaint, error) {
	var (
		c                             schemas.Complaint
		category, priority, status    string
		scooterID, stationID, summary *string
	)
	err := s.pool.QueryRow(ctx, getComplaintSQL, id).Scan(
		&c.ID, &c.CustomerID, &c.CustomerEmail, &c.Title, &c.Description,
		&category, &priority, &status,
		&scooterID, &stationID, &summary,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("complaint %s: %w", id, schemas.ErrComplaintNotFound)
		}
		return nil, fmt.Errorf("failed to query complaint %s: %w", id, err)
	}

	c.Category = schemas.Category(category)
	c.Priority = schemas.Priority(priority)
	c.Status = schemas.Status(status)
	if scooterID != nil {
		c.ScooterID = *scooterID
	}
	if stationID != nil {
		c.StationID = *stationID
	}
	if summary != nil {
		c.ResolutionSummary = *summary
	}
	return &c, nil
}

// SetStatus updates the complaint status and bumps updated_at.
func (s *Postgres) SetStatus(ctx context.Context, id string, status schemas.Status) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE complaints SET status = $2, updated_at = now() WHERE id = $1;`,
		id, string(status),
	)
	if err != nil {
		return fmt.Errorf("failed to update status of complaint %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("complaint %s: %w", id, schemas.ErrComplaintNotFound)
	}
	s.log.Debug("Complaint status updated", zap.String("complaint_id", id), zap.String("status", string(status)))
	return nil
}

// AppendResolutionSummary records the resolution text on the complaint.
func (s *Postgres) AppendResolutionSummary(ctx context.Context, id, summary string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE complaints SET resolution_summary = $2, updated_at = now() WHERE id = $1;`,
		id, summary,
	)
	if err != nil {
		return fmt.Errorf("failed to record resolution for complaint %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("complaint %s: %w", id, schemas.ErrComplaintNotFound)
	}
	return nil
}
