package edge

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"amora/internal/interest/models"
	id "amora/pkg/domain"
	"amora/pkg/platform/sentinel"
)

// uniqueViolation is the PostgreSQL error code for a uniqueness constraint
// rejection; it is how the store distinguishes DuplicateInterest from other
// failures.
const uniqueViolation = "23505"

// PostgresStore persists interest edges in PostgreSQL. Pure I/O; all domain
// decisions (self-interest checks, mutuality handling) belong to the service.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed edge store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, edge *models.Edge) error {
	query := `
		INSERT INTO interest_edges (id, sender_id, receiver_id, kind, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		edge.ID.String(),
		edge.SenderID.String(),
		edge.ReceiverID.String(),
		string(edge.Kind),
		edge.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("edge %s -> %s: %w", edge.SenderID, edge.ReceiverID, sentinel.ErrConflict)
		}
		return fmt.Errorf("create interest edge: %w", err)
	}
	return nil
}

func (s *PostgresStore) Exists(ctx context.Context, sender, receiver id.UserID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM interest_edges WHERE sender_id = $1 AND receiver_id = $2
		)
	`
	var exists bool
	if err := s.db.QueryRowContext(ctx, query, sender.String(), receiver.String()).Scan(&exists); err != nil {
		return false, fmt.Errorf("check interest edge: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) RemoveBetween(ctx context.Context, a, b id.UserID) error {
	query := `
		DELETE FROM interest_edges
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
	`
	if _, err := s.db.ExecContext(ctx, query, a.String(), b.String()); err != nil {
		return fmt.Errorf("remove interest edges: %w", err)
	}
	return nil
}
