package channel

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"amora/internal/channel/models"
	id "amora/pkg/domain"
	"amora/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresStore persists channels and memberships in PostgreSQL.
type PostgresStore struct {
	db querier
}

// NewPostgres constructs a store over a connection pool.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// NewPostgresTx constructs a store bound to an open transaction, letting the
// coordinator create a channel and its match as one atomic unit.
func NewPostgresTx(tx *sql.Tx) *PostgresStore {
	return &PostgresStore{db: tx}
}

func (s *PostgresStore) Create(ctx context.Context, ch *models.Channel) error {
	insertChannel := `INSERT INTO channels (id, created_at) VALUES ($1, $2)`
	if _, err := s.db.ExecContext(ctx, insertChannel, ch.ID.String(), ch.CreatedAt); err != nil {
		return translateConflict(err, "create channel")
	}

	insertParticipant := `INSERT INTO channel_participants (channel_id, user_id) VALUES ($1, $2)`
	for _, participant := range ch.Participants {
		if _, err := s.db.ExecContext(ctx, insertParticipant, ch.ID.String(), participant.String()); err != nil {
			return translateConflict(err, "create channel participant")
		}
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, channelID id.ChannelID) (*models.Channel, error) {
	query := `
		SELECT c.created_at,
		       ARRAY(
		           SELECT p.user_id FROM channel_participants p
		           WHERE p.channel_id = c.id ORDER BY p.user_id
		       )
		FROM channels c
		WHERE c.id = $1
	`
	var (
		createdAt       time.Time
		rawParticipants []string
	)
	err := s.db.QueryRowContext(ctx, query, channelID.String()).
		Scan(&createdAt, pq.Array(&rawParticipants))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find channel: %w", err)
	}

	participants := make([]id.UserID, 0, len(rawParticipants))
	for _, raw := range rawParticipants {
		userID, err := id.ParseUserID(raw)
		if err != nil {
			return nil, fmt.Errorf("scan channel participant: %w", err)
		}
		participants = append(participants, userID)
	}

	return &models.Channel{
		ID:           channelID,
		Participants: participants,
		CreatedAt:    createdAt,
	}, nil
}

func translateConflict(err error, op string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", op, sentinel.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}
