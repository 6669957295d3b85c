package match

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"amora/internal/match/models"
	id "amora/pkg/domain"
	"amora/pkg/platform/sentinel"
)

const uniqueViolation = "23505"

// querier is satisfied by both *sql.DB and *sql.Tx so the same store code
// serves plain reads and the coordinator's transactional writes.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresStore persists matches in PostgreSQL. Pure I/O; race handling and
// channel coupling live in the coordinator.
type PostgresStore struct {
	db querier
}

// NewPostgres constructs a store over a connection pool.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// NewPostgresTx constructs a store bound to an open transaction.
func NewPostgresTx(tx *sql.Tx) *PostgresStore {
	return &PostgresStore{db: tx}
}

func (s *PostgresStore) Create(ctx context.Context, match *models.Match) error {
	query := `
		INSERT INTO matches (id, low_user_id, high_user_id, channel_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		match.ID.String(),
		match.Pair.Low.String(),
		match.Pair.High.String(),
		match.ChannelID.String(),
		match.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("match for pair %s: %w", match.Pair, sentinel.ErrConflict)
		}
		return fmt.Errorf("create match: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByPair(ctx context.Context, pair id.PairKey) (*models.Match, error) {
	query := `
		SELECT id, low_user_id, high_user_id, channel_id, created_at
		FROM matches
		WHERE low_user_id = $1 AND high_user_id = $2
	`
	return scanMatch(s.db.QueryRowContext(ctx, query, pair.Low.String(), pair.High.String()))
}

func (s *PostgresStore) FindByID(ctx context.Context, matchID id.MatchID) (*models.Match, error) {
	query := `
		SELECT id, low_user_id, high_user_id, channel_id, created_at
		FROM matches
		WHERE id = $1
	`
	return scanMatch(s.db.QueryRowContext(ctx, query, matchID.String()))
}

func (s *PostgresStore) ListForUser(ctx context.Context, user id.UserID) ([]*models.Match, error) {
	query := `
		SELECT id, low_user_id, high_user_id, channel_id, created_at
		FROM matches
		WHERE low_user_id = $1 OR high_user_id = $1
		ORDER BY created_at
	`
	rows, err := s.db.QueryContext(ctx, query, user.String())
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()

	var out []*models.Match
	for rows.Next() {
		match, err := scanMatchRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, match)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row *sql.Row) (*models.Match, error) {
	match, err := scanMatchRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	return match, err
}

func scanMatchRow(row rowScanner) (*models.Match, error) {
	var (
		rawID      string
		rawLow     string
		rawHigh    string
		rawChannel string
		createdAt  time.Time
	)
	if err := row.Scan(&rawID, &rawLow, &rawHigh, &rawChannel, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan match: %w", err)
	}

	matchID, err := id.ParseMatchID(rawID)
	if err != nil {
		return nil, fmt.Errorf("scan match id: %w", err)
	}
	low, err := id.ParseUserID(rawLow)
	if err != nil {
		return nil, fmt.Errorf("scan match low user: %w", err)
	}
	high, err := id.ParseUserID(rawHigh)
	if err != nil {
		return nil, fmt.Errorf("scan match high user: %w", err)
	}
	channelID, err := id.ParseChannelID(rawChannel)
	if err != nil {
		return nil, fmt.Errorf("scan match channel: %w", err)
	}

	return &models.Match{
		ID:        matchID,
		Pair:      id.PairKey{Low: low, High: high},
		ChannelID: channelID,
		CreatedAt: createdAt,
	}, nil
}
