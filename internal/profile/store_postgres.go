package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"amora/internal/matching/models"
	id "amora/pkg/domain"
	"amora/pkg/platform/sentinel"
	pstrings "amora/pkg/platform/strings"
)

// PostgresStore reads the profiles projection maintained by the external
// profile system. Strictly read-only: this core never writes a profile row.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed profile reader.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const profileColumns = `
	id, age, location, gender, orientation, interests, bio,
	personality_traits, preferences, version
`

func (s *PostgresStore) GetProfile(ctx context.Context, userID id.UserID) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	p, err := scanProfile(s.db.QueryRowContext(ctx, query, userID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *PostgresStore) ListCandidates(ctx context.Context, exclude map[id.UserID]struct{}, filter Filter) ([]*models.Profile, error) {
	// Age, gender, and orientation narrow in SQL; interest overlap and
	// exclusion finish in-process where the shared filter semantics live.
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE ($1::int IS NULL OR age >= $1)
		  AND ($2::int IS NULL OR age <= $2)
		  AND (cardinality($3::text[]) = 0 OR gender = ANY($3))
		  AND (cardinality($4::text[]) = 0 OR orientation = ANY($4))
	`
	var minAge, maxAge *int
	if filter.AgeRange != nil {
		minAge, maxAge = &filter.AgeRange.Min, &filter.AgeRange.Max
	}
	genders := make([]string, 0, len(filter.Genders))
	for _, g := range filter.Genders {
		genders = append(genders, string(g))
	}
	orientations := make([]string, 0, len(filter.Orientations))
	for _, o := range filter.Orientations {
		orientations = append(orientations, string(o))
	}

	rows, err := s.db.QueryContext(ctx, query, minAge, maxAge, pq.Array(genders), pq.Array(orientations))
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	var out []*models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		if _, skip := exclude[p.ID]; skip {
			continue
		}
		if len(filter.Interests) > 0 && !sharesInterest(p.Interests, filter.Interests) {
			continue
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*models.Profile, error) {
	var (
		rawID          string
		age            int
		location       string
		gender         string
		orientation    string
		interests      []string
		bio            string
		rawTraits      []byte
		rawPreferences []byte
		version        int64
	)
	err := row.Scan(&rawID, &age, &location, &gender, &orientation,
		pq.Array(&interests), &bio, &rawTraits, &rawPreferences, &version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}

	userID, err := id.ParseUserID(rawID)
	if err != nil {
		return nil, fmt.Errorf("scan profile id: %w", err)
	}

	p := &models.Profile{
		ID:          userID,
		Age:         age,
		Location:    location,
		Gender:      models.Gender(gender),
		Orientation: models.Orientation(orientation),
		Interests:   pstrings.DedupeAndTrim(interests),
		Bio:         bio,
		Version:     version,
	}
	if len(rawTraits) > 0 {
		var traits models.PersonalityTraits
		if err := json.Unmarshal(rawTraits, &traits); err != nil {
			return nil, fmt.Errorf("scan profile traits: %w", err)
		}
		p.Traits = &traits
	}
	if len(rawPreferences) > 0 {
		var preferences models.Preferences
		if err := json.Unmarshal(rawPreferences, &preferences); err != nil {
			return nil, fmt.Errorf("scan profile preferences: %w", err)
		}
		p.Preferences = &preferences
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("profile %s violates invariants: %w", userID, err)
	}
	return p, nil
}
