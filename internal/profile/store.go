// Package profile is the read-only port to the external profile store. The
// core never writes profiles; it consumes them for scoring, ranking, and
// candidate discovery.
package profile

import (
	"context"

	"amora/internal/matching/models"
	id "amora/pkg/domain"
)

// Filter narrows the candidate pool before any scoring happens. Zero-valued
// fields mean "no restriction".
type Filter struct {
	AgeRange     *models.AgeRange
	Genders      []models.Gender
	Orientations []models.Orientation
	Interests    []string
}

// Store is the consumed boundary contract of the external profile system.
type Store interface {
	// GetProfile returns the profile or sentinel.ErrNotFound.
	GetProfile(ctx context.Context, userID id.UserID) (*models.Profile, error)

	// ListCandidates returns profiles passing the filter, excluding the given
	// ids. Order is unspecified; the ranker imposes its own.
	ListCandidates(ctx context.Context, exclude map[id.UserID]struct{}, filter Filter) ([]*models.Profile, error)
}

// matchesFilter applies the shared filter semantics used by both adapters'
// in-process fallbacks.
func matchesFilter(p *models.Profile, filter Filter) bool {
	if filter.AgeRange != nil && !filter.AgeRange.Contains(p.Age) {
		return false
	}
	if len(filter.Genders) > 0 && !containsGender(filter.Genders, p.Gender) {
		return false
	}
	if len(filter.Orientations) > 0 && !containsOrientation(filter.Orientations, p.Orientation) {
		return false
	}
	if len(filter.Interests) > 0 && !sharesInterest(p.Interests, filter.Interests) {
		return false
	}
	return true
}

func containsGender(haystack []models.Gender, needle models.Gender) bool {
	for _, g := range haystack {
		if g == needle {
			return true
		}
	}
	return false
}

func containsOrientation(haystack []models.Orientation, needle models.Orientation) bool {
	for _, o := range haystack {
		if o == needle {
			return true
		}
	}
	return false
}

func sharesInterest(profileInterests, wanted []string) bool {
	set := make(map[string]struct{}, len(profileInterests))
	for _, interest := range profileInterests {
		set[interest] = struct{}{}
	}
	for _, interest := range wanted {
		if _, ok := set[interest]; ok {
			return true
		}
	}
	return false
}
