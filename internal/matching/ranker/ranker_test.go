package ranker

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amora/internal/matching/models"
	id "amora/pkg/domain"
)

// ageScorer scores candidates by their age so tests can force orderings.
type ageScorer struct{}

func (ageScorer) Score(_ context.Context, _, b *models.Profile) models.CompatibilityScore {
	return models.CompatibilityScore{Overall: b.Age}
}

// constScorer gives every candidate the same overall score.
type constScorer struct{ overall int }

func (s constScorer) Score(context.Context, *models.Profile, *models.Profile) models.CompatibilityScore {
	return models.CompatibilityScore{Overall: s.overall}
}

type memoryCache struct {
	mu     sync.Mutex
	hits   int
	stored map[string]models.CompatibilityScore
}

func newMemoryCache() *memoryCache {
	return &memoryCache{stored: make(map[string]models.CompatibilityScore)}
}

func (c *memoryCache) Get(_ context.Context, viewer, candidate *models.Profile) (models.CompatibilityScore, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	score, ok := c.stored[viewer.ID.String()+":"+candidate.ID.String()]
	if ok {
		c.hits++
	}
	return score, ok
}

func (c *memoryCache) Set(_ context.Context, viewer, candidate *models.Profile, score models.CompatibilityScore) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stored[viewer.ID.String()+":"+candidate.ID.String()] = score
}

func profileWithAge(age int) *models.Profile {
	return &models.Profile{ID: id.UserID(uuid.New()), Age: age}
}

func TestRecommendOrdering(t *testing.T) {
	r := New(ageScorer{})
	user := profileWithAge(30)

	candidates := []*models.Profile{
		profileWithAge(40),
		profileWithAge(80),
		profileWithAge(20),
		profileWithAge(60),
	}

	got, err := r.Recommend(context.Background(), user, candidates, 10)
	require.NoError(t, err)
	require.Len(t, got, 4)

	overalls := make([]int, len(got))
	for i, rec := range got {
		overalls[i] = rec.Score.Overall
	}
	assert.Equal(t, []int{80, 60, 40, 20}, overalls)
}

func TestRecommendTieBreakByID(t *testing.T) {
	r := New(constScorer{overall: 70})
	user := profileWithAge(30)

	candidates := []*models.Profile{
		profileWithAge(25),
		profileWithAge(25),
		profileWithAge(25),
	}

	got, err := r.Recommend(context.Background(), user, candidates, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)

	ids := make([]string, len(got))
	for i, rec := range got {
		ids[i] = rec.Profile.ID.String()
	}
	assert.True(t, sort.StringsAreSorted(ids), "ties must sort by ascending candidate id")
}

func TestRecommendExcludesSelf(t *testing.T) {
	r := New(ageScorer{})
	user := profileWithAge(30)

	got, err := r.Recommend(context.Background(), user, []*models.Profile{user, profileWithAge(22)}, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NotEqual(t, user.ID, got[0].Profile.ID)
}

func TestRecommendLimit(t *testing.T) {
	r := New(ageScorer{})
	user := profileWithAge(30)

	candidates := make([]*models.Profile, 20)
	for i := range candidates {
		candidates[i] = profileWithAge(20 + i)
	}

	got, err := r.Recommend(context.Background(), user, candidates, 5)
	require.NoError(t, err)
	assert.Len(t, got, 5)
	assert.Equal(t, 39, got[0].Score.Overall)
}

func TestRecommendEmptyInput(t *testing.T) {
	r := New(ageScorer{})
	user := profileWithAge(30)

	got, err := r.Recommend(context.Background(), user, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRecommendDoesNotMutateInput(t *testing.T) {
	r := New(ageScorer{})
	user := profileWithAge(30)

	candidates := []*models.Profile{profileWithAge(50), profileWithAge(70)}
	original := append([]*models.Profile(nil), candidates...)

	_, err := r.Recommend(context.Background(), user, candidates, 10)
	require.NoError(t, err)
	assert.Equal(t, original, candidates)
}

func TestRecommendUsesCache(t *testing.T) {
	cache := newMemoryCache()
	r := New(ageScorer{}, WithCache(cache))
	user := profileWithAge(30)
	candidates := []*models.Profile{profileWithAge(50), profileWithAge(70)}

	_, err := r.Recommend(context.Background(), user, candidates, 10)
	require.NoError(t, err)
	assert.Zero(t, cache.hits)

	_, err = r.Recommend(context.Background(), user, candidates, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, cache.hits)
}
