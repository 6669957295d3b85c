// Package ranker turns a candidate pool into an ordered recommendation list.
package ranker

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"amora/internal/matching/models"
)

// Scorer is the compatibility function the ranker applies to every candidate.
type Scorer interface {
	Score(ctx context.Context, a, b *models.Profile) models.CompatibilityScore
}

// Cache is an optional read-through score cache. It exists purely for
// performance on frequently re-rendered candidate lists; the interest ledger
// and match coordinator never consult it, so staleness can cost recompute time
// but never correctness.
type Cache interface {
	Get(ctx context.Context, viewer, candidate *models.Profile) (models.CompatibilityScore, bool)
	Set(ctx context.Context, viewer, candidate *models.Profile, score models.CompatibilityScore)
}

// Recommendation pairs a candidate with the viewer's compatibility score.
type Recommendation struct {
	Profile *models.Profile           `json:"profile"`
	Score   models.CompatibilityScore `json:"score"`
}

// Ranker scores candidate pools. Stateless; safe for concurrent use.
type Ranker struct {
	scorer      Scorer
	cache       Cache
	concurrency int
}

// Option configures a Ranker.
type Option func(*Ranker)

// WithCache attaches a read-through score cache.
func WithCache(cache Cache) Option {
	return func(r *Ranker) { r.cache = cache }
}

// WithConcurrency bounds the number of candidates scored in parallel.
func WithConcurrency(n int) Option {
	return func(r *Ranker) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

const defaultConcurrency = 8

// New constructs a Ranker around the given scorer.
func New(scorer Scorer, opts ...Option) *Ranker {
	r := &Ranker{scorer: scorer, concurrency: defaultConcurrency}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Recommend scores every candidate from the user's point of view and returns
// the top results ordered by descending overall score, ties broken by
// ascending candidate id for determinism. The user itself is excluded. An
// empty candidate pool yields an empty slice, not an error. The input slice is
// never mutated.
func (r *Ranker) Recommend(ctx context.Context, user *models.Profile, candidates []*models.Profile, limit int) ([]Recommendation, error) {
	if len(candidates) == 0 || limit <= 0 {
		return nil, nil
	}

	pool := make([]*models.Profile, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate == nil || candidate.ID == user.ID {
			continue
		}
		pool = append(pool, candidate)
	}
	if len(pool) == 0 {
		return nil, nil
	}

	scored := make([]Recommendation, len(pool))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, candidate := range pool {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			scored[i] = Recommendation{
				Profile: candidate,
				Score:   r.score(gctx, user, candidate),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score.Overall != scored[j].Score.Overall {
			return scored[i].Score.Overall > scored[j].Score.Overall
		}
		return scored[i].Profile.ID.String() < scored[j].Profile.ID.String()
	})

	if limit < len(scored) {
		scored = scored[:limit]
	}
	return scored, nil
}

func (r *Ranker) score(ctx context.Context, user, candidate *models.Profile) models.CompatibilityScore {
	if r.cache != nil {
		if cached, ok := r.cache.Get(ctx, user, candidate); ok {
			return cached
		}
	}
	score := r.scorer.Score(ctx, user, candidate)
	if r.cache != nil {
		r.cache.Set(ctx, user, candidate, score)
	}
	return score
}
