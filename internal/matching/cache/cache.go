// Package cache provides the redis-backed compatibility score cache used by
// the recommendation ranker.
//
// Keys include both profile versions, so any profile edit naturally misses.
// The cache is best-effort: redis failures degrade to recomputation and are
// never surfaced to callers.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"amora/internal/matching/models"
)

const defaultTTL = 10 * time.Minute

// ScoreCache implements the ranker's Cache interface on redis.
type ScoreCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New constructs a ScoreCache. A zero ttl uses the default.
func New(client *redis.Client, ttl time.Duration, logger *slog.Logger) *ScoreCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &ScoreCache{client: client, ttl: ttl, logger: logger}
}

// key is ordered (viewer first): Score(a,b) and Score(b,a) differ through the
// viewer's preferences and must never share an entry.
func key(viewer, candidate *models.Profile) string {
	return fmt.Sprintf("score:v1:%s:%d:%s:%d",
		viewer.ID, viewer.Version, candidate.ID, candidate.Version)
}

func (c *ScoreCache) Get(ctx context.Context, viewer, candidate *models.Profile) (models.CompatibilityScore, bool) {
	raw, err := c.client.Get(ctx, key(viewer, candidate)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.DebugContext(ctx, "score cache read failed", "error", err)
		}
		return models.CompatibilityScore{}, false
	}

	var score models.CompatibilityScore
	if err := json.Unmarshal(raw, &score); err != nil {
		return models.CompatibilityScore{}, false
	}
	return score, true
}

func (c *ScoreCache) Set(ctx context.Context, viewer, candidate *models.Profile, score models.CompatibilityScore) {
	raw, err := json.Marshal(score)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key(viewer, candidate), raw, c.ttl).Err(); err != nil {
		c.logger.DebugContext(ctx, "score cache write failed", "error", err)
	}
}
