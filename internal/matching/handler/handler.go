// Package handler wires the scoring and recommendation endpoints.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"amora/internal/matching/metrics"
	"amora/internal/matching/models"
	"amora/internal/matching/ranker"
	"amora/internal/profile"
	id "amora/pkg/domain"
	dErrors "amora/pkg/domain-errors"
	"amora/pkg/platform/httputil"
	"amora/pkg/platform/sentinel"
	"amora/pkg/requestcontext"
)

// Scorer is the on-demand pair scoring dependency.
type Scorer interface {
	Score(ctx context.Context, a, b *models.Profile) models.CompatibilityScore
}

// Recommender is the candidate ranking dependency.
type Recommender interface {
	Recommend(ctx context.Context, user *models.Profile, candidates []*models.Profile, limit int) ([]ranker.Recommendation, error)
}

const (
	defaultLimit = 10
	maxLimit     = 50
)

// Handler serves GET /recommendations and POST /score.
type Handler struct {
	profiles    profile.Store
	scorer      Scorer
	recommender Recommender
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

// New constructs a matching handler.
func New(profiles profile.Store, scorer Scorer, recommender Recommender, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		profiles:    profiles,
		scorer:      scorer,
		recommender: recommender,
		logger:      logger,
		metrics:     m,
	}
}

// Register mounts the matching endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Get("/recommendations", h.HandleRecommendations)
	r.Post("/score", h.HandleScore)
}

// recommendationItem is the wire shape for one ranked candidate.
type recommendationItem struct {
	ProfileID string                    `json:"profile_id"`
	Score     models.CompatibilityScore `json:"score"`
}

// HandleRecommendations handles GET /recommendations?limit=N.
func (h *Handler) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := requestcontext.UserID(ctx)
	if userID.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "limit must be a positive integer"))
			return
		}
		limit = parsed
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	user, err := h.getProfile(ctx, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	filter := profile.Filter{}
	if user.Preferences != nil {
		filter.AgeRange = user.Preferences.AgeRange
	}
	exclude := map[id.UserID]struct{}{userID: {}}
	candidates, err := h.profiles.ListCandidates(ctx, exclude, filter)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeUnavailable, "profile store unavailable"))
		return
	}

	recommendations, err := h.recommender.Recommend(ctx, user, candidates, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "recommendation ranking failed",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	h.metrics.RecordRecommendations()

	items := make([]recommendationItem, 0, len(recommendations))
	for _, rec := range recommendations {
		items = append(items, recommendationItem{
			ProfileID: rec.Profile.ID.String(),
			Score:     rec.Score,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"recommendations": items})
}

// scoreRequest is the wire shape for on-demand pair scoring.
type scoreRequest struct {
	UserA string `json:"user_a"`
	UserB string `json:"user_b"`
}

// HandleScore handles POST /score for on-demand detail views.
func (h *Handler) HandleScore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	if userID := requestcontext.UserID(ctx); userID.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	req, ok := httputil.Decode[scoreRequest](w, r, h.logger)
	if !ok {
		return
	}
	userA, err := id.ParseUserID(req.UserA)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	userB, err := id.ParseUserID(req.UserB)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	a, err := h.getProfile(ctx, userA)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	b, err := h.getProfile(ctx, userB)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	score := h.scorer.Score(ctx, a, b)
	h.metrics.ObserveScoreDuration(time.Since(start).Seconds())

	httputil.WriteJSON(w, http.StatusOK, score)
}

func (h *Handler) getProfile(ctx context.Context, userID id.UserID) (*models.Profile, error) {
	p, err := h.profiles.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "profile %s not found", userID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "profile store unavailable")
	}
	return p, nil
}
