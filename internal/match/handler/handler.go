// Package handler exposes match reads over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"amora/internal/match/models"
	id "amora/pkg/domain"
	dErrors "amora/pkg/domain-errors"
	"amora/pkg/platform/httputil"
	"amora/pkg/requestcontext"
)

// Reader lists a user's matches. Satisfied by the coordinator.
type Reader interface {
	ListForUser(ctx context.Context, userID id.UserID) ([]*models.Match, error)
}

// Handler serves GET /matches.
type Handler struct {
	matches Reader
	logger  *slog.Logger
}

// New constructs a match handler.
func New(matches Reader, logger *slog.Logger) *Handler {
	return &Handler{matches: matches, logger: logger}
}

// Register mounts the match endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Get("/matches", h.HandleList)
}

type matchItem struct {
	MatchID   string    `json:"match_id"`
	PartnerID string    `json:"partner_id"`
	ChannelID string    `json:"channel_id"`
	CreatedAt time.Time `json:"created_at"`
}

// HandleList handles GET /matches for the authenticated caller.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := requestcontext.UserID(ctx)
	if userID.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	matches, err := h.matches.ListForUser(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "match listing failed",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	items := make([]matchItem, 0, len(matches))
	for _, m := range matches {
		items = append(items, matchItem{
			MatchID:   m.ID.String(),
			PartnerID: m.Pair.Other(userID).String(),
			ChannelID: m.ChannelID.String(),
			CreatedAt: m.CreatedAt,
		})
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"matches": items})
}
