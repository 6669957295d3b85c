// Package handler exposes interest submission over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"amora/internal/interest/models"
	"amora/internal/interest/service"
	id "amora/pkg/domain"
	dErrors "amora/pkg/domain-errors"
	"amora/pkg/platform/httputil"
	"amora/pkg/requestcontext"
)

// Recorder is the ledger dependency.
type Recorder interface {
	RecordInterest(ctx context.Context, sender, receiver id.UserID, kind models.Kind) (service.RecordResult, error)
}

// Handler serves POST /interest.
type Handler struct {
	ledger Recorder
	logger *slog.Logger
}

// New constructs an interest handler.
func New(ledger Recorder, logger *slog.Logger) *Handler {
	return &Handler{ledger: ledger, logger: logger}
}

// Register mounts the interest endpoint.
func (h *Handler) Register(r chi.Router) {
	r.Post("/interest", h.HandleRecord)
}

type recordRequest struct {
	ReceiverID string `json:"receiver_id"`
	Kind       string `json:"kind"`
}

type recordResponse struct {
	Created     bool   `json:"created"`
	Mutual      bool   `json:"mutual"`
	MatchFormed bool   `json:"match_formed"`
	MatchID     string `json:"match_id,omitempty"`
	ChannelID   string `json:"channel_id,omitempty"`
}

// HandleRecord handles POST /interest. The sender is always the
// authenticated caller; a match in the response means this submission
// completed the pair.
func (h *Handler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sender := requestcontext.UserID(ctx)
	if sender.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	req, ok := httputil.Decode[recordRequest](w, r, h.logger)
	if !ok {
		return
	}
	receiver, err := id.ParseUserID(req.ReceiverID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	kind, err := models.ParseKind(req.Kind)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.ledger.RecordInterest(ctx, sender, receiver, kind)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnavailable) || dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "interest submission failed",
				"request_id", requestcontext.RequestID(ctx),
				"sender_id", sender,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	resp := recordResponse{
		Created:     result.Created,
		Mutual:      result.Mutual,
		MatchFormed: result.MatchFormed,
	}
	if !result.MatchID.IsZero() {
		resp.MatchID = result.MatchID.String()
	}
	if !result.ChannelID.IsZero() {
		resp.ChannelID = result.ChannelID.String()
	}

	status := http.StatusCreated
	if result.MatchFormed {
		// Surface formation distinctly so clients can celebrate immediately.
		h.logger.InfoContext(ctx, "mutual interest completed",
			"request_id", requestcontext.RequestID(ctx),
			"sender_id", sender,
			"match_id", resp.MatchID,
		)
	}
	httputil.WriteJSON(w, status, resp)
}
