// Package service provisions private communication channels. Only the match
// coordinator calls it, always inside the coordinator's atomic unit.
package service

import (
	"context"
	"errors"
	"log/slog"

	"amora/internal/channel/models"
	channelstore "amora/internal/channel/store/channel"
	id "amora/pkg/domain"
	dErrors "amora/pkg/domain-errors"
	"amora/pkg/platform/sentinel"
	"amora/pkg/requestcontext"
)

// Provisioner creates channels with exactly two participants.
type Provisioner struct {
	logger *slog.Logger
}

// NewProvisioner constructs a Provisioner.
func NewProvisioner(logger *slog.Logger) *Provisioner {
	return &Provisioner{logger: logger}
}

// ProvisionPrivate creates one channel with exactly the two given
// participants, writing through the store the coordinator hands it (which may
// be transaction-bound). A membership conflict here means the coordinator's
// pair-uniqueness guarantee was violated: that is a programmer error, logged
// loudly and escalated, never retried.
func (p *Provisioner) ProvisionPrivate(ctx context.Context, channels channelstore.Store, a, b id.UserID) (*models.Channel, error) {
	if a.IsZero() || b.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "channel participants must be set")
	}
	if a == b {
		p.logger.ErrorContext(ctx, "invariant violation: private channel with one distinct participant",
			"user_id", a,
		)
		return nil, dErrors.New(dErrors.CodeInternal, "private channel requires two distinct participants")
	}

	ch := &models.Channel{
		ID:           id.NewChannelID(),
		Participants: []id.UserID{a, b},
		CreatedAt:    requestcontext.Now(ctx),
	}

	if err := channels.Create(ctx, ch); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			p.logger.ErrorContext(ctx, "invariant violation: channel membership conflict",
				"channel_id", ch.ID,
				"user_a", a,
				"user_b", b,
				"error", err,
			)
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "channel membership conflict")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "channel store unavailable")
	}

	return ch, nil
}
