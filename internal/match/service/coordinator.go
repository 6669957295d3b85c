// Package service forms matches when interest becomes mutual.
package service

import (
	"context"
	"errors"
	"log/slog"

	channelmodels "amora/internal/channel/models"
	channelstore "amora/internal/channel/store/channel"
	"amora/internal/match/events"
	"amora/internal/match/metrics"
	"amora/internal/match/models"
	"amora/internal/match/store"
	matchstore "amora/internal/match/store/match"
	id "amora/pkg/domain"
	dErrors "amora/pkg/domain-errors"
	"amora/pkg/platform/sentinel"
	"amora/pkg/requestcontext"
)

// Provisioner creates the channel for a freshly formed match. Satisfied by
// the channel service.
type Provisioner interface {
	ProvisionPrivate(ctx context.Context, channels channelstore.Store, a, b id.UserID) (*channelmodels.Channel, error)
}

// Outcome reports what a formation attempt observed. AlreadyExisted is the
// expected result for the losing side of a race and for redundant calls; it
// is not an error.
type Outcome struct {
	AlreadyExisted bool
	MatchID        id.MatchID
	ChannelID      id.ChannelID
}

// Coordinator owns match creation. It is the only writer of matches and, via
// the provisioner, of channels.
type Coordinator struct {
	runner      store.Runner
	matches     matchstore.Store
	provisioner Provisioner
	publisher   events.Publisher
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

// NewCoordinator wires the coordinator. matches is the non-transactional
// store used for race-loser reads; publisher may be events.Nop.
func NewCoordinator(
	runner store.Runner,
	matches matchstore.Store,
	provisioner Provisioner,
	publisher events.Publisher,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Coordinator {
	return &Coordinator{
		runner:      runner,
		matches:     matches,
		provisioner: provisioner,
		publisher:   publisher,
		logger:      logger,
		metrics:     m,
	}
}

// FormMatchIfMutual atomically creates the match and its channel for the
// pair, or reports the existing match. Linearizable with respect to
// concurrent triggers for the same pair: exactly one caller observes
// AlreadyExisted == false.
func (c *Coordinator) FormMatchIfMutual(ctx context.Context, a, b id.UserID) (Outcome, error) {
	if a.IsZero() || b.IsZero() {
		return Outcome{}, dErrors.New(dErrors.CodeInvalidInput, "both user ids are required")
	}
	if a == b {
		return Outcome{}, dErrors.New(dErrors.CodeInvalidInput, "cannot match a user with themselves")
	}

	pair := id.NewPairKey(a, b)

	var out Outcome
	err := c.runner.RunInTx(ctx, func(unit store.Unit) error {
		existing, err := unit.Matches.FindByPair(ctx, pair)
		if err == nil {
			out = Outcome{AlreadyExisted: true, MatchID: existing.ID, ChannelID: existing.ChannelID}
			return nil
		}
		if !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "match store unavailable")
		}

		ch, err := c.provisioner.ProvisionPrivate(ctx, unit.Channels, pair.Low, pair.High)
		if err != nil {
			return err
		}

		match := &models.Match{
			ID:        id.NewMatchID(),
			Pair:      pair,
			ChannelID: ch.ID,
			CreatedAt: requestcontext.Now(ctx),
		}
		if err := unit.Matches.Create(ctx, match); err != nil {
			// ErrConflict bubbles out so the whole unit rolls back; the
			// winner's row is read below.
			return err
		}

		out = Outcome{MatchID: match.ID, ChannelID: ch.ID}
		return nil
	})

	switch {
	case err == nil:
	case errors.Is(err, sentinel.ErrConflict):
		// Lost the race: the commit that beat us holds the match.
		existing, findErr := c.matches.FindByPair(ctx, pair)
		if findErr != nil {
			return Outcome{}, dErrors.Wrap(findErr, dErrors.CodeUnavailable, "match store unavailable")
		}
		out = Outcome{AlreadyExisted: true, MatchID: existing.ID, ChannelID: existing.ChannelID}
	default:
		return Outcome{}, err
	}

	if out.AlreadyExisted {
		c.metrics.RecordRace()
		return out, nil
	}

	c.metrics.RecordFormed()
	c.logger.InfoContext(ctx, "match formed",
		"match_id", out.MatchID,
		"pair", pair.String(),
		"channel_id", out.ChannelID,
	)

	event := events.MatchFormed{
		MatchID:   out.MatchID,
		UserA:     pair.Low,
		UserB:     pair.High,
		ChannelID: out.ChannelID,
		At:        requestcontext.Now(ctx),
	}
	if err := c.publisher.PublishMatchFormed(ctx, event); err != nil {
		// Fire-and-forget: collaborators own delivery, the match stands.
		c.logger.ErrorContext(ctx, "match event publish failed",
			"match_id", out.MatchID,
			"error", err,
		)
	}

	return out, nil
}

// ListForUser returns every match the user participates in, oldest first.
func (c *Coordinator) ListForUser(ctx context.Context, userID id.UserID) ([]*models.Match, error) {
	if userID.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "user id is required")
	}
	matches, err := c.matches.ListForUser(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "match store unavailable")
	}
	return matches, nil
}

// FindByPair exposes the stored match for a pair, primarily for the
// transport layer and collaborator teardown hooks.
func (c *Coordinator) FindByPair(ctx context.Context, a, b id.UserID) (*models.Match, error) {
	match, err := c.matches.FindByPair(ctx, id.NewPairKey(a, b))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "no match for pair")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "match store unavailable")
	}
	return match, nil
}
