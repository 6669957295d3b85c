// Package service implements the interest ledger: the append-only record of
// directed likes and the mutual-interest detection that triggers match
// formation.
package service

import (
	"context"
	"errors"
	"log/slog"

	"amora/internal/interest/metrics"
	"amora/internal/interest/models"
	"amora/internal/interest/store/edge"
	matchservice "amora/internal/match/service"
	id "amora/pkg/domain"
	dErrors "amora/pkg/domain-errors"
	"amora/pkg/platform/sentinel"
	"amora/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Coordinator

// Coordinator is the match-formation dependency. Satisfied by the match
// service; mocked in unit tests.
type Coordinator interface {
	FormMatchIfMutual(ctx context.Context, a, b id.UserID) (matchservice.Outcome, error)
}

// RecordResult is what an interest submission observed. MatchFormed is true
// on at most one of the two sides of a mutual pair, no matter how the
// submissions interleave.
type RecordResult struct {
	Created     bool
	Mutual      bool
	MatchFormed bool
	MatchID     id.MatchID
	ChannelID   id.ChannelID
}

// Ledger records directed interest edges and detects mutuality.
type Ledger struct {
	edges       edge.Store
	coordinator Coordinator
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

// NewLedger wires the ledger.
func NewLedger(edges edge.Store, coordinator Coordinator, logger *slog.Logger, m *metrics.Metrics) *Ledger {
	return &Ledger{
		edges:       edges,
		coordinator: coordinator,
		logger:      logger,
		metrics:     m,
	}
}

// RecordInterest appends a directed edge and, when the reverse edge already
// exists, asks the coordinator to form the match.
//
// Duplicate submissions are rejected with CodeDuplicateInterest rather than
// silently ignored: the caller must learn no new edge was created so it does
// not re-trigger downstream effects. The race where both directions are
// inserted near-simultaneously is safe: both sides may observe mutuality, but
// the coordinator's pair uniqueness guarantees exactly one reports
// MatchFormed.
func (l *Ledger) RecordInterest(ctx context.Context, sender, receiver id.UserID, kind models.Kind) (RecordResult, error) {
	if sender.IsZero() || receiver.IsZero() {
		return RecordResult{}, dErrors.New(dErrors.CodeInvalidInput, "sender and receiver are required")
	}
	if sender == receiver {
		return RecordResult{}, dErrors.New(dErrors.CodeSelfInterest, "cannot express interest in yourself")
	}

	newEdge := &models.Edge{
		ID:         id.NewEdgeID(),
		SenderID:   sender,
		ReceiverID: receiver,
		Kind:       kind,
		CreatedAt:  requestcontext.Now(ctx),
	}
	if err := l.edges.Create(ctx, newEdge); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			l.metrics.RecordDuplicate()
			return RecordResult{}, dErrors.New(dErrors.CodeDuplicateInterest, "interest already expressed")
		}
		return RecordResult{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "interest store unavailable")
	}
	l.metrics.RecordEdge(string(kind))

	mutual, err := l.edges.Exists(ctx, receiver, sender)
	if err != nil {
		return RecordResult{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "interest store unavailable")
	}
	if !mutual {
		return RecordResult{Created: true}, nil
	}
	l.metrics.RecordMutual()

	outcome, err := l.coordinator.FormMatchIfMutual(ctx, sender, receiver)
	if err != nil {
		// The edge is stored; formation failed. Propagate so the calling
		// layer can retry the formation path; never silently retried here.
		return RecordResult{}, err
	}

	return RecordResult{
		Created:     true,
		Mutual:      true,
		MatchFormed: !outcome.AlreadyExisted,
		MatchID:     outcome.MatchID,
		ChannelID:   outcome.ChannelID,
	}, nil
}

// EraseInterests removes both directions between two users. It backs the
// account-deletion/blocking collaborator hook; the core never calls it on its
// own.
func (l *Ledger) EraseInterests(ctx context.Context, a, b id.UserID) error {
	if a.IsZero() || b.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "both user ids are required")
	}
	if err := l.edges.RemoveBetween(ctx, a, b); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "interest store unavailable")
	}
	l.logger.InfoContext(ctx, "interest edges erased", "user_a", a, "user_b", b)
	return nil
}
