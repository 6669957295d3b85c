// Package events carries the match-formation notification to downstream
// collaborators (push notification senders, analytics, the chat frontend).
//
// Delivery is fire-and-forget: the coordinator emits after the match has
// committed, publish failures are logged and never fail the triggering
// request, and delivery semantics beyond that belong to the consumer.
package events

import (
	"context"
	"time"

	id "amora/pkg/domain"
)

// MatchFormed is emitted exactly once per formed match, by the winning side
// of a formation race.
type MatchFormed struct {
	MatchID   id.MatchID   `json:"match_id"`
	UserA     id.UserID    `json:"user_a"`
	UserB     id.UserID    `json:"user_b"`
	ChannelID id.ChannelID `json:"channel_id"`
	At        time.Time    `json:"at"`
}

// PairKey returns the canonical pair key, used as the event partition key so
// all events about one pair stay ordered.
func (e MatchFormed) PairKey() id.PairKey {
	return id.NewPairKey(e.UserA, e.UserB)
}

// Publisher delivers MatchFormed events to collaborators.
type Publisher interface {
	PublishMatchFormed(ctx context.Context, event MatchFormed) error
}

// Nop discards events; used when no collaborator transport is configured.
type Nop struct{}

func (Nop) PublishMatchFormed(context.Context, MatchFormed) error { return nil }
