// Package models holds the match record types.
package models

import (
	"time"

	id "amora/pkg/domain"
)

// Match is the pair-unique record formed when interest becomes mutual.
// Created exactly once by the coordinator; never deleted by this core
// (unmatching is an external collaborator operation).
type Match struct {
	ID        id.MatchID
	Pair      id.PairKey
	ChannelID id.ChannelID
	CreatedAt time.Time
}
