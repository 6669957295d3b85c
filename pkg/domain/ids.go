// Package domain defines the typed identifiers shared across the engine.
//
// IDs are distinct types over uuid.UUID so the compiler rejects cross-type
// assignment (a ChannelID can never be passed where a MatchID is expected).
// Parse helpers enforce the trust-boundary invariant: valid, non-nil UUIDs.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "amora/pkg/domain-errors"
)

type (
	// UserID identifies a profile owner. Profiles are managed by an external
	// store; this core only ever reads them.
	UserID uuid.UUID

	// EdgeID identifies a directed interest edge.
	EdgeID uuid.UUID

	// MatchID identifies a formed match.
	MatchID uuid.UUID

	// ChannelID identifies a private communication channel.
	ChannelID uuid.UUID
)

func (id UserID) String() string    { return uuid.UUID(id).String() }
func (id EdgeID) String() string    { return uuid.UUID(id).String() }
func (id MatchID) String() string   { return uuid.UUID(id).String() }
func (id ChannelID) String() string { return uuid.UUID(id).String() }

// IsZero reports whether the id is the nil UUID.
func (id UserID) IsZero() bool    { return uuid.UUID(id) == uuid.Nil }
func (id MatchID) IsZero() bool   { return uuid.UUID(id) == uuid.Nil }
func (id ChannelID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }

// NewEdgeID generates a fresh edge identifier.
func NewEdgeID() EdgeID { return EdgeID(uuid.New()) }

// NewMatchID generates a fresh match identifier.
func NewMatchID() MatchID { return MatchID(uuid.New()) }

// NewChannelID generates a fresh channel identifier.
func NewChannelID() ChannelID { return ChannelID(uuid.New()) }

func parseUUID(raw string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be empty")
	}
	parsed, err := uuid.Parse(trimmed)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be the nil UUID")
	}
	return parsed, nil
}

// ParseUserID validates and converts a raw string into a UserID.
func ParseUserID(raw string) (UserID, error) {
	parsed, err := parseUUID(raw)
	if err != nil {
		return UserID{}, err
	}
	return UserID(parsed), nil
}

// ParseMatchID validates and converts a raw string into a MatchID.
func ParseMatchID(raw string) (MatchID, error) {
	parsed, err := parseUUID(raw)
	if err != nil {
		return MatchID{}, err
	}
	return MatchID(parsed), nil
}

// ParseChannelID validates and converts a raw string into a ChannelID.
func ParseChannelID(raw string) (ChannelID, error) {
	parsed, err := parseUUID(raw)
	if err != nil {
		return ChannelID{}, err
	}
	return ChannelID(parsed), nil
}
