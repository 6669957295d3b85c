// Package models holds the interest ledger's record types.
package models

import (
	"time"

	id "amora/pkg/domain"
	dErrors "amora/pkg/domain-errors"
)

// Kind is the flavor of a directed interest expression.
type Kind string

const (
	KindLike      Kind = "LIKE"
	KindSuperLike Kind = "SUPER_LIKE"
)

// ParseKind validates a raw interest kind from the transport layer.
func ParseKind(raw string) (Kind, error) {
	switch Kind(raw) {
	case KindLike, KindSuperLike:
		return Kind(raw), nil
	default:
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown interest kind %q", raw)
	}
}

// Edge is a directed interest record: Sender expressed interest in Receiver.
// Edges are immutable once created; the only mutation the ledger supports is
// wholesale removal via the block/deletion collaborator hook.
type Edge struct {
	ID         id.EdgeID
	SenderID   id.UserID
	ReceiverID id.UserID
	Kind       Kind
	CreatedAt  time.Time
}
