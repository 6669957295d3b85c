// Package models holds the communication channel types.
package models

import (
	"time"

	id "amora/pkg/domain"
)

// Channel is the private communication context provisioned for a match.
// The private channels created by this core always have exactly two
// participants; the store enforces membership uniqueness.
type Channel struct {
	ID           id.ChannelID
	Participants []id.UserID
	CreatedAt    time.Time
}
