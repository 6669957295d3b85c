// Package channel provides storage for communication channels and their
// memberships.
package channel

import (
	"context"

	"amora/internal/channel/models"
	id "amora/pkg/domain"
)

// Store persists channels. Create inserts the channel and all participant
// memberships; a membership uniqueness violation returns
// sentinel.ErrConflict. Given the coordinator's pair-uniqueness guarantee that
// conflict should never fire; when it does it indicates a coordination bug,
// and the provisioner escalates it rather than retrying.
type Store interface {
	Create(ctx context.Context, ch *models.Channel) error
	Find(ctx context.Context, channelID id.ChannelID) (*models.Channel, error)
}
