package ports

import (
	"context"

	"github.com/layer-3/rangda/core"
)

// EventPublisher notifies other services about identity lifecycle events
type EventPublisher interface {
	PublishLogin(ctx context.Context, identity *core.Identity) error
	PublishIdentityCreated(ctx context.Context, identity *core.Identity) error
}
