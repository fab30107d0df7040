package ports

import (
	"context"

	"github.com/SscSPs/auradeploy/internal/core/domain"
)

// ServerEventPublisher delivers fleet lifecycle events to other systems.
// Publishing is best effort; callers log and continue on error.
type ServerEventPublisher interface {
	PublishStatusChanged(ctx context.Context, event domain.ServerStatusChanged) error
	Close() error
}
