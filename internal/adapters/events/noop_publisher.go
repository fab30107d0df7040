package events

import (
	"context"

	"github.com/SscSPs/auradeploy/internal/core/domain"
	"github.com/SscSPs/auradeploy/internal/core/ports"
)

// NoopPublisher is used when AMQP_URL is not configured.
type NoopPublisher struct{}

var _ ports.ServerEventPublisher = NoopPublisher{}

func (NoopPublisher) PublishStatusChanged(context.Context, domain.ServerStatusChanged) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
