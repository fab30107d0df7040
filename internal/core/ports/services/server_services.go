package services

import (
	"context"

	"github.com/SscSPs/auradeploy/internal/core/domain"
	"github.com/SscSPs/auradeploy/internal/dto"
)

// ServerReaderSvc defines owner-scoped reads of the mock fleet.
type ServerReaderSvc interface {
	ListServers(ctx context.Context, ownerID string, params dto.ListServersParams) ([]domain.Server, int, error)
	GetServer(ctx context.Context, ownerID, serverID string) (*domain.Server, error)
	GetServerStats(ctx context.Context, ownerID string) (domain.ServerStats, error)
}

// ServerWriterSvc defines owner-scoped writes of the mock fleet.
type ServerWriterSvc interface {
	CreateServer(ctx context.Context, ownerID string, req dto.CreateServerRequest) (*domain.Server, error)
	UpdateServer(ctx context.Context, ownerID, serverID string, req dto.UpdateServerRequest) (*domain.Server, error)
	DeleteServer(ctx context.Context, ownerID, serverID string) error
}

// ServerLifecycleSvc drives the start/stop state machine.
type ServerLifecycleSvc interface {
	// ToggleServer moves stopped to starting or running to stopping.
	// A server already in transition yields a conflict.
	ToggleServer(ctx context.Context, ownerID, serverID string) (*domain.Server, error)

	// CompleteDueTransitions settles every overdue transition and returns
	// how many were applied.
	CompleteDueTransitions(ctx context.Context) (int, error)
}

// ServerSvcFacade combines all server-related service interfaces
type ServerSvcFacade interface {
	ServerReaderSvc
	ServerWriterSvc
	ServerLifecycleSvc
}
