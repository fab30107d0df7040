package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/auradeploy/internal/core/domain"
)

// ServerReader defines read operations for the mock fleet.
type ServerReader interface {
	// FindServerByID retrieves a server owned by ownerID.
	FindServerByID(ctx context.Context, ownerID, serverID string) (*domain.Server, error)

	// FindServersByOwner lists a user's servers, newest first.
	FindServersByOwner(ctx context.Context, ownerID string, limit, offset int) ([]domain.Server, error)

	CountServersByOwner(ctx context.Context, ownerID string) (int, error)

	// FindDueTransitions returns servers in a transient status whose
	// TransitionDueAt is at or before now.
	FindDueTransitions(ctx context.Context, now time.Time, limit int) ([]domain.Server, error)
}

// ServerWriter defines write operations for the mock fleet.
type ServerWriter interface {
	SaveServer(ctx context.Context, server domain.Server) error

	// UpdateServerDetails writes name, description and max players.
	UpdateServerDetails(ctx context.Context, server domain.Server) error

	// TransitionServerStatus applies t only if the stored status still equals
	// t.From, returning the updated server. A lost race yields apperrors.ErrConflict.
	TransitionServerStatus(ctx context.Context, t domain.StatusTransition) (*domain.Server, error)

	DeleteServer(ctx context.Context, ownerID, serverID string) error
}

// ServerRepositoryFacade combines all server-related repository interfaces
type ServerRepositoryFacade interface {
	ServerReader
	ServerWriter
}
