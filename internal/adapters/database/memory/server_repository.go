package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/auradeploy/internal/apperrors"
	"github.com/SscSPs/auradeploy/internal/core/domain"
	portsrepo "github.com/SscSPs/auradeploy/internal/core/ports/repositories"
)

type ServerRepository struct {
	mu      sync.Mutex
	servers map[string]domain.Server
}

func NewServerRepository() *ServerRepository {
	return &ServerRepository{servers: make(map[string]domain.Server)}
}

var _ portsrepo.ServerRepositoryFacade = (*ServerRepository)(nil)

func (r *ServerRepository) FindServerByID(ctx context.Context, ownerID, serverID string) (*domain.Server, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.servers[serverID]
	if !ok || s.OwnerID != ownerID {
		return nil, apperrors.ErrNotFound
	}
	return &s, nil
}

func (r *ServerRepository) ownedBy(ownerID string) []domain.Server {
	owned := make([]domain.Server, 0)
	for _, s := range r.servers {
		if s.OwnerID == ownerID {
			owned = append(owned, s)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})
	return owned
}

func (r *ServerRepository) FindServersByOwner(ctx context.Context, ownerID string, limit, offset int) ([]domain.Server, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owned := r.ownedBy(ownerID)
	if offset >= len(owned) {
		return []domain.Server{}, nil
	}
	end := offset + limit
	if end > len(owned) {
		end = len(owned)
	}
	return owned[offset:end], nil
}

func (r *ServerRepository) CountServersByOwner(ctx context.Context, ownerID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ownedBy(ownerID)), nil
}

func (r *ServerRepository) FindDueTransitions(ctx context.Context, now time.Time, limit int) ([]domain.Server, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	due := make([]domain.Server, 0)
	for _, s := range r.servers {
		if s.TransitionDue(now) {
			due = append(due, s)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		return due[i].TransitionDueAt.Before(*due[j].TransitionDueAt)
	})
	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (r *ServerRepository) SaveServer(ctx context.Context, server domain.Server) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.servers[server.ServerID]; exists {
		return apperrors.NewDuplicateError("Server already exists")
	}
	r.servers[server.ServerID] = server
	return nil
}

func (r *ServerRepository) UpdateServerDetails(ctx context.Context, server domain.Server) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.servers[server.ServerID]
	if !ok || s.OwnerID != server.OwnerID {
		return apperrors.ErrNotFound
	}
	s.Name = server.Name
	s.Description = server.Description
	s.MaxPlayers = server.MaxPlayers
	s.UpdatedAt = server.UpdatedAt
	r.servers[server.ServerID] = s
	return nil
}

func (r *ServerRepository) TransitionServerStatus(ctx context.Context, t domain.StatusTransition) (*domain.Server, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.servers[t.ServerID]
	if !ok || s.Status != t.From {
		return nil, fmt.Errorf("server %s is no longer %s: %w", t.ServerID, t.From, apperrors.ErrConflict)
	}
	s.Status = t.To
	s.TransitionDueAt = t.TransitionDueAt
	if t.LastStarted != nil {
		s.LastStarted = t.LastStarted
	}
	if t.LastStopped != nil {
		s.LastStopped = t.LastStopped
	}
	s.UpdatedAt = t.At
	r.servers[t.ServerID] = s
	return &s, nil
}

func (r *ServerRepository) DeleteServer(ctx context.Context, ownerID, serverID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.servers[serverID]
	if !ok || s.OwnerID != ownerID {
		return apperrors.ErrNotFound
	}
	delete(r.servers, serverID)
	return nil
}
