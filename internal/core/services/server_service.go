package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/auradeploy/internal/apperrors"
	"github.com/SscSPs/auradeploy/internal/core/domain"
	"github.com/SscSPs/auradeploy/internal/core/ports"
	portsrepo "github.com/SscSPs/auradeploy/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/auradeploy/internal/core/ports/services"
	"github.com/SscSPs/auradeploy/internal/dto"
	"github.com/SscSPs/auradeploy/internal/utils"
	"github.com/google/uuid"
)

const (
	msgServerLimit         = "Server limit reached. Maximum 5 servers per user."
	msgServerTransitioning = "Server is currently transitioning. Please wait."
	msgDeleteRunning       = "Cannot delete a running server. Please stop it first."

	// dueTransitionBatch bounds how many records one reconciler pass settles.
	dueTransitionBatch = 100
)

type serverService struct {
	BaseService
	serverRepo portsrepo.ServerRepositoryFacade
	publisher  ports.ServerEventPublisher
	startDelay time.Duration
	stopDelay  time.Duration
}

// ServerServiceOption is a functional option for configuring the server service
type ServerServiceOption func(*serverService)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(now func() time.Time) ServerServiceOption {
	return func(s *serverService) {
		s.Now = now
	}
}

// WithTransitionDelays sets how long starting and stopping last.
func WithTransitionDelays(start, stop time.Duration) ServerServiceOption {
	return func(s *serverService) {
		s.startDelay = start
		s.stopDelay = stop
	}
}

// WithEventPublisher adds a sink for status change events.
func WithEventPublisher(p ports.ServerEventPublisher) ServerServiceOption {
	return func(s *serverService) {
		s.publisher = p
	}
}

// NewServerService creates a new server service with the provided options
func NewServerService(repo portsrepo.ServerRepositoryFacade, options ...ServerServiceOption) portssvc.ServerSvcFacade {
	svc := &serverService{
		BaseService: newBaseService(),
		serverRepo:  repo,
		startDelay:  3 * time.Second,
		stopDelay:   2 * time.Second,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ServerSvcFacade = (*serverService)(nil)

func (s *serverService) ListServers(ctx context.Context, ownerID string, params dto.ListServersParams) ([]domain.Server, int, error) {
	params.Normalize()

	total, err := s.serverRepo.CountServersByOwner(ctx, ownerID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count servers in service: %w", err)
	}
	servers, err := s.serverRepo.FindServersByOwner(ctx, ownerID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list servers in service: %w", err)
	}

	now := s.Now()
	for i := range servers {
		servers[i].Settle(now)
	}
	return servers, total, nil
}

func (s *serverService) GetServer(ctx context.Context, ownerID, serverID string) (*domain.Server, error) {
	server, err := s.serverRepo.FindServerByID(ctx, ownerID, serverID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Server not found")
		}
		return nil, fmt.Errorf("failed to get server in service: %w", err)
	}
	server.Settle(s.Now())
	return server, nil
}

func (s *serverService) GetServerStats(ctx context.Context, ownerID string) (domain.ServerStats, error) {
	total, err := s.serverRepo.CountServersByOwner(ctx, ownerID)
	if err != nil {
		return domain.ServerStats{}, fmt.Errorf("failed to count servers in service: %w", err)
	}
	if total == 0 {
		return domain.ServerStats{}, nil
	}
	servers, err := s.serverRepo.FindServersByOwner(ctx, ownerID, total, 0)
	if err != nil {
		return domain.ServerStats{}, fmt.Errorf("failed to load servers for stats: %w", err)
	}

	now := s.Now()
	running := 0
	for i := range servers {
		servers[i].Settle(now)
		if servers[i].Status == domain.StatusRunning {
			running++
		}
	}
	return domain.ServerStats{
		TotalServers:   total,
		RunningServers: running,
		StoppedServers: total - running,
	}, nil
}

func (s *serverService) CreateServer(ctx context.Context, ownerID string, req dto.CreateServerRequest) (*domain.Server, error) {
	count, err := s.serverRepo.CountServersByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count servers in service: %w", err)
	}
	if count >= domain.MaxServersPerUser {
		return nil, apperrors.NewBadRequestError(msgServerLimit)
	}

	version := strings.TrimSpace(req.Version)
	if version == "" {
		version = domain.DefaultServerVersion
	}
	serverType := domain.ServerType(req.Type)
	if serverType == "" {
		serverType = domain.DefaultServerType
	}
	if !domain.IsValidServerType(serverType) {
		return nil, apperrors.NewBadRequestError("Invalid server type")
	}
	maxPlayers := domain.DefaultMaxPlayers
	if req.MaxPlayers != nil {
		maxPlayers = *req.MaxPlayers
	}

	offset, err := utils.RandomIntn(domain.ServerPortSpread)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	server := domain.Server{
		ServerID:    uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Version:     version,
		Type:        serverType,
		Status:      domain.StatusStopped,
		OwnerID:     ownerID,
		Port:        domain.BaseServerPort + offset,
		IPAddress:   "server-" + strconv.FormatInt(now.UnixMilli(), 36) + domain.ServerHostSuffix,
		MaxPlayers:  maxPlayers,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.serverRepo.SaveServer(ctx, server); err != nil {
		return nil, fmt.Errorf("failed to create server in service: %w", err)
	}

	s.LogInfo(ctx, "Server created", slog.String("server_id", server.ServerID), slog.String("owner_id", ownerID))
	return &server, nil
}

func (s *serverService) UpdateServer(ctx context.Context, ownerID, serverID string, req dto.UpdateServerRequest) (*domain.Server, error) {
	server, err := s.GetServer(ctx, ownerID, serverID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if name := strings.TrimSpace(*req.Name); name != "" {
			server.Name = name
		}
	}
	if req.Description != nil {
		server.Description = strings.TrimSpace(*req.Description)
	}
	if req.MaxPlayers != nil {
		server.MaxPlayers = *req.MaxPlayers
	}
	server.UpdatedAt = s.Now()

	if err := s.serverRepo.UpdateServerDetails(ctx, *server); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Server not found")
		}
		return nil, fmt.Errorf("failed to update server in service: %w", err)
	}
	return server, nil
}

func (s *serverService) DeleteServer(ctx context.Context, ownerID, serverID string) error {
	server, err := s.GetServer(ctx, ownerID, serverID)
	if err != nil {
		return err
	}
	if server.Status == domain.StatusRunning {
		return apperrors.NewBadRequestError(msgDeleteRunning)
	}

	if err := s.serverRepo.DeleteServer(ctx, ownerID, serverID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewNotFoundError("Server not found")
		}
		return fmt.Errorf("failed to delete server in service: %w", err)
	}

	s.LogInfo(ctx, "Server deleted", slog.String("server_id", serverID), slog.String("owner_id", ownerID))
	return nil
}

func (s *serverService) ToggleServer(ctx context.Context, ownerID, serverID string) (*domain.Server, error) {
	server, err := s.serverRepo.FindServerByID(ctx, ownerID, serverID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Server not found")
		}
		return nil, fmt.Errorf("failed to get server in service: %w", err)
	}

	now := s.Now()
	// An overdue transition is written back first so the toggle below
	// compares against the settled status.
	if server.TransitionDue(now) {
		settled, err := s.completeTransition(ctx, *server, now)
		if err != nil && !errors.Is(err, apperrors.ErrConflict) {
			return nil, err
		}
		if settled != nil {
			server = settled
		} else {
			if server, err = s.serverRepo.FindServerByID(ctx, ownerID, serverID); err != nil {
				return nil, fmt.Errorf("failed to reload server: %w", err)
			}
			server.Settle(now)
		}
	}

	target, ok := server.Status.ToggleTarget()
	if !ok {
		return nil, apperrors.NewConflictError(msgServerTransitioning)
	}

	t := domain.StatusTransition{
		ServerID: server.ServerID,
		From:     server.Status,
		To:       target,
		At:       now,
	}
	if target == domain.StatusStarting {
		due := now.Add(s.startDelay)
		t.TransitionDueAt = &due
		t.LastStarted = &now
	} else {
		due := now.Add(s.stopDelay)
		t.TransitionDueAt = &due
		t.LastStopped = &now
	}

	updated, err := s.serverRepo.TransitionServerStatus(ctx, t)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.NewConflictError(msgServerTransitioning)
		}
		return nil, fmt.Errorf("failed to toggle server in service: %w", err)
	}

	s.publish(ctx, *updated, t.From)
	s.LogInfo(ctx, "Server toggled",
		slog.String("server_id", updated.ServerID),
		slog.String("from", string(t.From)),
		slog.String("to", string(updated.Status)))
	return updated, nil
}

// completeTransition settles server in storage. It returns ErrConflict when
// another writer got there first.
func (s *serverService) completeTransition(ctx context.Context, server domain.Server, now time.Time) (*domain.Server, error) {
	t := domain.StatusTransition{
		ServerID: server.ServerID,
		From:     server.Status,
		To:       server.Status.Settled(),
		At:       now,
	}
	updated, err := s.serverRepo.TransitionServerStatus(ctx, t)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, *updated, t.From)
	return updated, nil
}

func (s *serverService) CompleteDueTransitions(ctx context.Context) (int, error) {
	now := s.Now()
	due, err := s.serverRepo.FindDueTransitions(ctx, now, dueTransitionBatch)
	if err != nil {
		return 0, fmt.Errorf("failed to find due transitions: %w", err)
	}

	completed := 0
	for _, server := range due {
		if _, err := s.completeTransition(ctx, server, now); err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				continue
			}
			s.LogError(ctx, err, "Failed to complete server transition", slog.String("server_id", server.ServerID))
			continue
		}
		completed++
	}
	return completed, nil
}

func (s *serverService) publish(ctx context.Context, server domain.Server, from domain.ServerStatus) {
	if s.publisher == nil {
		return
	}
	event := domain.ServerStatusChanged{
		ServerID:   server.ServerID,
		OwnerID:    server.OwnerID,
		From:       from,
		To:         server.Status,
		OccurredAt: server.UpdatedAt,
	}
	if err := s.publisher.PublishStatusChanged(ctx, event); err != nil {
		s.LogWarn(ctx, "Failed to publish server status event",
			slog.String("server_id", server.ServerID),
			slog.String("error", err.Error()))
	}
}
