package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/auradeploy/internal/apperrors"
	"github.com/SscSPs/auradeploy/internal/core/domain"
	portsrepo "github.com/SscSPs/auradeploy/internal/core/ports/repositories"
	"github.com/SscSPs/auradeploy/internal/models"
	"github.com/SscSPs/auradeploy/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxServerRepository struct {
	BaseRepository
}

func newPgxServerRepository(pool *pgxpool.Pool) portsrepo.ServerRepositoryFacade {
	return &PgxServerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ServerRepositoryFacade = (*PgxServerRepository)(nil)

const serverColumns = `
	server_id, owner_id, name, description, version, server_type, status, port,
	ip_address, max_players, is_active, last_started, last_stopped,
	transition_due_at, created_at, updated_at
`

const FULL_SERVER_SELECT_QUERY = `SELECT` + serverColumns + `FROM servers `

func (r *PgxServerRepository) getServers(ctx context.Context, filterQuery string, args ...any) ([]domain.Server, error) {
	rows, err := r.Pool.Query(ctx, FULL_SERVER_SELECT_QUERY+filterQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query servers: %w", err)
	}
	defer rows.Close()

	modelServers, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Server])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Server{}, nil
		}
		return nil, fmt.Errorf("failed to collect server rows: %w", err)
	}
	return mapping.ToDomainServerSlice(modelServers), nil
}

func (r *PgxServerRepository) FindServerByID(ctx context.Context, ownerID, serverID string) (*domain.Server, error) {
	servers, err := r.getServers(ctx, `WHERE server_id = $1 AND owner_id = $2`, serverID, ownerID)
	if err != nil {
		return nil, err
	}
	if len(servers) == 0 {
		return nil, apperrors.ErrNotFound
	}
	return &servers[0], nil
}

func (r *PgxServerRepository) FindServersByOwner(ctx context.Context, ownerID string, limit, offset int) ([]domain.Server, error) {
	return r.getServers(ctx, `WHERE owner_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, ownerID, limit, offset)
}

func (r *PgxServerRepository) CountServersByOwner(ctx context.Context, ownerID string) (int, error) {
	var count int
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM servers WHERE owner_id = $1`, ownerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count servers: %w", err)
	}
	return count, nil
}

func (r *PgxServerRepository) FindDueTransitions(ctx context.Context, now time.Time, limit int) ([]domain.Server, error) {
	return r.getServers(ctx, `
		WHERE status IN ('starting', 'stopping') AND transition_due_at <= $1
		ORDER BY transition_due_at
		LIMIT $2`, now, limit)
}

func (r *PgxServerRepository) SaveServer(ctx context.Context, server domain.Server) error {
	m := mapping.ToModelServer(server)
	query := `INSERT INTO servers (` + serverColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);`
	_, err := r.Pool.Exec(ctx, query,
		m.ServerID,
		m.OwnerID,
		m.Name,
		m.Description,
		m.Version,
		m.ServerType,
		m.Status,
		m.Port,
		m.IPAddress,
		m.MaxPlayers,
		m.IsActive,
		m.LastStarted,
		m.LastStopped,
		m.TransitionDueAt,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return apperrors.NewDuplicateError("Server already exists")
		}
		return fmt.Errorf("failed to save server: %w", err)
	}
	return nil
}

func (r *PgxServerRepository) UpdateServerDetails(ctx context.Context, server domain.Server) error {
	query := `
		UPDATE servers
		SET name = $1, description = $2, max_players = $3, updated_at = $4
		WHERE server_id = $5 AND owner_id = $6;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		server.Name,
		server.Description,
		server.MaxPlayers,
		server.UpdatedAt,
		server.ServerID,
		server.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update server: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxServerRepository) TransitionServerStatus(ctx context.Context, t domain.StatusTransition) (*domain.Server, error) {
	query := `
		UPDATE servers
		SET status = $1,
			transition_due_at = $2,
			last_started = COALESCE($3, last_started),
			last_stopped = COALESCE($4, last_stopped),
			updated_at = $5
		WHERE server_id = $6 AND status = $7
		RETURNING` + serverColumns
	rows, err := r.Pool.Query(ctx, query,
		string(t.To),
		t.TransitionDueAt,
		t.LastStarted,
		t.LastStopped,
		t.At,
		t.ServerID,
		string(t.From),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to transition server status: %w", err)
	}
	defer rows.Close()

	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Server])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("server %s is no longer %s: %w", t.ServerID, t.From, apperrors.ErrConflict)
		}
		return nil, fmt.Errorf("failed to read transitioned server: %w", err)
	}
	server := mapping.ToDomainServer(m)
	return &server, nil
}

func (r *PgxServerRepository) DeleteServer(ctx context.Context, ownerID, serverID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM servers WHERE server_id = $1 AND owner_id = $2;`, serverID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete server: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
