package pgsql

import (
	portsrepo "github.com/SscSPs/auradeploy/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:   newPgxUserRepository(dbPool),
		ServerRepo: newPgxServerRepository(dbPool),
	}
}
