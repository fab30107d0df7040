package memory

import portsrepo "github.com/SscSPs/auradeploy/internal/core/ports/repositories"

func NewRepositoryProvider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:   NewUserRepository(),
		ServerRepo: NewServerRepository(),
	}
}
