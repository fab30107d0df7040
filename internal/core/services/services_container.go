package services

import (
	"github.com/SscSPs/auradeploy/internal/core/ports"
	portsrepo "github.com/SscSPs/auradeploy/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/auradeploy/internal/core/ports/services"
	"github.com/SscSPs/auradeploy/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	upstream portssvc.UpstreamSvcFacade,
	publisher ports.ServerEventPublisher,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo)
	container.Server = NewServerService(
		repos.ServerRepo,
		WithTransitionDelays(cfg.ServerStartDelay, cfg.ServerStopDelay),
		WithEventPublisher(publisher),
	)
	container.Plan = NewPlanService()
	container.Upstream = upstream

	container.TokenService = NewTokenService(cfg)
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container
}
