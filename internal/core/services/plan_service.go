package services

import (
	"context"

	"github.com/SscSPs/auradeploy/internal/apperrors"
	"github.com/SscSPs/auradeploy/internal/core/domain"
	portssvc "github.com/SscSPs/auradeploy/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

type planService struct {
	plans []domain.Plan
}

// NewPlanService serves the built-in hosting catalog.
func NewPlanService() portssvc.PlanSvcFacade {
	return &planService{plans: defaultPlans()}
}

func defaultPlans() []domain.Plan {
	return []domain.Plan{
		{
			PlanID:       "free",
			Name:         "Free",
			RAM:          "1GB",
			CPU:          "1 vCPU",
			MaxPlayers:   10,
			MonthlyPrice: decimal.Zero,
			YearlyPrice:  decimal.Zero,
			Features:     []string{"1 server", "Community support", "Basic DDoS protection"},
		},
		{
			PlanID:       "standard",
			Name:         "Standard",
			RAM:          "4GB",
			CPU:          "2 vCPU",
			MaxPlayers:   50,
			MonthlyPrice: decimal.NewFromInt(9),
			YearlyPrice:  decimal.NewFromInt(90),
			Features:     []string{"Mod and plugin support", "Daily backups", "Priority support"},
			Popular:      true,
		},
		{
			PlanID:       "pro",
			Name:         "Pro",
			RAM:          "8GB",
			CPU:          "4 vCPU",
			MaxPlayers:   0,
			MonthlyPrice: decimal.NewFromInt(19),
			YearlyPrice:  decimal.NewFromInt(190),
			Features:     []string{"Unlimited players", "Hourly backups", "Dedicated IP", "24/7 support"},
		},
	}
}

func (s *planService) ListPlans(ctx context.Context) []domain.Plan {
	out := make([]domain.Plan, len(s.plans))
	copy(out, s.plans)
	return out
}

func (s *planService) GetPlan(ctx context.Context, planID string) (*domain.Plan, error) {
	for _, p := range s.plans {
		if p.PlanID == planID {
			plan := p
			return &plan, nil
		}
	}
	return nil, apperrors.NewNotFoundError("Plan not found")
}
