package services

import (
	"context"

	"github.com/SscSPs/auradeploy/internal/core/domain"
)

// PlanSvcFacade exposes the hosting plan catalog.
type PlanSvcFacade interface {
	ListPlans(ctx context.Context) []domain.Plan
	GetPlan(ctx context.Context, planID string) (*domain.Plan, error)
}
