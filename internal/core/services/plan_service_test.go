package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/auradeploy/internal/apperrors"
	"github.com/SscSPs/auradeploy/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanService_Catalog(t *testing.T) {
	svc := services.NewPlanService()
	plans := svc.ListPlans(context.Background())

	require.Len(t, plans, 3)
	assert.Equal(t, []string{"free", "standard", "pro"}, []string{plans[0].PlanID, plans[1].PlanID, plans[2].PlanID})
	assert.True(t, plans[0].IsFree())
	assert.True(t, plans[1].Popular)
	assert.Equal(t, "90", plans[1].YearlyPrice.String())
	assert.Equal(t, 0, plans[2].MaxPlayers)

	// Callers get a copy of the catalog.
	plans[0].Name = "changed"
	assert.Equal(t, "Free", svc.ListPlans(context.Background())[0].Name)
}

func TestPlanService_GetPlan(t *testing.T) {
	svc := services.NewPlanService()

	pro, err := svc.GetPlan(context.Background(), "pro")
	require.NoError(t, err)
	assert.Equal(t, "19", pro.MonthlyPrice.String())

	_, err = svc.GetPlan(context.Background(), "enterprise")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
