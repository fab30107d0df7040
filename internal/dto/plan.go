package dto

import (
	"github.com/SscSPs/auradeploy/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListPlansParams defines query parameters for the plans catalog.
type ListPlansParams struct {
	Billing string `form:"billing" binding:"omitempty,oneof=monthly yearly"`
}

// PlanResponse is a plan priced for the requested billing cycle.
type PlanResponse struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	RAM           string              `json:"ram"`
	CPU           string              `json:"cpu"`
	MaxPlayers    int                 `json:"maxPlayers"`
	Unlimited     bool                `json:"unlimitedPlayers"`
	Billing       domain.BillingCycle `json:"billing"`
	Price         decimal.Decimal     `json:"price"`
	MonthlyPrice  decimal.Decimal     `json:"monthlyPrice"`
	YearlyPrice   decimal.Decimal     `json:"yearlyPrice"`
	YearlySavings decimal.Decimal     `json:"yearlySavings"`
	Features      []string            `json:"features"`
	Popular       bool                `json:"popular"`
}

// ToPlanResponse prices a plan for the billing cycle.
func ToPlanResponse(p domain.Plan, cycle domain.BillingCycle) PlanResponse {
	return PlanResponse{
		ID:            p.PlanID,
		Name:          p.Name,
		RAM:           p.RAM,
		CPU:           p.CPU,
		MaxPlayers:    p.MaxPlayers,
		Unlimited:     p.MaxPlayers == 0,
		Billing:       cycle,
		Price:         p.PriceFor(cycle),
		MonthlyPrice:  p.MonthlyPrice,
		YearlyPrice:   p.YearlyPrice,
		YearlySavings: p.YearlySavings(),
		Features:      p.Features,
		Popular:       p.Popular,
	}
}

// PlanListResponse wraps the catalog.
type PlanListResponse struct {
	Plans []PlanResponse `json:"plans"`
}
