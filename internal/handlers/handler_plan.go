package handlers

import (
	"net/http"

	"github.com/SscSPs/auradeploy/internal/core/domain"
	portssvc "github.com/SscSPs/auradeploy/internal/core/ports/services"
	"github.com/SscSPs/auradeploy/internal/dto"
	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	planService portssvc.PlanSvcFacade
}

func NewPlanHandler(ps portssvc.PlanSvcFacade) *PlanHandler {
	return &PlanHandler{planService: ps}
}

func registerPlanRoutes(rg *gin.RouterGroup, planService portssvc.PlanSvcFacade) {
	h := NewPlanHandler(planService)
	rg.GET("/plans", h.ListPlans)
	rg.GET("/plans/:planID", h.GetPlan)
}

func billingCycle(raw string) domain.BillingCycle {
	if raw == string(domain.BillingYearly) {
		return domain.BillingYearly
	}
	return domain.BillingMonthly
}

// ListPlans godoc
// @Summary List hosting plans
// @Tags plans
// @Produce json
// @Param billing query string false "monthly or yearly" Enums(monthly, yearly)
// @Success 200 {object} dto.APIResponse{data=dto.PlanListResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Router /plans [get]
func (h *PlanHandler) ListPlans(c *gin.Context) {
	var params dto.ListPlansParams
	if !bindQuery(c, &params) {
		return
	}
	cycle := billingCycle(params.Billing)

	plans := h.planService.ListPlans(c.Request.Context())
	resp := dto.PlanListResponse{Plans: make([]dto.PlanResponse, len(plans))}
	for i, p := range plans {
		resp.Plans[i] = dto.ToPlanResponse(p, cycle)
	}
	respondOK(c, http.StatusOK, "", resp)
}

// GetPlan godoc
// @Summary Get hosting plan
// @Tags plans
// @Produce json
// @Param planID path string true "Plan ID"
// @Param billing query string false "monthly or yearly" Enums(monthly, yearly)
// @Success 200 {object} dto.APIResponse{data=dto.PlanResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /plans/{planID} [get]
func (h *PlanHandler) GetPlan(c *gin.Context) {
	var params dto.ListPlansParams
	if !bindQuery(c, &params) {
		return
	}

	plan, err := h.planService.GetPlan(c.Request.Context(), c.Param("planID"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "", dto.ToPlanResponse(*plan, billingCycle(params.Billing)))
}
