package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	dto "github.com/johnquangdev/sales-coach/internal/adapter/dto/callplan"
	"github.com/johnquangdev/sales-coach/internal/usecase/callplan"
)

// DefaultPlanMethodology is used when a plan request names none
const DefaultPlanMethodology = "meddic"

// CallPlan handles pre-call planning
type CallPlan struct {
	svc    callplan.Service
	logger *zap.Logger
}

func NewCallPlan(svc callplan.Service, logger *zap.Logger) *CallPlan {
	return &CallPlan{svc: svc, logger: logger}
}

// Create generates a plan for an upcoming call
// @Summary      Plan a call
// @Tags         Call Plans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      callplan.PlanRequest  true  "Call description"
// @Success      200      {object}  entities.CallPlan
// @Failure      400      {object}  map[string]interface{}  "Missing call description"
// @Failure      502      {object}  map[string]interface{}  "Model unavailable or malformed reply"
// @Router       /call-plans [post]
func (h *CallPlan) Create(c echo.Context) error {
	if _, _, err := currentAccount(c); err != nil {
		return HandleError(h.logger, c, err)
	}

	var req dto.PlanRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	if req.Methodology == "" {
		req.Methodology = DefaultPlanMethodology
	}

	plan, err := h.svc.PlanCall(c.Request().Context(), callplan.Request{
		Description: req.CallDescription,
		Methodology: req.Methodology,
		ICP:         req.ICP,
		Scripts:     req.Scripts,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, plan)
}
