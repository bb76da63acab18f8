package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/sales-coach/errors"
	dto "github.com/johnquangdev/sales-coach/internal/adapter/dto/coaching"
	"github.com/johnquangdev/sales-coach/internal/usecase/coaching"
)

// Coaching handles manager coaching messages
type Coaching struct {
	svc    coaching.Service
	logger *zap.Logger
}

func NewCoaching(svc coaching.Service, logger *zap.Logger) *Coaching {
	return &Coaching{svc: svc, logger: logger}
}

// Generate creates a coaching message from the last 30 days of activity
// @Summary      Generate coaching
// @Tags         Coaching
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      coaching.GenerateRequest  true  "Team member"
// @Success      200      {object}  entities.CoachingSummary
// @Failure      403      {object}  map[string]interface{}  "Members belong to different accounts"
// @Failure      404      {object}  map[string]interface{}  "No activity data"
// @Router       /coaching [post]
func (h *Coaching) Generate(c echo.Context) error {
	_, userID, err := currentAccount(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req dto.GenerateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}
	if req.ManagerID != nil && *req.ManagerID != userID {
		return HandleError(h.logger, c, errors.ErrPermissionDenied("coaching on behalf of another manager"))
	}

	summary, err := h.svc.GenerateCoaching(c.Request().Context(), req.TeamMemberID, userID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, summary)
}

// History lists the caller's coaching messages for a team member, newest first
// @Summary      Coaching history
// @Tags         Coaching
// @Produce      json
// @Security     BearerAuth
// @Param        memberId  path      string  true   "Team member ID (UUID)"
// @Param        limit     query     int     false  "Max rows (default 20, max 100)"
// @Success      200       {array}   entities.CoachingSummary
// @Router       /coaching/{memberId}/history [get]
func (h *Coaching) History(c echo.Context) error {
	_, userID, err := currentAccount(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	memberID, err := pathUUID(c, "memberId")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	history, err := h.svc.ListHistory(c.Request().Context(), userID, memberID, limit)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, history)
}
