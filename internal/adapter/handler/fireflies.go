package handler

import (
	stdErrors "errors"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/sales-coach/internal/adapter/dto/fireflies"
	"github.com/johnquangdev/sales-coach/internal/domain/entities"
	"github.com/johnquangdev/sales-coach/internal/usecase/ingest"
)

// Fireflies handles the pull-sync endpoint
type Fireflies struct {
	ingest ingest.Service
	logger *zap.Logger
}

// NewFireflies creates a new Fireflies handler
func NewFireflies(svc ingest.Service, logger *zap.Logger) *Fireflies {
	return &Fireflies{ingest: svc, logger: logger}
}

// Sync runs a pull sync or checks the stored API key
// @Summary      Sync Fireflies transcripts
// @Description  action=sync analyzes new transcripts; action=test verifies the stored API key
// @Tags         Fireflies
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      fireflies.SyncRequest  true  "Sync action"
// @Success      200      {object}  entities.SyncSummary
// @Failure      401      {object}  map[string]interface{}  "Fireflies rejected the API key"
// @Failure      412      {object}  map[string]interface{}  "Fireflies not configured"
// @Failure      502      {object}  map[string]interface{}  "Fireflies unavailable"
// @Router       /fireflies/sync [post]
func (h *Fireflies) Sync(c echo.Context) error {
	accountID, _, err := currentAccount(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req fireflies.SyncRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	ctx := c.Request().Context()
	if req.Action == fireflies.ActionTest {
		user, err := h.ingest.TestConnection(ctx, accountID)
		switch {
		case err == nil:
			return HandleSuccess(h.logger, c, fireflies.TestConnectionResponse{
				Success: true,
				Message: "Connected to Fireflies",
				Email:   user.Email,
				Name:    user.Name,
			})
		case stdErrors.Is(err, entities.ErrAuth):
			return HandleSuccess(h.logger, c, fireflies.TestConnectionResponse{
				Success: false,
				Message: "Fireflies rejected the API key",
			})
		default:
			return HandleError(h.logger, c, err)
		}
	}

	summary, err := h.ingest.SyncAccount(ctx, accountID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, summary)
}
