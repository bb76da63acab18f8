package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	dto "github.com/johnquangdev/sales-coach/internal/adapter/dto/analysis"
	"github.com/johnquangdev/sales-coach/internal/adapter/presenter"
	"github.com/johnquangdev/sales-coach/internal/domain/entities"
	"github.com/johnquangdev/sales-coach/internal/domain/repositories"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	transcriptLink  = 15 * time.Minute
)

// TranscriptLinker presigns archived transcript links
type TranscriptLinker interface {
	TranscriptURL(ctx context.Context, analysis *entities.ConversationAnalysis, expiry time.Duration) (string, error)
}

// Analysis serves stored analyses of the caller's account
type Analysis struct {
	repo   repositories.AnalysisRepository
	links  TranscriptLinker
	logger *zap.Logger
}

// NewAnalysis creates the handler. links may be nil when archiving is off.
func NewAnalysis(repo repositories.AnalysisRepository, links TranscriptLinker, logger *zap.Logger) *Analysis {
	return &Analysis{repo: repo, links: links, logger: logger}
}

// List pages the account's analyses
// @Summary      List analyses
// @Tags         Analyses
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query     int  false  "Page size (default 20, max 100)"
// @Param        offset  query     int  false  "Rows to skip"
// @Success      200     {object}  analysis.AnalysisListResponse
// @Router       /analyses [get]
func (h *Analysis) List(c echo.Context) error {
	accountID, _, err := currentAccount(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	limit, err := queryInt(c, "limit", defaultPageSize)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	switch {
	case limit == 0:
		limit = defaultPageSize
	case limit > maxPageSize:
		limit = maxPageSize
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	rows, total, err := h.repo.ListByAccount(c.Request().Context(), accountID, limit, offset)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, presenter.ToAnalysisListResponse(rows, total, limit, offset))
}

// Get returns one analysis with its transcript
// @Summary      Get analysis
// @Tags         Analyses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Analysis ID (UUID)"
// @Success      200  {object}  analysis.AnalysisResponse
// @Failure      404  {object}  map[string]interface{}  "Analysis not found"
// @Router       /analyses/{id} [get]
func (h *Analysis) Get(c echo.Context) error {
	accountID, _, err := currentAccount(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	ctx := c.Request().Context()
	a, err := h.repo.GetByID(ctx, accountID, id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if a == nil {
		return HandleError(h.logger, c, fmt.Errorf("%w: analysis %s", entities.ErrNotFound, id))
	}

	resp := dto.AnalysisResponse{ConversationAnalysis: a}
	if h.links != nil {
		url, err := h.links.TranscriptURL(ctx, a, transcriptLink)
		if err != nil {
			if h.logger != nil {
				h.logger.Warn("Failed to presign transcript link", zap.String("analysis_id", id.String()), zap.Error(err))
			}
		} else {
			resp.TranscriptURL = url
		}
	}
	return HandleSuccess(h.logger, c, resp)
}
