package presenter

import (
	"time"

	"github.com/johnquangdev/sales-coach/internal/adapter/dto/analysis"
	"github.com/johnquangdev/sales-coach/internal/adapter/dto/common"
	"github.com/johnquangdev/sales-coach/internal/domain/entities"
)

// ToAnalysisListItem converts an analysis to its list row
func ToAnalysisListItem(a *entities.ConversationAnalysis) analysis.AnalysisListItem {
	item := analysis.AnalysisListItem{
		ID:                a.ID.String(),
		ExternalID:        a.ExternalID,
		Methodology:       a.Methodology,
		ConversationTitle: a.ConversationTitle,
		ConversationType:  a.ConversationType,
		DurationMinutes:   a.DurationMinutes,
		OverallScore:      a.OverallScore,
		Scores:            a.Scores,
	}
	if !a.ConversationDate.IsZero() {
		item.ConversationDate = a.ConversationDate.Format(time.DateOnly)
	}
	return item
}

// ToAnalysisListResponse converts a page of analyses
func ToAnalysisListResponse(rows []*entities.ConversationAnalysis, total int64, limit, offset int) *analysis.AnalysisListResponse {
	items := make([]analysis.AnalysisListItem, len(rows))
	for i, a := range rows {
		items[i] = ToAnalysisListItem(a)
	}
	return &analysis.AnalysisListResponse{
		Items:      items,
		Pagination: common.NewPagination(limit, offset, total),
	}
}
