package analysis

import (
	"github.com/johnquangdev/sales-coach/internal/adapter/dto/common"
	"github.com/johnquangdev/sales-coach/internal/domain/entities"
)

// AnalysisResponse is one analysis with an optional archive link
type AnalysisResponse struct {
	*entities.ConversationAnalysis
	TranscriptURL string `json:"transcript_url,omitempty"`
}

// AnalysisListItem omits the transcript and raw response
type AnalysisListItem struct {
	ID                string             `json:"id"`
	ExternalID        string             `json:"external_id"`
	Methodology       string             `json:"methodology"`
	ConversationTitle string             `json:"conversation_title"`
	ConversationType  entities.CallType  `json:"conversation_type"`
	ConversationDate  string             `json:"conversation_date"`
	DurationMinutes   int                `json:"duration_minutes"`
	OverallScore      float64            `json:"overall_score"`
	Scores            map[string]float64 `json:"scores"`
}

// AnalysisListResponse is a page of analyses
type AnalysisListResponse struct {
	Items      []AnalysisListItem         `json:"items"`
	Pagination *common.PaginationResponse `json:"pagination"`
}
