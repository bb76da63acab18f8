package entities

import (
	"time"

	"github.com/google/uuid"
)

// Event names, relative to the configured subject prefix
const (
	EventAnalysisCreated = "analysis.created"
	EventCoachingCreated = "coaching.created"
)

// AnalysisCreatedEvent is published after an analysis commits
type AnalysisCreatedEvent struct {
	AnalysisID   uuid.UUID `json:"analysis_id"`
	AccountID    uuid.UUID `json:"account_id"`
	ExternalID   string    `json:"external_id"`
	Source       string    `json:"source"`
	Methodology  string    `json:"methodology"`
	OverallScore float64   `json:"overall_score"`
	CreatedAt    time.Time `json:"created_at"`
}

// CoachingCreatedEvent is published after a coaching summary is stored
type CoachingCreatedEvent struct {
	SummaryID    uuid.UUID `json:"summary_id"`
	AccountID    uuid.UUID `json:"account_id"`
	ManagerID    uuid.UUID `json:"manager_id"`
	TeamMemberID uuid.UUID `json:"team_member_id"`
	CreatedAt    time.Time `json:"created_at"`
}
