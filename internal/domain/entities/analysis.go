package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// CallType is the classified purpose of a sales call
type CallType string

const (
	CallTypeDiscovery CallType = "discovery"
	CallTypeDemo      CallType = "demo"
	CallTypeClosing   CallType = "closing"
	CallTypeFollowup  CallType = "followup"
)

// AnalysisFlags are the yes/no observations extracted from a call
type AnalysisFlags struct {
	PainIdentified           bool `json:"pain_identified"`
	BudgetDiscussed          bool `json:"budget_discussed"`
	DecisionMakersIdentified bool `json:"decision_makers_identified"`
	UpfrontContractSet       bool `json:"upfront_contract_set"`
	NegativeReverseUsed      bool `json:"negative_reverse_used"`
}

// ConversationAnalysis is the scored artifact for one call. Rows are
// append-only; a correction is a new row.
type ConversationAnalysis struct {
	ID                uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	AccountID         uuid.UUID `json:"account_id" gorm:"type:uuid;not null;index"`
	ExternalID        string    `json:"external_id" gorm:"type:varchar(255);not null;index"`
	Source            string    `json:"source" gorm:"type:varchar(50);not null"`
	Methodology       string    `json:"methodology" gorm:"type:varchar(50);not null"`
	ConversationTitle string    `json:"conversation_title" gorm:"type:text"`
	ConversationType  CallType  `json:"conversation_type" gorm:"type:varchar(20);not null"`
	ConversationDate  time.Time `json:"conversation_date" gorm:"type:date"`
	DurationMinutes   int       `json:"duration_minutes"`
	Language          string    `json:"language,omitempty" gorm:"type:varchar(10)"`

	OverallScore   float64            `json:"overall_score"`
	Scores         map[string]float64 `json:"scores" gorm:"type:jsonb;serializer:json"`
	TalkPercentage *float64           `json:"talk_percentage,omitempty"`
	QuestionCount  int                `json:"question_count"`

	AnalysisFlags `gorm:"embedded"`

	WhatWentWell    []string       `json:"what_went_well" gorm:"type:jsonb;serializer:json"`
	AreasToImprove  []string       `json:"areas_to_improve" gorm:"type:jsonb;serializer:json"`
	Omissions       []string       `json:"omissions" gorm:"type:jsonb;serializer:json"`
	Recommendations []string       `json:"recommendations" gorm:"type:jsonb;serializer:json"`
	Transcript      string         `json:"transcript" gorm:"type:text"`
	RawResponse     datatypes.JSON `json:"raw_response" gorm:"type:jsonb"`
	CreatedAt       time.Time      `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (ConversationAnalysis) TableName() string {
	return "conversation_analyses"
}

// SyncRecord is the dedup marker for one (account, external transcript id)
// pair. It is written in the same transaction as its analysis and never updated.
type SyncRecord struct {
	ID              uuid.UUID     `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	AccountID       uuid.UUID     `json:"account_id" gorm:"type:uuid;not null;uniqueIndex:idx_sync_records_account_external"`
	ExternalID      string        `json:"external_id" gorm:"type:varchar(255);not null;uniqueIndex:idx_sync_records_account_external"`
	Source          string        `json:"source" gorm:"type:varchar(50);not null"`
	MeetingTitle    string        `json:"meeting_title" gorm:"type:text"`
	MeetingDate     time.Time     `json:"meeting_date"`
	DurationMinutes int           `json:"duration_minutes"`
	Participants    []Participant `json:"participants" gorm:"type:jsonb;serializer:json"`
	AnalysisID      uuid.UUID     `json:"analysis_id" gorm:"type:uuid;not null"`
	ProcessedAt     time.Time     `json:"processed_at" gorm:"not null"`
}

// TableName specifies the table name for GORM
func (SyncRecord) TableName() string {
	return "sync_records"
}

// NewSyncRecord builds the dedup marker for an analysis of t
func NewSyncRecord(accountID uuid.UUID, t *Transcript, analysisID uuid.UUID, at time.Time) *SyncRecord {
	participants := t.Participants
	if participants == nil {
		participants = []Participant{}
	}
	return &SyncRecord{
		ID:              uuid.New(),
		AccountID:       accountID,
		ExternalID:      t.ExternalID,
		Source:          t.Source,
		MeetingTitle:    t.Title,
		MeetingDate:     t.Date,
		DurationMinutes: t.DurationMinutes(),
		Participants:    participants,
		AnalysisID:      analysisID,
		ProcessedAt:     at,
	}
}

// SyncFailure describes one transcript that could not be processed in a batch
type SyncFailure struct {
	ExternalID string `json:"external_id"`
	Reason     string `json:"reason"`
}

// SyncSummary reports the outcome of one pull sync
type SyncSummary struct {
	TotalAvailable int           `json:"total_available"`
	AlreadySynced  int           `json:"already_synced"`
	NewTranscripts int           `json:"new_transcripts"`
	SyncedCount    int           `json:"synced_count"`
	AnalyzedCount  int           `json:"analyzed_count"`
	SkippedShort   int           `json:"skipped_short"`
	FailedCount    int           `json:"failed_count"`
	Failures       []SyncFailure `json:"failures"`
}
