package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// GoalStatusActive marks a goal the member is currently working toward
const GoalStatusActive = "active"

// DailyActivity is one day of rep activity counters
type DailyActivity struct {
	ID               uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	AccountID        uuid.UUID      `json:"account_id" gorm:"type:uuid;not null;index"`
	UserID           uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index"`
	Date             datatypes.Date `json:"date" gorm:"not null"`
	CallsMade        int            `json:"calls_made" gorm:"default:0"`
	EmailsSent       int            `json:"emails_sent" gorm:"default:0"`
	MeetingsBooked   int            `json:"meetings_booked" gorm:"default:0"`
	MethodologyScore float64        `json:"methodology_score" gorm:"default:0"`
}

// TableName specifies the table name for GORM
func (DailyActivity) TableName() string {
	return "daily_activities"
}

// Goal is a target a rep has been set
type Goal struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID      uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	GoalType    string    `json:"goal_type" gorm:"type:varchar(100);not null"`
	TargetValue float64   `json:"target_value"`
	Status      string    `json:"status" gorm:"type:varchar(20);not null;default:'active'"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Goal) TableName() string {
	return "user_goals"
}

// ActivityAverages are rounded per-day means over a trailing window
type ActivityAverages struct {
	Days        int `json:"days"`
	Calls       int `json:"calls"`
	Emails      int `json:"emails"`
	Meetings    int `json:"meetings"`
	Methodology int `json:"methodology"`
}

// CoachingSummary is one manager-to-rep coaching message. History is
// append-only: every generation inserts a new row.
type CoachingSummary struct {
	ID                 uuid.UUID        `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	AccountID          uuid.UUID        `json:"account_id" gorm:"type:uuid;not null;index"`
	ManagerID          uuid.UUID        `json:"manager_id" gorm:"type:uuid;not null;index"`
	TeamMemberID       uuid.UUID        `json:"team_member_id" gorm:"type:uuid;not null;index"`
	PerformanceSummary string           `json:"performance_summary" gorm:"column:performance_vs_average;type:text"`
	Strengths          []string         `json:"strengths" gorm:"type:jsonb;serializer:json"`
	AreasOfImprovement []string         `json:"areas_of_improvement" gorm:"type:jsonb;serializer:json"`
	Omissions          []string         `json:"omissions" gorm:"type:jsonb;serializer:json"`
	Recommendations    []string         `json:"recommendations" gorm:"type:jsonb;serializer:json"`
	SuggestedGoals     []string         `json:"suggested_goals" gorm:"column:goals_set;type:jsonb;serializer:json"`
	FullMessage        string           `json:"full_message" gorm:"type:text"`
	MemberAverages     ActivityAverages `json:"member_averages" gorm:"type:jsonb;serializer:json"`
	TeamAverages       ActivityAverages `json:"team_averages" gorm:"type:jsonb;serializer:json"`
	RawResponse        datatypes.JSON   `json:"-" gorm:"type:jsonb"`
	CreatedAt          time.Time        `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (CoachingSummary) TableName() string {
	return "manager_feedback"
}
