package entities

import (
	"time"

	"github.com/google/uuid"
)

// MemberRole is the role of a user inside an account
type MemberRole string

const (
	MemberRoleManager MemberRole = "manager"
	MemberRoleRep     MemberRole = "rep"
)

// Account owns analyses, settings and coaching history
type Account struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Account) TableName() string {
	return "accounts"
}

// AccountMember links an identity-provider user to an account
type AccountMember struct {
	AccountID   uuid.UUID  `json:"account_id" gorm:"type:uuid;not null;index"`
	UserID      uuid.UUID  `json:"user_id" gorm:"type:uuid;primary_key"`
	Email       string     `json:"email" gorm:"type:varchar(255);not null;index"`
	DisplayName string     `json:"display_name" gorm:"type:varchar(255)"`
	Role        MemberRole `json:"role" gorm:"type:varchar(20);not null;default:'rep'"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (AccountMember) TableName() string {
	return "account_members"
}

// FirstName returns the display name, or a neutral label when none is set
func (m *AccountMember) FirstName() string {
	if m == nil || m.DisplayName == "" {
		return "Team Member"
	}
	return m.DisplayName
}

// ReferenceScript is the rep's own talk track used as a scoring reference
type ReferenceScript struct {
	Opening             string `json:"opening,omitempty"`
	ValueProp           string `json:"value_prop,omitempty"`
	CTA                 string `json:"cta,omitempty"`
	BusinessDescription string `json:"business_description,omitempty"`
}

// IsEmpty reports whether no script line was provided
func (s *ReferenceScript) IsEmpty() bool {
	return s == nil || (s.Opening == "" && s.ValueProp == "" && s.CTA == "" && s.BusinessDescription == "")
}

// FirefliesSettings is the per-account integration configuration.
// The ingestion pipeline only ever writes LastSyncAt.
type FirefliesSettings struct {
	AccountID          uuid.UUID        `json:"account_id" gorm:"type:uuid;primary_key"`
	APIKey             string           `json:"-" gorm:"column:api_key;type:text;not null"`
	Methodology        string           `json:"methodology" gorm:"type:varchar(50)"`
	MinDurationMinutes int              `json:"min_duration_minutes" gorm:"default:0"`
	ReferenceScript    *ReferenceScript `json:"reference_script,omitempty" gorm:"type:jsonb;serializer:json"`
	LastSyncAt         *time.Time       `json:"last_sync_at,omitempty"`
	CreatedAt          time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt          time.Time        `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (FirefliesSettings) TableName() string {
	return "fireflies_settings"
}

// Configured reports whether a sync can run with these settings
func (s *FirefliesSettings) Configured() bool {
	return s != nil && s.APIKey != ""
}
