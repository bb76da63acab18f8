package coaching

import "github.com/google/uuid"

// GenerateRequest asks for a coaching message for one team member.
// ManagerID defaults to the caller and must match it when given.
type GenerateRequest struct {
	TeamMemberID uuid.UUID  `json:"teamMemberId" validate:"required"`
	ManagerID    *uuid.UUID `json:"managerId,omitempty"`
}
