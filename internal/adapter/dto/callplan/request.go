package callplan

import "github.com/johnquangdev/sales-coach/internal/domain/entities"

// PlanRequest describes an upcoming call. Methodology defaults to meddic.
type PlanRequest struct {
	CallDescription string                         `json:"callDescription" validate:"required,max=10000"`
	Methodology     string                         `json:"methodology" validate:"omitempty,max=50"`
	ICP             *entities.IdealCustomerProfile `json:"icp,omitempty"`
	Scripts         *entities.ReferenceScript      `json:"scripts,omitempty"`
}
