package manage_pricing

import (
	"github.com/m04kA/GardenBookingService/internal/service/pricing/models"
)

// UpdateOverrideRequest HTTP request model
type UpdateOverrideRequest struct {
	MinimumCallOutPence *int64 `json:"minimumCallOutPence" validate:"required,gte=0,lte=500000"`
	UpdatedBy           string `json:"updatedBy,omitempty" validate:"omitempty,max=100"`
}

func (r *UpdateOverrideRequest) ToServiceRequest() *models.UpsertOverrideRequest {
	return &models.UpsertOverrideRequest{
		MinimumCallOutPence: *r.MinimumCallOutPence,
		UpdatedBy:           r.UpdatedBy,
	}
}
