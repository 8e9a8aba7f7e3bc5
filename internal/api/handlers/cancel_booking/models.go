package cancel_booking

import (
	"github.com/m04kA/GardenBookingService/internal/service/bookings/models"
)

// CancelBookingRequest HTTP request model. Email is required unless the
// manager token is present.
type CancelBookingRequest struct {
	Email              string  `json:"email,omitempty" validate:"omitempty,email,max=254"`
	CancellationReason *string `json:"cancellationReason,omitempty" validate:"omitempty,max=500"`
}

// ToServiceRequest converts the HTTP request to the service model
func (r *CancelBookingRequest) ToServiceRequest(manager bool) *models.CancelBookingRequest {
	return &models.CancelBookingRequest{
		Caller: models.Caller{
			Email:   r.Email,
			Manager: manager,
		},
		CancellationReason: r.CancellationReason,
	}
}
