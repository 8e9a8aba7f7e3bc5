package calculate_quote

import "fmt"

func validateRequest(req *Request) error {
	if req.ServiceKey == "" {
		return fmt.Errorf("%w: service is required", ErrInvalidInput)
	}
	if req.DistanceMiles != nil && *req.DistanceMiles < 0 {
		return fmt.Errorf("%w: distance must not be negative", ErrInvalidInput)
	}
	return nil
}
