package get_availability

import (
	"github.com/m04kA/GardenBookingService/internal/domain"
	"github.com/m04kA/GardenBookingService/internal/engine/availability"
	getAvailability "github.com/m04kA/GardenBookingService/internal/usecase/get_availability"
)

// SlotOccupancyResponse entry of the slot map
type SlotOccupancyResponse struct {
	Booked   bool   `json:"booked"`
	IsBuffer bool   `json:"isBuffer"`
	Service  string `json:"service,omitempty"`
}

// DayVerdictResponse day-level verdict
type DayVerdictResponse struct {
	Available         bool   `json:"available"`
	Reason            string `json:"reason,omitempty"`
	Message           string `json:"message"`
	RemainingCapacity int    `json:"remainingCapacity"` // 3 - totalBookings, an approximate hint
	BookableStarts    int    `json:"bookableStarts"`    // exact number of start slots that fit
}

// SlotVerdictResponse verdict of one start slot
type SlotVerdictResponse struct {
	Slot      int    `json:"slot"`
	Label     string `json:"label"`
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
	Message   string `json:"message"`
}

// AvailabilityResponse day state plus verdicts.
// Available and Reason are set only when a valid time was requested.
type AvailabilityResponse struct {
	Date          string                           `json:"date"`
	Service       string                           `json:"service,omitempty"`
	NonWorkingDay bool                             `json:"nonWorkingDay"`
	TimeIgnored   bool                             `json:"timeIgnored,omitempty"`
	FullDayBooked bool                             `json:"fullDayBooked"`
	TotalBookings int                              `json:"totalBookings"`
	Slots         map[string]SlotOccupancyResponse `json:"slots"`
	Day           DayVerdictResponse               `json:"day"`
	SlotVerdicts  []SlotVerdictResponse            `json:"slotVerdicts"`
	RequestedSlot *string                          `json:"requestedSlot,omitempty"`
	Available     *bool                            `json:"available,omitempty"`
	Reason        *string                          `json:"reason,omitempty"`
}

func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	out := &AvailabilityResponse{
		Date:          resp.Date.Format(domain.DateFormat),
		Service:       resp.ServiceKey,
		NonWorkingDay: resp.NonWorkingDay,
		TimeIgnored:   resp.TimeIgnored,
		Slots:         make(map[string]SlotOccupancyResponse, domain.SlotsPerDay),
		Day: DayVerdictResponse{
			Available:         resp.Result.Day.Available,
			Reason:            string(resp.Result.Day.Reason),
			Message:           resp.Result.Day.Reason.Message(),
			RemainingCapacity: resp.Result.Day.RemainingCapacity,
			BookableStarts:    resp.Result.Day.BookableStarts,
		},
		SlotVerdicts: make([]SlotVerdictResponse, 0, len(resp.Result.Slots)),
	}

	if resp.State != nil {
		out.FullDayBooked = resp.State.FullDayBooked
		out.TotalBookings = resp.State.TotalBookings
		for label, s := range resp.State.SlotMap() {
			out.Slots[label] = SlotOccupancyResponse{Booked: s.Booked, IsBuffer: s.IsBuffer, Service: s.Service}
		}
	}

	for _, v := range resp.Result.Slots {
		out.SlotVerdicts = append(out.SlotVerdicts, fromSlotVerdict(v))
	}

	if req := resp.Result.Requested; req != nil {
		label := req.Label
		available := req.Available
		out.RequestedSlot = &label
		out.Available = &available
		if req.Reason != availability.ReasonNone {
			reason := string(req.Reason)
			out.Reason = &reason
		}
	}

	return out
}

func fromSlotVerdict(v availability.SlotVerdict) SlotVerdictResponse {
	return SlotVerdictResponse{
		Slot:      v.Slot,
		Label:     v.Label,
		Available: v.Available,
		Reason:    string(v.Reason),
		Message:   v.Reason.Message(),
	}
}
