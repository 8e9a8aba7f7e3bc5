package holidays

import (
	"time"

	cal "github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/gb"
)

// UKCalendar England & Wales bank holidays the business closes on
type UKCalendar struct {
	cal *cal.BusinessCalendar
}

// NewUKCalendar builds the bank holiday calendar once at startup
func NewUKCalendar() *UKCalendar {
	c := cal.NewBusinessCalendar()
	c.AddHoliday(
		gb.NewYear,
		gb.GoodFriday,
		gb.EasterMonday,
		gb.EarlyMay,
		gb.SpringHoliday,
		gb.SummerHoliday,
		gb.ChristmasDay,
		gb.BoxingDay,
	)
	return &UKCalendar{cal: c}
}

// IsHoliday reports whether date is a bank holiday (actual or observed)
func (u *UKCalendar) IsHoliday(date time.Time) bool {
	actual, observed, _ := u.cal.IsHoliday(date)
	return actual || observed
}
