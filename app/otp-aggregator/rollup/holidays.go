package rollup

import (
	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/ca"
	"time"
)

//transitHolidayCalendar holds the holidays observed by the transit agency, used
//to stamp daily rollups so holiday service patterns can be separated in analysis
type transitHolidayCalendar struct {
	calendar *cal.BusinessCalendar
}

//makeTransitHolidayCalendar builds transitHolidayCalendar
//TODO:: should be customizable by transit agency rather than being hardcoded as it is now.
func makeTransitHolidayCalendar() *transitHolidayCalendar {
	calendar := cal.NewBusinessCalendar()
	calendar.AddHoliday(
		ca.NewYear,
		ca.GoodFriday,
		ca.CanadaDay,
		ca.LabourDay,
		ca.ThanksgivingDay,
		ca.RemembranceDay,
		ca.ChristmasDay,
		ca.BoxingDay,
	)
	return &transitHolidayCalendar{calendar: calendar}
}

//isHoliday returns true if at is on a holiday observed by the transit agency, currently hard coded
func (t *transitHolidayCalendar) isHoliday(at time.Time) bool {
	_, observed, _ := t.calendar.IsHoliday(at)
	return observed
}
