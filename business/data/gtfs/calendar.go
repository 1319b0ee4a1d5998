package gtfs

import (
	"github.com/jmoiron/sqlx"
	"time"
)

// Calendar is a reference row from calendar.txt describing the weekly service
// pattern for one service id
type Calendar struct {
	ServiceId string     `db:"service_id" json:"service_id"`
	Monday    bool       `db:"monday" json:"monday"`
	Tuesday   bool       `db:"tuesday" json:"tuesday"`
	Wednesday bool       `db:"wednesday" json:"wednesday"`
	Thursday  bool       `db:"thursday" json:"thursday"`
	Friday    bool       `db:"friday" json:"friday"`
	Saturday  bool       `db:"saturday" json:"saturday"`
	Sunday    bool       `db:"sunday" json:"sunday"`
	StartDate *time.Time `db:"start_date" json:"start_date"`
	EndDate   *time.Time `db:"end_date" json:"end_date"`
}

// CalendarDate is a reference row from calendar_dates.txt, an added or removed
// service exception for one date
type CalendarDate struct {
	ServiceId     string    `db:"service_id" json:"service_id"`
	Date          time.Time `db:"date" json:"date"`
	ExceptionType *int      `db:"exception_type" json:"exception_type"`
}

// ReplaceCalendars removes all existing calendar rows and records calendars in
// their place
func ReplaceCalendars(tx *sqlx.Tx, calendars []Calendar) error {
	if _, err := tx.Exec("delete from gtfs_calendar"); err != nil {
		return err
	}
	statementString := "insert into gtfs_calendar " +
		"(service_id, " +
		"monday, " +
		"tuesday, " +
		"wednesday, " +
		"thursday, " +
		"friday, " +
		"saturday, " +
		"sunday, " +
		"start_date, " +
		"end_date) " +
		"values " +
		"(:service_id, " +
		":monday, " +
		":tuesday, " +
		":wednesday, " +
		":thursday, " +
		":friday, " +
		":saturday, " +
		":sunday, " +
		":start_date, " +
		":end_date)"
	statementString = tx.Rebind(statementString)
	for i := range calendars {
		if _, err := tx.NamedExec(statementString, calendars[i]); err != nil {
			return err
		}
	}
	return nil
}

// ReplaceCalendarDates removes all existing calendar date rows and records
// calendarDates in their place
func ReplaceCalendarDates(tx *sqlx.Tx, calendarDates []CalendarDate) error {
	if _, err := tx.Exec("delete from gtfs_calendar_date"); err != nil {
		return err
	}
	statementString := "insert into gtfs_calendar_date " +
		"(service_id, " +
		"date, " +
		"exception_type) " +
		"values " +
		"(:service_id, " +
		":date, " +
		":exception_type)"
	statementString = tx.Rebind(statementString)
	for i := range calendarDates {
		if _, err := tx.NamedExec(statementString, calendarDates[i]); err != nil {
			return err
		}
	}
	return nil
}
