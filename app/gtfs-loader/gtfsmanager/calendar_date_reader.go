package gtfsmanager

import (
	"github.com/hfxtransit/otpmon/business/data/gtfs"
	"github.com/jmoiron/sqlx"
)

// calendarDateRowReader implements gtfsRowReader interface for gtfs.CalendarDate
type calendarDateRowReader struct {
	calendarDates []gtfs.CalendarDate
}

func (r *calendarDateRowReader) addRow(parser *gtfsFileParser) error {
	calendarDate, err := buildCalendarDate(parser)
	if err != nil {
		return err
	}
	r.calendarDates = append(r.calendarDates, *calendarDate)
	return nil
}

func (r *calendarDateRowReader) record(tx *sqlx.Tx) error {
	return gtfs.ReplaceCalendarDates(tx, r.calendarDates)
}

func buildCalendarDate(parser *gtfsFileParser) (*gtfs.CalendarDate, error) {
	calendarDate := gtfs.CalendarDate{
		ServiceId:     parser.getString("service_id", false),
		Date:          parser.getGTFSDate("date", false),
		ExceptionType: parser.getIntPointer("exception_type", true),
	}
	return &calendarDate, parser.getError()
}
