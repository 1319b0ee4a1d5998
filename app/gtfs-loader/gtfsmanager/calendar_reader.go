package gtfsmanager

import (
	"github.com/hfxtransit/otpmon/business/data/gtfs"
	"github.com/jmoiron/sqlx"
)

// calendarRowReader implements gtfsRowReader interface for gtfs.Calendar
type calendarRowReader struct {
	calendars []gtfs.Calendar
}

func (r *calendarRowReader) addRow(parser *gtfsFileParser) error {
	calendar, err := buildCalendar(parser)
	if err != nil {
		return err
	}
	r.calendars = append(r.calendars, *calendar)
	return nil
}

func (r *calendarRowReader) record(tx *sqlx.Tx) error {
	return gtfs.ReplaceCalendars(tx, r.calendars)
}

func buildCalendar(parser *gtfsFileParser) (*gtfs.Calendar, error) {
	calendar := gtfs.Calendar{
		ServiceId: parser.getString("service_id", false),
		Monday:    parser.getInt("monday", false) == 1,
		Tuesday:   parser.getInt("tuesday", false) == 1,
		Wednesday: parser.getInt("wednesday", false) == 1,
		Thursday:  parser.getInt("thursday", false) == 1,
		Friday:    parser.getInt("friday", false) == 1,
		Saturday:  parser.getInt("saturday", false) == 1,
		Sunday:    parser.getInt("sunday", false) == 1,
		StartDate: parser.getGTFSDatePointer("start_date", false),
		EndDate:   parser.getGTFSDatePointer("end_date", false),
	}
	return &calendar, parser.getError()
}
