package otp

import (
	"github.com/jmoiron/sqlx"
	"time"
)

// Observation contains one stop level arrival/departure prediction sampled at one
// poll instant. Optional feed fields are pointers and are nil when they were not
// present in the feed.
// primary key consists of TripId, StopId, StopSequence and ServiceDate, a later
// poll carrying the same key replaces the row, so the table always holds the most
// recently observed prediction, not a history of predictions.
type Observation struct {
	//ObservedAt is the wall-clock time of the poll that produced this row
	ObservedAt time.Time `db:"observed_at"`
	TripId     string    `db:"trip_id"`
	StopId     string    `db:"stop_id"`
	//StopSequence is the order of the stop on the trip as reported by the feed
	StopSequence uint32 `db:"stop_sequence"`
	//ServiceDate is the operating day the trip belongs to, parsed from the
	//trip descriptor's YYYYMMDD start date
	ServiceDate time.Time `db:"service_date"`
	RouteId     string    `db:"route_id"`
	DirectionId *int      `db:"direction_id"`
	VehicleId   *string   `db:"vehicle_id"`
	//ArrivalDelay and DepartureDelay are signed seconds, negative when early
	ArrivalDelay   *int `db:"arrival_delay"`
	DepartureDelay *int `db:"departure_delay"`
	//PredictedArrival and PredictedDeparture are absolute times taken verbatim
	//from the feed when present
	PredictedArrival   *time.Time `db:"predicted_arrival"`
	PredictedDeparture *time.Time `db:"predicted_departure"`
	//FeedTimestamp is the generation time the feed reported for itself, nil when
	//the feed carried no header timestamp
	FeedTimestamp *time.Time `db:"feed_timestamp"`
	//HourOfDay and DayOfWeek are derived from ObservedAt. DayOfWeek is 0=Monday through 6=Sunday
	HourOfDay int `db:"hour_of_day"`
	DayOfWeek int `db:"day_of_week"`
	//IsOnTime is nil when the underlying delay is unknown
	IsOnTime *bool `db:"is_on_time"`
}

// RecordObservations upserts observations into the stop_delay_event table.
// Rows sharing a natural key with an existing row replace it.
// Returns the number of rows recorded before any error was encountered.
func RecordObservations(db *sqlx.DB, observations []Observation) (int, error) {
	statementString := "insert into stop_delay_event " +
		"(observed_at, " +
		"trip_id, " +
		"stop_id, " +
		"stop_sequence, " +
		"service_date, " +
		"route_id, " +
		"direction_id, " +
		"vehicle_id, " +
		"arrival_delay, " +
		"departure_delay, " +
		"predicted_arrival, " +
		"predicted_departure, " +
		"feed_timestamp, " +
		"hour_of_day, " +
		"day_of_week, " +
		"is_on_time) " +
		"values " +
		"(:observed_at, " +
		":trip_id, " +
		":stop_id, " +
		":stop_sequence, " +
		":service_date, " +
		":route_id, " +
		":direction_id, " +
		":vehicle_id, " +
		":arrival_delay, " +
		":departure_delay, " +
		":predicted_arrival, " +
		":predicted_departure, " +
		":feed_timestamp, " +
		":hour_of_day, " +
		":day_of_week, " +
		":is_on_time) " +
		"on conflict (trip_id, stop_id, stop_sequence, service_date) do update set " +
		"observed_at = excluded.observed_at, " +
		"route_id = excluded.route_id, " +
		"direction_id = excluded.direction_id, " +
		"vehicle_id = excluded.vehicle_id, " +
		"arrival_delay = excluded.arrival_delay, " +
		"departure_delay = excluded.departure_delay, " +
		"predicted_arrival = excluded.predicted_arrival, " +
		"predicted_departure = excluded.predicted_departure, " +
		"feed_timestamp = excluded.feed_timestamp, " +
		"hour_of_day = excluded.hour_of_day, " +
		"day_of_week = excluded.day_of_week, " +
		"is_on_time = excluded.is_on_time"
	statementString = db.Rebind(statementString)
	for i := range observations {
		_, err := db.NamedExec(statementString, observations[i])
		if err != nil {
			return i, err
		}
	}
	return len(observations), nil
}
