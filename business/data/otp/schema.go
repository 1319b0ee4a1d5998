package otp

import (
	"github.com/jmoiron/sqlx"
)

// CreateTables creates the fact, summary and poll log tables and their indexes
// if they do not already exist.
func CreateTables(db *sqlx.DB) error {
	statements := []string{
		"create table if not exists stop_delay_event (" +
			"observed_at timestamptz not null, " +
			"trip_id text not null, " +
			"stop_id text not null, " +
			"stop_sequence integer not null, " +
			"service_date date not null, " +
			"route_id text not null, " +
			"direction_id smallint, " +
			"vehicle_id text, " +
			"arrival_delay integer, " +
			"departure_delay integer, " +
			"predicted_arrival timestamptz, " +
			"predicted_departure timestamptz, " +
			"feed_timestamp timestamptz, " +
			"hour_of_day smallint not null, " +
			"day_of_week smallint not null, " +
			"is_on_time boolean, " +
			"primary key (trip_id, stop_id, stop_sequence, service_date))",
		"create index if not exists idx_delay_route_date on stop_delay_event (route_id, service_date)",
		"create index if not exists idx_delay_stop_date on stop_delay_event (stop_id, service_date)",
		"create index if not exists idx_delay_hour on stop_delay_event (route_id, hour_of_day)",
		"create table if not exists daily_route_summary (" +
			"service_date date not null, " +
			"route_id text not null, " +
			"total_observations integer not null, " +
			"on_time_count integer not null, " +
			"early_count integer not null, " +
			"late_count integer not null, " +
			"avg_delay_seconds double precision, " +
			"median_delay_seconds double precision, " +
			"p95_delay_seconds double precision, " +
			"max_delay_seconds integer, " +
			"min_delay_seconds integer, " +
			"on_time_percentage double precision not null, " +
			"unique_trips integer, " +
			"unique_vehicles integer, " +
			"unique_stops integer, " +
			"is_holiday boolean not null default false, " +
			"primary key (service_date, route_id))",
		"create table if not exists hourly_route_summary (" +
			"service_date date not null, " +
			"route_id text not null, " +
			"hour_of_day smallint not null, " +
			"total_observations integer not null, " +
			"on_time_count integer not null, " +
			"avg_delay_seconds double precision, " +
			"on_time_percentage double precision not null, " +
			"primary key (service_date, route_id, hour_of_day))",
		"create table if not exists poll_log (" +
			"poll_id bigserial primary key, " +
			"polled_at timestamptz not null, " +
			"trip_update_count integer, " +
			"fetch_duration_ms integer, " +
			"process_duration_ms integer, " +
			"error_message text, " +
			"feed_timestamp timestamptz)",
	}
	for _, statement := range statements {
		if _, err := db.Exec(statement); err != nil {
			return err
		}
	}
	return nil
}
