package gtfs

import (
	"github.com/jmoiron/sqlx"
)

// CreateReferenceTables creates the static GTFS reference tables if they do not
// already exist.
func CreateReferenceTables(db *sqlx.DB) error {
	statements := []string{
		"create table if not exists route (" +
			"route_id text primary key, " +
			"route_short_name text, " +
			"route_long_name text, " +
			"route_type integer)",
		"create table if not exists stop (" +
			"stop_id text primary key, " +
			"stop_name text, " +
			"stop_lat double precision, " +
			"stop_lon double precision)",
		"create table if not exists trip (" +
			"trip_id text primary key, " +
			"route_id text, " +
			"service_id text, " +
			"trip_headsign text, " +
			"direction_id smallint)",
		"create table if not exists gtfs_calendar (" +
			"service_id text primary key, " +
			"monday boolean, " +
			"tuesday boolean, " +
			"wednesday boolean, " +
			"thursday boolean, " +
			"friday boolean, " +
			"saturday boolean, " +
			"sunday boolean, " +
			"start_date date, " +
			"end_date date)",
		"create table if not exists gtfs_calendar_date (" +
			"service_id text not null, " +
			"date date not null, " +
			"exception_type integer, " +
			"primary key (service_id, date))",
	}
	for _, statement := range statements {
		if _, err := db.Exec(statement); err != nil {
			return err
		}
	}
	return nil
}
