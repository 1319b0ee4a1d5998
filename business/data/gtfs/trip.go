package gtfs

import (
	"github.com/jmoiron/sqlx"
)

// Trip is a reference row from trips.txt
type Trip struct {
	TripId       string  `db:"trip_id" json:"trip_id"`
	RouteId      *string `db:"route_id" json:"route_id"`
	ServiceId    *string `db:"service_id" json:"service_id"`
	TripHeadsign *string `db:"trip_headsign" json:"trip_headsign"`
	DirectionId  *int    `db:"direction_id" json:"direction_id"`
}

// ReplaceTrips removes all existing trip rows and records trips in their place
func ReplaceTrips(tx *sqlx.Tx, trips []Trip) error {
	if _, err := tx.Exec("delete from trip"); err != nil {
		return err
	}
	statementString := "insert into trip " +
		"(trip_id, " +
		"route_id, " +
		"service_id, " +
		"trip_headsign, " +
		"direction_id) " +
		"values " +
		"(:trip_id, " +
		":route_id, " +
		":service_id, " +
		":trip_headsign, " +
		":direction_id)"
	statementString = tx.Rebind(statementString)
	for i := range trips {
		if _, err := tx.NamedExec(statementString, trips[i]); err != nil {
			return err
		}
	}
	return nil
}
