package gtfs

import (
	"github.com/jmoiron/sqlx"
)

// Stop is a reference row from stops.txt
type Stop struct {
	StopId   string   `db:"stop_id" json:"stop_id"`
	StopName *string  `db:"stop_name" json:"stop_name"`
	StopLat  *float64 `db:"stop_lat" json:"stop_lat"`
	StopLon  *float64 `db:"stop_lon" json:"stop_lon"`
}

// ReplaceStops removes all existing stop rows and records stops in their place
func ReplaceStops(tx *sqlx.Tx, stops []Stop) error {
	if _, err := tx.Exec("delete from stop"); err != nil {
		return err
	}
	statementString := "insert into stop " +
		"(stop_id, " +
		"stop_name, " +
		"stop_lat, " +
		"stop_lon) " +
		"values " +
		"(:stop_id, " +
		":stop_name, " +
		":stop_lat, " +
		":stop_lon)"
	statementString = tx.Rebind(statementString)
	for i := range stops {
		if _, err := tx.NamedExec(statementString, stops[i]); err != nil {
			return err
		}
	}
	return nil
}
