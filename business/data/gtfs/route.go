// Package gtfs provides the static reference entities joined to fact rows for
// presentation: routes, stops, trips and service calendars. The core pipeline
// never depends on their freshness beyond referential lookup.
package gtfs

import (
	"github.com/jmoiron/sqlx"
)

// Route is a reference row from routes.txt
type Route struct {
	RouteId        string  `db:"route_id" json:"route_id"`
	RouteShortName *string `db:"route_short_name" json:"route_short_name"`
	RouteLongName  *string `db:"route_long_name" json:"route_long_name"`
	RouteType      *int    `db:"route_type" json:"route_type"`
}

// ReplaceRoutes removes all existing route rows and records routes in their place
func ReplaceRoutes(tx *sqlx.Tx, routes []Route) error {
	if _, err := tx.Exec("delete from route"); err != nil {
		return err
	}
	statementString := "insert into route " +
		"(route_id, " +
		"route_short_name, " +
		"route_long_name, " +
		"route_type) " +
		"values " +
		"(:route_id, " +
		":route_short_name, " +
		":route_long_name, " +
		":route_type)"
	statementString = tx.Rebind(statementString)
	for i := range routes {
		if _, err := tx.NamedExec(statementString, routes[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetRoutes retrieves all reference routes ordered for display
func GetRoutes(db *sqlx.DB) ([]Route, error) {
	query := "select route_id, route_short_name, route_long_name, route_type " +
		"from route order by route_short_name, route_id"
	var results []Route
	err := db.Select(&results, query)
	return results, err
}
