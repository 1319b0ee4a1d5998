package gtfsmanager

import (
	"github.com/hfxtransit/otpmon/business/data/gtfs"
	"github.com/jmoiron/sqlx"
)

// routeRowReader implements gtfsRowReader interface for gtfs.Route
type routeRowReader struct {
	routes []gtfs.Route
}

func (r *routeRowReader) addRow(parser *gtfsFileParser) error {
	route, err := buildRoute(parser)
	if err != nil {
		return err
	}
	r.routes = append(r.routes, *route)
	return nil
}

func (r *routeRowReader) record(tx *sqlx.Tx) error {
	return gtfs.ReplaceRoutes(tx, r.routes)
}

func buildRoute(parser *gtfsFileParser) (*gtfs.Route, error) {
	route := gtfs.Route{
		RouteId:        parser.getString("route_id", false),
		RouteShortName: parser.getStringPointer("route_short_name", true),
		RouteLongName:  parser.getStringPointer("route_long_name", true),
		RouteType:      parser.getIntPointer("route_type", true),
	}
	return &route, parser.getError()
}
