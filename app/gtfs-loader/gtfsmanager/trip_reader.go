package gtfsmanager

import (
	"github.com/hfxtransit/otpmon/business/data/gtfs"
	"github.com/jmoiron/sqlx"
)

// tripRowReader implements gtfsRowReader interface for gtfs.Trip
type tripRowReader struct {
	trips []gtfs.Trip
}

func (r *tripRowReader) addRow(parser *gtfsFileParser) error {
	trip, err := buildTrip(parser)
	if err != nil {
		return err
	}
	r.trips = append(r.trips, *trip)
	return nil
}

func (r *tripRowReader) record(tx *sqlx.Tx) error {
	return gtfs.ReplaceTrips(tx, r.trips)
}

func buildTrip(parser *gtfsFileParser) (*gtfs.Trip, error) {
	trip := gtfs.Trip{
		TripId:       parser.getString("trip_id", false),
		RouteId:      parser.getStringPointer("route_id", false),
		ServiceId:    parser.getStringPointer("service_id", false),
		TripHeadsign: parser.getStringPointer("trip_headsign", true),
		DirectionId:  parser.getIntPointer("direction_id", true),
	}
	return &trip, parser.getError()
}
