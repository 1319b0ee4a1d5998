package gtfsmanager

import (
	"github.com/hfxtransit/otpmon/business/data/gtfs"
	"github.com/jmoiron/sqlx"
)

// stopRowReader implements gtfsRowReader interface for gtfs.Stop
type stopRowReader struct {
	stops []gtfs.Stop
}

func (r *stopRowReader) addRow(parser *gtfsFileParser) error {
	stop, err := buildStop(parser)
	if err != nil {
		return err
	}
	r.stops = append(r.stops, *stop)
	return nil
}

func (r *stopRowReader) record(tx *sqlx.Tx) error {
	return gtfs.ReplaceStops(tx, r.stops)
}

func buildStop(parser *gtfsFileParser) (*gtfs.Stop, error) {
	stop := gtfs.Stop{
		StopId:   parser.getString("stop_id", false),
		StopName: parser.getStringPointer("stop_name", true),
		StopLat:  parser.getFloat64Pointer("stop_lat", true),
		StopLon:  parser.getFloat64Pointer("stop_lon", true),
	}
	return &stop, parser.getError()
}
