package poller

import (
	"github.com/hfxtransit/otpmon/business/data/otp"
	"time"
)

// parseServiceDate parses a strict 8 digit YYYYMMDD gtfs calendar date token
func parseServiceDate(dateString string) (time.Time, error) {
	const layout = "20060102"
	return time.Parse(layout, dateString)
}

/*
extractObservations walks a decoded feed snapshot and emits zero or more
canonical delay observations.

Gating happens at the finest granularity that keeps rows fully attributed:
a trip missing a route id, or carrying a missing or malformed start date, is
skipped entirely so no partially attributed rows are created, while a stop time
update missing a stop id or stop sequence is dropped on its own without
affecting sibling updates on the same trip.

observedAt is the wall-clock time of the poll, it supplies the hour of day and
day of week buckets. Observations are bucketed by when they were sampled, not
by the predicted event time.

No ordering guarantee is made across the returned slice.
*/
func extractObservations(snapshot *feedSnapshot, observedAt time.Time, thresholds otp.Thresholds) []otp.Observation {
	var observations []otp.Observation

	hourOfDay := observedAt.Hour()
	//time.Weekday runs 0=Sunday, shift to 0=Monday through 6=Sunday
	dayOfWeek := (int(observedAt.Weekday()) + 6) % 7

	for _, update := range snapshot.TripUpdates {
		if update.RouteId == nil || *update.RouteId == "" {
			continue
		}
		if update.StartDate == nil {
			continue
		}
		serviceDate, err := parseServiceDate(*update.StartDate)
		if err != nil {
			//a malformed date invalidates this trip only, not the whole poll
			continue
		}

		vehicleId := resolveVehicleId(&update)

		for _, stop := range update.StopTimeUpdates {
			if stop.StopId == nil || *stop.StopId == "" || stop.StopSequence == nil {
				continue
			}

			observation := otp.Observation{
				ObservedAt:    observedAt,
				TripId:        update.TripId,
				StopId:        *stop.StopId,
				StopSequence:  *stop.StopSequence,
				ServiceDate:   serviceDate,
				RouteId:       *update.RouteId,
				DirectionId:   update.DirectionId,
				VehicleId:     vehicleId,
				FeedTimestamp: snapshot.FeedTimestamp,
				HourOfDay:     hourOfDay,
				DayOfWeek:     dayOfWeek,
			}

			if stop.Arrival != nil {
				observation.ArrivalDelay = stop.Arrival.DelaySeconds
				observation.PredictedArrival = epochTimePointer(stop.Arrival.Time)
			}
			if stop.Departure != nil {
				observation.DepartureDelay = stop.Departure.DelaySeconds
				observation.PredictedDeparture = epochTimePointer(stop.Departure.Time)
			}

			//arrival delay takes precedence for classification, departure delay
			//is only consulted when no arrival delay is present
			delayForClassification := observation.ArrivalDelay
			if delayForClassification == nil {
				delayForClassification = observation.DepartureDelay
			}
			observation.IsOnTime = thresholds.Classify(delayForClassification)

			observations = append(observations, observation)
		}
	}
	return observations
}

// resolveVehicleId prefers the explicit vehicle id, falls back to the display
// label, and leaves the identifier unset when neither is present
func resolveVehicleId(update *tripUpdate) *string {
	if update.VehicleId != nil && *update.VehicleId != "" {
		return update.VehicleId
	}
	if update.VehicleLabel != nil && *update.VehicleLabel != "" {
		return update.VehicleLabel
	}
	return nil
}

func epochTimePointer(epochSeconds *int64) *time.Time {
	if epochSeconds == nil {
		return nil
	}
	result := time.Unix(*epochSeconds, 0)
	return &result
}
