package poller

import (
	"bytes"
	"fmt"
	gtfsrtproto "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"
	"log"
	"net/http"
	"time"
)

//tripUpdate contains fields read from one GTFS-RT trip update entity.
//fields that are optional are pointers and will be nil if they were not present in the feed
type tripUpdate struct {
	TripId          string
	RouteId         *string
	StartDate       *string
	DirectionId     *int
	VehicleId       *string
	VehicleLabel    *string
	StopTimeUpdates []stopTimeUpdate
}

//stopTimeUpdate contains the per stop prediction fields of a trip update
type stopTimeUpdate struct {
	StopId       *string
	StopSequence *uint32
	Arrival      *stopTimeEvent
	Departure    *stopTimeEvent
}

//stopTimeEvent holds an optional delay in signed seconds and an optional
//absolute predicted time in epoch seconds, taken verbatim from the feed
type stopTimeEvent struct {
	DelaySeconds *int
	Time         *int64
}

//feedSnapshot is the decoded form of one trip update feed retrieval
type feedSnapshot struct {
	//FeedTimestamp is the generation time the feed reported for itself, nil when absent
	FeedTimestamp *time.Time
	TripUpdates   []tripUpdate
}

//age returns how old the feed claims to be relative to now, zero when the feed
//carried no generation timestamp
func (s *feedSnapshot) age(now time.Time) time.Duration {
	if s.FeedTimestamp == nil {
		return 0
	}
	return now.Sub(*s.FeedTimestamp)
}

// retrieveBytes pulls bytes from url using simple GET request.
// any network or non-2xx status error fails the whole retrieval, a partial or
// error-page payload is never passed downstream
func retrieveBytes(log *log.Logger, client *http.Client, url string) ([]byte, error) {

	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer func() {
		innerErr := resp.Body.Close()
		if innerErr != nil {
			log.Printf("error closing http response body. error: %v\n", innerErr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s from %s", resp.Status, url)
	}

	buf := new(bytes.Buffer)
	_, err = buf.ReadFrom(resp.Body)
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

/*
decodeTripUpdates deserializes gtfs-realtime trip update bytes and loads them into
non-protocol buffer objects. Any changes to the GTFS-realtime protocol or generated
code can be handled here and not elsewhere in the program.
Entities without a trip update payload are skipped, a feed legitimately mixes
update types and only trip updates are modeled.
*/
func decodeTripUpdates(feedBytes []byte) (*feedSnapshot, error) {
	feedMessage := gtfsrtproto.FeedMessage{}
	err := proto.Unmarshal(feedBytes, &feedMessage)
	if err != nil {
		return nil, err
	}

	snapshot := feedSnapshot{}
	if feedMessage.Header != nil && feedMessage.Header.Timestamp != nil {
		feedTime := time.Unix(int64(*feedMessage.Header.Timestamp), 0)
		snapshot.FeedTimestamp = &feedTime
	}

	for _, entity := range feedMessage.Entity {
		if entity.TripUpdate == nil || entity.TripUpdate.Trip == nil {
			continue
		}
		protoUpdate := entity.TripUpdate
		trip := protoUpdate.Trip

		update := tripUpdate{
			TripId:    trip.GetTripId(),
			RouteId:   trip.RouteId,
			StartDate: trip.StartDate,
		}
		if trip.DirectionId != nil {
			directionId := int(*trip.DirectionId)
			update.DirectionId = &directionId
		}
		if protoUpdate.Vehicle != nil {
			update.VehicleId = protoUpdate.Vehicle.Id
			update.VehicleLabel = protoUpdate.Vehicle.Label
		}

		for _, protoStop := range protoUpdate.StopTimeUpdate {
			stop := stopTimeUpdate{
				StopId:       protoStop.StopId,
				StopSequence: protoStop.StopSequence,
				Arrival:      convertStopTimeEvent(protoStop.Arrival),
				Departure:    convertStopTimeEvent(protoStop.Departure),
			}
			update.StopTimeUpdates = append(update.StopTimeUpdates, stop)
		}

		snapshot.TripUpdates = append(snapshot.TripUpdates, update)
	}
	return &snapshot, nil
}

// convertStopTimeEvent converts an optional gtfs-rt StopTimeEvent, preserving
// field presence. A delay of zero seconds is distinct from an absent delay.
func convertStopTimeEvent(event *gtfsrtproto.TripUpdate_StopTimeEvent) *stopTimeEvent {
	if event == nil {
		return nil
	}
	result := stopTimeEvent{
		Time: event.Time,
	}
	if event.Delay != nil {
		delay := int(*event.Delay)
		result.DelaySeconds = &delay
	}
	return &result
}
