package poller

import (
	"github.com/hfxtransit/otpmon/business/data/otp"
	"testing"
	"time"

	"github.com/matryer/is"
)

func stringPtr(value string) *string {
	return &value
}

func intPtr(value int) *int {
	return &value
}

func uint32Ptr(value uint32) *uint32 {
	return &value
}

func testThresholds() otp.Thresholds {
	return otp.Thresholds{
		EarlySeconds: -60,
		LateSeconds:  300,
	}
}

func Test_parseServiceDate(t *testing.T) {
	tests := []struct {
		name       string
		dateString string
		wantErr    bool
		want       time.Time
	}{
		{
			name:       "valid gtfs date",
			dateString: "20260114",
			wantErr:    false,
			want:       time.Date(2026, 1, 14, 0, 0, 0, 0, time.UTC),
		},
		{
			name:       "dashed date rejected",
			dateString: "2026-01-14",
			wantErr:    true,
		},
		{
			name:       "short date rejected",
			dateString: "2026114",
			wantErr:    true,
		},
		{
			name:       "empty date rejected",
			dateString: "",
			wantErr:    true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseServiceDate(tt.dateString)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseServiceDate(%v) produced no error, but we want one", tt.dateString)
				}
				return
			}
			if err != nil {
				t.Errorf("parseServiceDate(%v) error = %v", tt.dateString, err)
				return
			}
			if !got.Equal(tt.want) {
				t.Errorf("parseServiceDate(%v) = %v, want %v", tt.dateString, got, tt.want)
			}
		})
	}
}

func Test_extractObservations_classification(t *testing.T) {
	is := is.New(t)
	//Wednesday afternoon
	observedAt := time.Date(2026, 1, 14, 14, 30, 0, 0, time.UTC)
	snapshot := feedSnapshot{
		TripUpdates: []tripUpdate{
			{
				TripId:    "t1",
				RouteId:   stringPtr("1"),
				StartDate: stringPtr("20260114"),
				StopTimeUpdates: []stopTimeUpdate{
					{
						StopId:       stringPtr("s1"),
						StopSequence: uint32Ptr(5),
						Arrival:      &stopTimeEvent{DelaySeconds: intPtr(120)},
					},
					{
						StopId:       stringPtr("s2"),
						StopSequence: uint32Ptr(6),
						Arrival:      &stopTimeEvent{DelaySeconds: intPtr(400)},
					},
					{
						StopId:       stringPtr("s3"),
						StopSequence: uint32Ptr(7),
					},
				},
			},
		},
	}

	observations := extractObservations(&snapshot, observedAt, testThresholds())
	is.Equal(len(observations), 3)

	is.Equal(observations[0].StopId, "s1")
	is.True(observations[0].IsOnTime != nil)
	is.True(*observations[0].IsOnTime)

	is.Equal(observations[1].StopId, "s2")
	is.True(observations[1].IsOnTime != nil)
	is.True(!*observations[1].IsOnTime)

	//no delay reported at all, classification stays unknown
	is.Equal(observations[2].StopId, "s3")
	is.True(observations[2].IsOnTime == nil)
	is.True(observations[2].ArrivalDelay == nil)

	for _, observation := range observations {
		is.Equal(observation.ServiceDate, time.Date(2026, 1, 14, 0, 0, 0, 0, time.UTC))
		is.Equal(observation.HourOfDay, 14)
		//Wednesday with 0=Monday
		is.Equal(observation.DayOfWeek, 2)
		//the snapshot carried no header timestamp, the rows must not invent one
		is.True(observation.FeedTimestamp == nil)
	}
}

func Test_extractObservations_feedTimestamp(t *testing.T) {
	is := is.New(t)
	observedAt := time.Date(2026, 1, 14, 8, 0, 0, 0, time.UTC)
	feedTime := observedAt.Add(-30 * time.Second)
	snapshot := feedSnapshot{
		FeedTimestamp: &feedTime,
		TripUpdates: []tripUpdate{
			{
				TripId:    "t1",
				RouteId:   stringPtr("1"),
				StartDate: stringPtr("20260114"),
				StopTimeUpdates: []stopTimeUpdate{
					{StopId: stringPtr("s1"), StopSequence: uint32Ptr(1)},
				},
			},
		},
	}

	observations := extractObservations(&snapshot, observedAt, testThresholds())
	is.Equal(len(observations), 1)
	is.True(observations[0].FeedTimestamp != nil)
	is.Equal(*observations[0].FeedTimestamp, feedTime)
}

func Test_extractObservations_tripGating(t *testing.T) {
	tests := []struct {
		name      string
		update    tripUpdate
		wantCount int
	}{
		{
			name: "complete trip kept",
			update: tripUpdate{
				TripId:    "t1",
				RouteId:   stringPtr("1"),
				StartDate: stringPtr("20260114"),
				StopTimeUpdates: []stopTimeUpdate{
					{StopId: stringPtr("s1"), StopSequence: uint32Ptr(1)},
				},
			},
			wantCount: 1,
		},
		{
			name: "missing route id skips whole trip",
			update: tripUpdate{
				TripId:    "t1",
				StartDate: stringPtr("20260114"),
				StopTimeUpdates: []stopTimeUpdate{
					{StopId: stringPtr("s1"), StopSequence: uint32Ptr(1)},
				},
			},
			wantCount: 0,
		},
		{
			name: "empty route id skips whole trip",
			update: tripUpdate{
				TripId:    "t1",
				RouteId:   stringPtr(""),
				StartDate: stringPtr("20260114"),
				StopTimeUpdates: []stopTimeUpdate{
					{StopId: stringPtr("s1"), StopSequence: uint32Ptr(1)},
				},
			},
			wantCount: 0,
		},
		{
			name: "missing start date skips whole trip",
			update: tripUpdate{
				TripId:  "t1",
				RouteId: stringPtr("1"),
				StopTimeUpdates: []stopTimeUpdate{
					{StopId: stringPtr("s1"), StopSequence: uint32Ptr(1)},
				},
			},
			wantCount: 0,
		},
		{
			name: "malformed start date skips whole trip",
			update: tripUpdate{
				TripId:    "t1",
				RouteId:   stringPtr("1"),
				StartDate: stringPtr("Jan 14 2026"),
				StopTimeUpdates: []stopTimeUpdate{
					{StopId: stringPtr("s1"), StopSequence: uint32Ptr(1)},
				},
			},
			wantCount: 0,
		},
		{
			name: "incomplete stop update dropped alone",
			update: tripUpdate{
				TripId:    "t1",
				RouteId:   stringPtr("1"),
				StartDate: stringPtr("20260114"),
				StopTimeUpdates: []stopTimeUpdate{
					{StopId: stringPtr("s1"), StopSequence: uint32Ptr(1)},
					{StopId: stringPtr(""), StopSequence: uint32Ptr(2)},
					{StopSequence: uint32Ptr(3)},
					{StopId: stringPtr("s4")},
					{StopId: stringPtr("s5"), StopSequence: uint32Ptr(5)},
				},
			},
			wantCount: 2,
		},
	}
	observedAt := time.Date(2026, 1, 14, 8, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot := feedSnapshot{TripUpdates: []tripUpdate{tt.update}}
			observations := extractObservations(&snapshot, observedAt, testThresholds())
			if len(observations) != tt.wantCount {
				t.Errorf("extractObservations() produced %v observations, want %v",
					len(observations), tt.wantCount)
			}
		})
	}
}

func Test_extractObservations_arrivalPrecedence(t *testing.T) {
	is := is.New(t)
	observedAt := time.Date(2026, 1, 14, 8, 0, 0, 0, time.UTC)
	snapshot := feedSnapshot{
		TripUpdates: []tripUpdate{
			{
				TripId:    "t1",
				RouteId:   stringPtr("1"),
				StartDate: stringPtr("20260114"),
				StopTimeUpdates: []stopTimeUpdate{
					{
						//arrival on time, departure late, arrival wins
						StopId:       stringPtr("s1"),
						StopSequence: uint32Ptr(1),
						Arrival:      &stopTimeEvent{DelaySeconds: intPtr(60)},
						Departure:    &stopTimeEvent{DelaySeconds: intPtr(900)},
					},
					{
						//departure consulted only when arrival delay absent
						StopId:       stringPtr("s2"),
						StopSequence: uint32Ptr(2),
						Departure:    &stopTimeEvent{DelaySeconds: intPtr(900)},
					},
				},
			},
		},
	}

	observations := extractObservations(&snapshot, observedAt, testThresholds())
	is.Equal(len(observations), 2)

	is.True(observations[0].IsOnTime != nil)
	is.True(*observations[0].IsOnTime)
	is.Equal(*observations[0].ArrivalDelay, 60)
	is.Equal(*observations[0].DepartureDelay, 900)

	is.True(observations[1].IsOnTime != nil)
	is.True(!*observations[1].IsOnTime)
	is.True(observations[1].ArrivalDelay == nil)
}

func Test_resolveVehicleId(t *testing.T) {
	tests := []struct {
		name   string
		update tripUpdate
		want   *string
	}{
		{
			name:   "vehicle id preferred",
			update: tripUpdate{VehicleId: stringPtr("2211"), VehicleLabel: stringPtr("Bus 2211")},
			want:   stringPtr("2211"),
		},
		{
			name:   "label fallback",
			update: tripUpdate{VehicleLabel: stringPtr("Bus 2211")},
			want:   stringPtr("Bus 2211"),
		},
		{
			name:   "empty id falls back to label",
			update: tripUpdate{VehicleId: stringPtr(""), VehicleLabel: stringPtr("Bus 2211")},
			want:   stringPtr("Bus 2211"),
		},
		{
			name:   "neither present",
			update: tripUpdate{},
			want:   nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveVehicleId(&tt.update)
			if tt.want == nil {
				if got != nil {
					t.Errorf("resolveVehicleId() = %v, want nil", *got)
				}
				return
			}
			if got == nil || *got != *tt.want {
				t.Errorf("resolveVehicleId() = %v, want %v", got, *tt.want)
			}
		})
	}
}
