package gtfsmanager

import (
	"github.com/hfxtransit/otpmon/business/data/gtfs"
	"reflect"
	"strings"
	"testing"
	"time"
)

func getTestDate(str string) time.Time {
	result, _ := timeFromYYYYMMDD(str)
	return result
}

func getTestDatePointer(str string) *time.Time {
	result := getTestDate(str)
	return &result
}

func loadFirstRow(t *testing.T, csvContent string) *gtfsFileParser {
	t.Helper()
	parser, err := makeGTFSFileParser(strings.NewReader(csvContent), "test.txt")
	if err != nil {
		t.Fatalf("Unable to make gtfsFileParser %s", err)
	}
	err = parser.nextLine()
	if err != nil {
		t.Fatalf("Unable to move gtfsFileParser to first line %s", err)
	}
	return parser
}

func Test_buildCalendar(t *testing.T) {
	tests := []struct {
		name       string
		csvContent string
		wantErr    bool
		want       *gtfs.Calendar
	}{
		{
			name: "calendar.txt no errors",
			csvContent: "service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date\n" +
				"WKDY,1,1,1,1,1,0,0,20260105,20260628\n",
			wantErr: false,
			want: &gtfs.Calendar{
				ServiceId: "WKDY",
				Monday:    true,
				Tuesday:   true,
				Wednesday: true,
				Thursday:  true,
				Friday:    true,
				Saturday:  false,
				Sunday:    false,
				StartDate: getTestDatePointer("20260105"),
				EndDate:   getTestDatePointer("20260628"),
			},
		},
		{
			name: "calendar.txt error, missing monday value",
			csvContent: "service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date\n" +
				"WKDY,,1,1,1,1,0,0,20260105,20260628\n",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := loadFirstRow(t, tt.csvContent)
			got, err := buildCalendar(parser)
			if tt.wantErr {
				if err == nil {
					t.Errorf("%v: buildCalendar() produced no error, but we want one", tt.name)
				}
				return
			} else if err != nil {
				t.Errorf("%v: buildCalendar() error = %v, wantErr %v", tt.name, err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("buildCalendar() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func Test_buildCalendarDate(t *testing.T) {
	exceptionType := 1
	tests := []struct {
		name       string
		csvContent string
		wantErr    bool
		want       *gtfs.CalendarDate
	}{
		{
			name: "calendar_dates.txt no errors",
			csvContent: "service_id,date,exception_type\n" +
				"WKDY,20260101,1\n",
			wantErr: false,
			want: &gtfs.CalendarDate{
				ServiceId:     "WKDY",
				Date:          getTestDate("20260101"),
				ExceptionType: &exceptionType,
			},
		},
		{
			name: "calendar_dates.txt error, missing date",
			csvContent: "service_id,date,exception_type\n" +
				"WKDY,,1\n",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := loadFirstRow(t, tt.csvContent)
			got, err := buildCalendarDate(parser)
			if tt.wantErr {
				if err == nil {
					t.Errorf("%v: buildCalendarDate() produced no error, but we want one", tt.name)
				}
				return
			} else if err != nil {
				t.Errorf("%v: buildCalendarDate() error = %v, wantErr %v", tt.name, err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("buildCalendarDate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
