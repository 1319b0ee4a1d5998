package otp

import (
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/matryer/is"
)

func Test_dailySummaryInsertStatementCompiles(t *testing.T) {
	is := is.New(t)
	query, args, err := sqlx.Named(dailySummaryInsertStatement(), map[string]interface{}{
		"service_date": time.Date(2026, 1, 14, 0, 0, 0, 0, time.UTC),
		"early":        -60,
		"late":         300,
		"is_holiday":   false,
	})
	is.NoErr(err)
	is.Equal(len(args), 4)

	//the named parameter compiler treats :: as an escaped colon, a ::type cast
	//would survive compilation as a bare :type and break the statement
	if strings.Contains(query, ":float") || strings.Contains(query, "::") {
		t.Errorf("compiled daily statement still carries a shorthand cast: %v", query)
	}
	is.True(strings.Contains(query, "cast(sum(case when is_on_time then 1 else 0 end) as double precision)"))

	//every named parameter must have become a bindvar
	is.Equal(strings.Count(query, "?"), 4)
	is.True(strings.Contains(query, "arrival_delay is not null"))
	is.True(strings.Contains(query, "percentile_cont(0.5)"))
	is.True(strings.Contains(query, "percentile_cont(0.95)"))
}

func Test_hourlySummaryInsertStatementCompiles(t *testing.T) {
	is := is.New(t)
	query, args, err := sqlx.Named(hourlySummaryInsertStatement(), map[string]interface{}{
		"service_date": time.Date(2026, 1, 14, 0, 0, 0, 0, time.UTC),
	})
	is.NoErr(err)
	is.Equal(len(args), 1)

	if strings.Contains(query, ":float") || strings.Contains(query, "::") {
		t.Errorf("compiled hourly statement still carries a shorthand cast: %v", query)
	}
	is.True(strings.Contains(query, "cast(sum(case when is_on_time then 1 else 0 end) as double precision)"))
	is.Equal(strings.Count(query, "?"), 1)
	is.True(strings.Contains(query, "group by service_date, route_id, hour_of_day"))
	is.True(strings.Contains(query, "arrival_delay is not null"))
}
