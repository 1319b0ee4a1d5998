package otp

import (
	"fmt"
	"github.com/hfxtransit/otpmon/foundation/database"
	"github.com/jmoiron/sqlx"
	"time"
)

// DailyRouteSummary is one rollup row per (service date, route), fully replaced
// on each aggregation run for its date, never incrementally patched.
type DailyRouteSummary struct {
	ServiceDate        time.Time `db:"service_date"`
	RouteId            string    `db:"route_id"`
	TotalObservations  int       `db:"total_observations"`
	OnTimeCount        int       `db:"on_time_count"`
	EarlyCount         int       `db:"early_count"`
	LateCount          int       `db:"late_count"`
	AvgDelaySeconds    *float64  `db:"avg_delay_seconds"`
	MedianDelaySeconds *float64  `db:"median_delay_seconds"`
	P95DelaySeconds    *float64  `db:"p95_delay_seconds"`
	MaxDelaySeconds    *int      `db:"max_delay_seconds"`
	MinDelaySeconds    *int      `db:"min_delay_seconds"`
	OnTimePercentage   float64   `db:"on_time_percentage"`
	UniqueTrips        int       `db:"unique_trips"`
	UniqueVehicles     int       `db:"unique_vehicles"`
	UniqueStops        int       `db:"unique_stops"`
	//IsHoliday is true when the service date fell on an observed transit holiday
	IsHoliday bool `db:"is_holiday"`
}

// HourlyRouteSummary is the coarser time-bucketed analogue of DailyRouteSummary,
// one row per (service date, route, hour of day) with a reduced statistic set.
type HourlyRouteSummary struct {
	ServiceDate       time.Time `db:"service_date"`
	RouteId           string    `db:"route_id"`
	HourOfDay         int       `db:"hour_of_day"`
	TotalObservations int       `db:"total_observations"`
	OnTimeCount       int       `db:"on_time_count"`
	AvgDelaySeconds   *float64  `db:"avg_delay_seconds"`
	OnTimePercentage  float64   `db:"on_time_percentage"`
}

// dailySummaryInsertStatement builds the named insert-select that computes the
// daily rollup rows.
// Early and late counts use strict inequality while the on-time window is
// inclusive, a delay exactly at a threshold counts as on time and lands in
// neither bucket.
// The on-time percentage uses cast() rather than the :: shorthand, sqlx's named
// parameter compiler treats :: as an escaped colon and would mangle the cast.
func dailySummaryInsertStatement() string {
	return "insert into daily_route_summary (" +
		"service_date, " +
		"route_id, " +
		"total_observations, " +
		"on_time_count, " +
		"early_count, " +
		"late_count, " +
		"avg_delay_seconds, " +
		"median_delay_seconds, " +
		"p95_delay_seconds, " +
		"max_delay_seconds, " +
		"min_delay_seconds, " +
		"on_time_percentage, " +
		"unique_trips, " +
		"unique_vehicles, " +
		"unique_stops, " +
		"is_holiday) " +
		"select " +
		"service_date, " +
		"route_id, " +
		"count(*), " +
		"sum(case when is_on_time then 1 else 0 end), " +
		"sum(case when arrival_delay < :early then 1 else 0 end), " +
		"sum(case when arrival_delay > :late then 1 else 0 end), " +
		"avg(arrival_delay), " +
		"percentile_cont(0.5) within group (order by arrival_delay), " +
		"percentile_cont(0.95) within group (order by arrival_delay), " +
		"max(arrival_delay), " +
		"min(arrival_delay), " +
		"(cast(sum(case when is_on_time then 1 else 0 end) as double precision) / count(*)) * 100, " +
		"count(distinct trip_id), " +
		"count(distinct vehicle_id), " +
		"count(distinct stop_id), " +
		":is_holiday " +
		"from stop_delay_event " +
		"where service_date = :service_date " +
		"and arrival_delay is not null " +
		"group by service_date, route_id"
}

// hourlySummaryInsertStatement builds the named insert-select that computes the
// hourly rollup rows, grouping by the hour_of_day stored on each fact row
func hourlySummaryInsertStatement() string {
	return "insert into hourly_route_summary (" +
		"service_date, " +
		"route_id, " +
		"hour_of_day, " +
		"total_observations, " +
		"on_time_count, " +
		"avg_delay_seconds, " +
		"on_time_percentage) " +
		"select " +
		"service_date, " +
		"route_id, " +
		"hour_of_day, " +
		"count(*), " +
		"sum(case when is_on_time then 1 else 0 end), " +
		"avg(arrival_delay), " +
		"(cast(sum(case when is_on_time then 1 else 0 end) as double precision) / count(*)) * 100 " +
		"from stop_delay_event " +
		"where service_date = :service_date " +
		"and arrival_delay is not null " +
		"group by service_date, route_id, hour_of_day"
}

// AggregateDailySummaries replaces the daily_route_summary rows for serviceDate
// with rows freshly computed from stop_delay_event. The delete and insert run in
// one transaction so a failure leaves the previous rollup intact.
// Fact rows without an arrival delay are excluded from the statistics entirely.
// Returns the number of summary rows created.
func AggregateDailySummaries(db *sqlx.DB, serviceDate time.Time, thresholds Thresholds, isHoliday bool) (int64, error) {
	tx, err := db.Beginx()
	if err != nil {
		return 0, err
	}

	deleteStatement := tx.Rebind("delete from daily_route_summary where service_date = ?")
	if _, err = tx.Exec(deleteStatement, serviceDate); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("deleting daily summaries for %s: %w", serviceDate.Format("2006-01-02"), err)
	}

	result, err := tx.NamedExec(dailySummaryInsertStatement(), map[string]interface{}{
		"service_date": serviceDate,
		"early":        thresholds.EarlySeconds,
		"late":         thresholds.LateSeconds,
		"is_holiday":   isHoliday,
	})
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("inserting daily summaries for %s: %w", serviceDate.Format("2006-01-02"), err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	return count, tx.Commit()
}

// AggregateHourlySummaries replaces the hourly_route_summary rows for
// serviceDate, grouping fact rows by route and the hour_of_day stored on the
// row. Returns the number of summary rows created.
func AggregateHourlySummaries(db *sqlx.DB, serviceDate time.Time) (int64, error) {
	tx, err := db.Beginx()
	if err != nil {
		return 0, err
	}

	deleteStatement := tx.Rebind("delete from hourly_route_summary where service_date = ?")
	if _, err = tx.Exec(deleteStatement, serviceDate); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("deleting hourly summaries for %s: %w", serviceDate.Format("2006-01-02"), err)
	}

	result, err := tx.NamedExec(hourlySummaryInsertStatement(), map[string]interface{}{
		"service_date": serviceDate,
	})
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("inserting hourly summaries for %s: %w", serviceDate.Format("2006-01-02"), err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	return count, tx.Commit()
}

// DailySummaryRow joins a DailyRouteSummary to the route reference names for
// presentation
type DailySummaryRow struct {
	ServiceDate       time.Time `db:"service_date" json:"service_date"`
	RouteId           string    `db:"route_id" json:"route_id"`
	RouteShortName    *string   `db:"route_short_name" json:"route_short_name"`
	RouteLongName     *string   `db:"route_long_name" json:"route_long_name"`
	OnTimePercentage  float64   `db:"on_time_percentage" json:"on_time_percentage"`
	AvgDelaySeconds   *float64  `db:"avg_delay_seconds" json:"avg_delay_seconds"`
	P95DelaySeconds   *float64  `db:"p95_delay_seconds" json:"p95_delay_seconds"`
	TotalObservations int       `db:"total_observations" json:"total_observations"`
	UniqueTrips       int       `db:"unique_trips" json:"unique_trips"`
	IsHoliday         bool      `db:"is_holiday" json:"is_holiday"`
}

// HourlyProfileRow is an hourly summary averaged across a date range, used for
// hour-of-day profile charts
type HourlyProfileRow struct {
	RouteId           string   `db:"route_id" json:"route_id"`
	RouteShortName    *string  `db:"route_short_name" json:"route_short_name"`
	HourOfDay         int      `db:"hour_of_day" json:"hour_of_day"`
	AvgOnTimePct      *float64 `db:"avg_on_time_pct" json:"avg_on_time_pct"`
	AvgDelaySeconds   *float64 `db:"avg_delay_seconds" json:"avg_delay_seconds"`
	TotalObservations int      `db:"total_observations" json:"total_observations"`
}

// GetDailySummaries retrieves DailySummaryRows between startDate and endDate
// inclusive, optionally restricted to routeIds
func GetDailySummaries(db *sqlx.DB, startDate time.Time, endDate time.Time, routeIds []string) ([]DailySummaryRow, error) {
	statementString := "select d.service_date, " +
		"d.route_id, " +
		"r.route_short_name, " +
		"r.route_long_name, " +
		"d.on_time_percentage, " +
		"d.avg_delay_seconds, " +
		"d.p95_delay_seconds, " +
		"d.total_observations, " +
		"d.unique_trips, " +
		"d.is_holiday " +
		"from daily_route_summary d " +
		"left join route r on r.route_id = d.route_id " +
		"where d.service_date between :start_date and :end_date "
	sqlArgMap := map[string]interface{}{
		"start_date": startDate,
		"end_date":   endDate,
	}
	if len(routeIds) > 0 {
		statementString += "and d.route_id in (:route_ids) "
		sqlArgMap["route_ids"] = routeIds
	}
	statementString += "order by d.service_date, d.route_id"

	var results []DailySummaryRow
	rows, err := database.NamedQueryRowsFromMap(statementString, db, sqlArgMap)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()
	for rows.Next() {
		row := DailySummaryRow{}
		if err = rows.StructScan(&row); err != nil {
			return nil, err
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// GetHourlyProfile retrieves HourlyProfileRows averaged over the date range,
// optionally restricted to routeIds
func GetHourlyProfile(db *sqlx.DB, startDate time.Time, endDate time.Time, routeIds []string) ([]HourlyProfileRow, error) {
	statementString := "select h.route_id, " +
		"r.route_short_name, " +
		"h.hour_of_day, " +
		"avg(h.on_time_percentage) as avg_on_time_pct, " +
		"avg(h.avg_delay_seconds) as avg_delay_seconds, " +
		"sum(h.total_observations) as total_observations " +
		"from hourly_route_summary h " +
		"left join route r on r.route_id = h.route_id " +
		"where h.service_date between :start_date and :end_date "
	sqlArgMap := map[string]interface{}{
		"start_date": startDate,
		"end_date":   endDate,
	}
	if len(routeIds) > 0 {
		statementString += "and h.route_id in (:route_ids) "
		sqlArgMap["route_ids"] = routeIds
	}
	statementString += "group by h.route_id, r.route_short_name, h.hour_of_day " +
		"order by h.route_id, h.hour_of_day"

	var results []HourlyProfileRow
	rows, err := database.NamedQueryRowsFromMap(statementString, db, sqlArgMap)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()
	for rows.Next() {
		row := HourlyProfileRow{}
		if err = rows.StructScan(&row); err != nil {
			return nil, err
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
