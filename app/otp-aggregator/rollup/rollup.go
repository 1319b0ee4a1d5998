// Package rollup recomputes daily and hourly route summaries from the delay
// observation fact table.
package rollup

import (
	"github.com/hfxtransit/otpmon/business/data/otp"
	"github.com/jmoiron/sqlx"
	"log"
	"time"
)

//Result reports the summary row counts created for one service date
type Result struct {
	ServiceDate time.Time
	DailyCount  int64
	HourlyCount int64
}

//RunDailyAggregation replaces the daily and hourly summary rows for
//serviceDate with freshly computed rollups. Running it twice for the same date
//yields the same final state, summaries are deleted and reinserted, never
//incrementally patched.
func RunDailyAggregation(log *log.Logger,
	db *sqlx.DB,
	thresholds otp.Thresholds,
	serviceDate time.Time) (Result, error) {

	log.Printf("running daily aggregation for %s\n", serviceDate.Format("2006-01-02"))
	holidays := makeTransitHolidayCalendar()

	result := Result{ServiceDate: serviceDate}

	dailyCount, err := otp.AggregateDailySummaries(db, serviceDate, thresholds, holidays.isHoliday(serviceDate))
	if err != nil {
		return result, err
	}
	result.DailyCount = dailyCount
	log.Printf("created %d daily route summaries\n", dailyCount)

	hourlyCount, err := otp.AggregateHourlySummaries(db, serviceDate)
	if err != nil {
		return result, err
	}
	result.HourlyCount = hourlyCount
	log.Printf("created %d hourly route summaries\n", hourlyCount)

	return result, nil
}

//Backfill recomputes summaries for every date from startDate through endDate
//inclusive, in ascending order, sharing one database connection. The loop stops
//at the first failing date, dates already aggregated stay committed and dates
//after the failure are not processed.
func Backfill(log *log.Logger,
	db *sqlx.DB,
	thresholds otp.Thresholds,
	startDate time.Time,
	endDate time.Time) ([]Result, error) {

	return aggregateRange(startDate, endDate, func(serviceDate time.Time) (Result, error) {
		return RunDailyAggregation(log, db, thresholds, serviceDate)
	})
}

//aggregateRange applies aggregate to each date from startDate through endDate
//inclusive in ascending order, collecting results until the first error
func aggregateRange(startDate time.Time,
	endDate time.Time,
	aggregate func(serviceDate time.Time) (Result, error)) ([]Result, error) {

	var results []Result
	for current := startDate; !current.After(endDate); current = current.AddDate(0, 0, 1) {
		result, err := aggregate(current)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}
