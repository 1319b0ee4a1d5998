package main

import (
	"fmt"
	"github.com/ardanlabs/conf"
	"github.com/hfxtransit/otpmon/app/otp-aggregator/rollup"
	"github.com/hfxtransit/otpmon/business/data/otp"
	"github.com/hfxtransit/otpmon/foundation/database"
	logger "log"
	"os"
	"time"
)

var build = "develop"

func main() {
	log := logger.New(os.Stdout, "OTP_AGGREGATOR : ", logger.LstdFlags|logger.Lmicroseconds|logger.Lshortfile)
	if err := run(log); err != nil {
		log.Printf("main: error: %v", err)
		os.Exit(1)
	}
}

func run(log *logger.Logger) error {
	var cfg struct {
		conf.Version
		Args conf.Args
		DB   struct {
			User       string `conf:"default:postgres"`
			Password   string `conf:"default:postgres,noprint"`
			Host       string `conf:"default:0.0.0.0"`
			Name       string `conf:"default:postgres"`
			DisableTLS bool   `conf:"default:true"`
		}
		Aggregation struct {
			//Date aggregates a single service date, YYYY-MM-DD, default yesterday
			Date string `conf:"default:"`
			//BackfillStart enables backfill mode over an inclusive date range
			BackfillStart string `conf:"default:"`
			//BackfillEnd defaults to yesterday when backfilling
			BackfillEnd           string `conf:"default:"`
			EarlyThresholdSeconds int    `conf:"default:-60"`
			LateThresholdSeconds  int    `conf:"default:300"`
		}
	}
	cfg.Version.SVN = build
	cfg.Version.Desc = "Recompute daily and hourly route summaries from delay observations"
	const prefix = "AGGREGATOR"
	if err := conf.Parse(os.Args[1:], prefix, &cfg); err != nil {
		switch err {
		case conf.ErrHelpWanted:
			usage, err := conf.Usage(prefix, &cfg)
			if err != nil {
				return fmt.Errorf("generating config usage: %w", err)
			}
			fmt.Println(usage)
			return nil
		case conf.ErrVersionWanted:
			version, err := conf.VersionString(prefix, &cfg)
			if err != nil {
				return fmt.Errorf("generating config version: %w", err)
			}
			fmt.Println(version)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	log.Printf("main : Started : Application initializing : version %s", build)
	defer log.Println("main: Completed")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Printf("main: Config :\n%v\n", out)

	// =========================================================================
	// Start Database

	log.Println("main: Initializing database support")

	db, err := database.Open(database.Config{
		User:       cfg.DB.User,
		Password:   cfg.DB.Password,
		Host:       cfg.DB.Host,
		Name:       cfg.DB.Name,
		DisableTLS: cfg.DB.DisableTLS,
	})
	if err != nil {
		return fmt.Errorf("connecting to db: %w", err)
	}
	defer func() {
		log.Printf("main: Database Stopping : %s", cfg.DB.Host)
		err = db.Close()
		if err != nil {
			log.Printf("main: error closing database: %v", err)
		}
	}()

	thresholds := otp.Thresholds{
		EarlySeconds: cfg.Aggregation.EarlyThresholdSeconds,
		LateSeconds:  cfg.Aggregation.LateThresholdSeconds,
	}
	now := time.Now()
	yesterday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)

	if cfg.Aggregation.BackfillStart != "" {
		startDate, err := parseDate(cfg.Aggregation.BackfillStart)
		if err != nil {
			return fmt.Errorf("parsing backfill start date: %w", err)
		}
		endDate := yesterday
		if cfg.Aggregation.BackfillEnd != "" {
			endDate, err = parseDate(cfg.Aggregation.BackfillEnd)
			if err != nil {
				return fmt.Errorf("parsing backfill end date: %w", err)
			}
		}
		log.Printf("main: running backfill from %s to %s",
			startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))

		results, err := rollup.Backfill(log, db, thresholds, startDate, endDate)

		var totalDaily, totalHourly int64
		for _, result := range results {
			totalDaily += result.DailyCount
			totalHourly += result.HourlyCount
		}
		log.Printf("main: backfill processed %d days, %d daily summaries, %d hourly summaries",
			len(results), totalDaily, totalHourly)
		if err != nil {
			return fmt.Errorf("backfill stopped after %d days: %w", len(results), err)
		}
		return nil
	}

	targetDate := yesterday
	if cfg.Aggregation.Date != "" {
		targetDate, err = parseDate(cfg.Aggregation.Date)
		if err != nil {
			return fmt.Errorf("parsing target date: %w", err)
		}
	}

	result, err := rollup.RunDailyAggregation(log, db, thresholds, targetDate)
	if err != nil {
		return fmt.Errorf("aggregating %s: %w", targetDate.Format("2006-01-02"), err)
	}
	log.Printf("main: aggregation complete for %s, %d daily summaries, %d hourly summaries",
		result.ServiceDate.Format("2006-01-02"), result.DailyCount, result.HourlyCount)
	return nil
}

// parseDate parses a YYYY-MM-DD command line date
func parseDate(dateString string) (time.Time, error) {
	return time.Parse("2006-01-02", dateString)
}
