package main

import (
	"fmt"
	"github.com/ardanlabs/conf"
	"github.com/hfxtransit/otpmon/app/otp-poller/poller"
	"github.com/hfxtransit/otpmon/business/data/otp"
	"github.com/hfxtransit/otpmon/foundation/database"
	"github.com/nats-io/nats.go"
	logger "log"
	"os"
	"os/signal"
	"syscall"
)

var build = "develop"

func main() {
	log := logger.New(os.Stdout, "OTP_POLLER : ", logger.LstdFlags|logger.Lmicroseconds|logger.Lshortfile)
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
		Feed struct {
			TripUpdatesUrl        string `conf:"default:https://gtfs.halifax.ca/realtime/TripUpdate/TripUpdates.pb"`
			PollIntervalSeconds   int    `conf:"default:60"`
			RequestTimeoutSeconds int    `conf:"default:10"`
			MaxFeedAgeSeconds     int    `conf:"default:300"`
			EarlyThresholdSeconds int    `conf:"default:-60"`
			LateThresholdSeconds  int    `conf:"default:300"`
		}
		Archive struct {
			Dir           string `conf:"default:data/archive"`
			RetentionDays int    `conf:"default:90"`
		}
		NATS struct {
			Url             string `conf:"default:nats://127.0.0.1:4222"`
			PublishOverNats bool   `conf:"default:false"`
		}
	}
	cfg.Version.SVN = build
	cfg.Version.Desc = "Poll gtfs-rt trip updates into delay observation facts"
	const prefix = "POLLER"
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

	// =========================================================================
	// Optional NATS connection for in-cluster observation publishing

	var natsConnection *nats.Conn
	if cfg.NATS.PublishOverNats {
		log.Printf("main: Connecting to NATS at %s", cfg.NATS.Url)
		natsConnection, err = nats.Connect(cfg.NATS.Url)
		if err != nil {
			return fmt.Errorf("connecting to nats: %w", err)
		}
		defer natsConnection.Close()
	}

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	pollerConfig := poller.Config{
		TripUpdatesUrl:        cfg.Feed.TripUpdatesUrl,
		PollIntervalSeconds:   cfg.Feed.PollIntervalSeconds,
		RequestTimeoutSeconds: cfg.Feed.RequestTimeoutSeconds,
		MaxFeedAgeSeconds:     cfg.Feed.MaxFeedAgeSeconds,
		ArchiveDir:            cfg.Archive.Dir,
		ArchiveRetentionDays:  cfg.Archive.RetentionDays,
		Thresholds: otp.Thresholds{
			EarlySeconds: cfg.Feed.EarlyThresholdSeconds,
			LateSeconds:  cfg.Feed.LateThresholdSeconds,
		},
		PublishOverNats: cfg.NATS.PublishOverNats,
	}

	return poller.RunPollLoop(log, db, natsConnection, pollerConfig, shutdown)
}
