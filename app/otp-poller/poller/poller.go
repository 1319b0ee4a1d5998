// Package poller polls a gtfs-rt trip update feed and records delay observations
package poller

import (
	"fmt"
	"github.com/hfxtransit/otpmon/business/data/otp"
	"github.com/jmoiron/sqlx"
	"github.com/nats-io/nats.go"
	"log"
	"net/http"
	"os"
	"time"
)

//Config contains all configurable parameters for the poll loop
type Config struct {
	TripUpdatesUrl        string
	PollIntervalSeconds   int
	RequestTimeoutSeconds int
	//MaxFeedAgeSeconds flags a stale feed, staleness is advisory only and never
	//suppresses ingestion
	MaxFeedAgeSeconds int
	//ArchiveDir is where raw payloads are kept, empty disables archival
	ArchiveDir           string
	ArchiveRetentionDays int
	Thresholds           otp.Thresholds
	PublishOverNats      bool
}

//RunPollLoop starts loop that polls the trip update feed and records delay
//observations and poll health until a shutdown signal arrives.
//a failed cycle is logged and recorded in the poll log, the next scheduled
//cycle is the retry mechanism, there is no in-process retry
func RunPollLoop(log *log.Logger,
	db *sqlx.DB,
	natsConnection *nats.Conn,
	cfg Config,
	shutdownSignal chan os.Signal) error {

	loopDuration := time.Duration(cfg.PollIntervalSeconds) * time.Second

	client := &http.Client{
		Timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
	}
	var archive *feedArchive
	if cfg.ArchiveDir != "" {
		archive = makeFeedArchive(cfg.ArchiveDir, cfg.ArchiveRetentionDays)
	}
	publisher := makeObservationPublisher(log, db, natsConnection, cfg.PublishOverNats)

	sleepChan := make(chan bool)
	sleep := time.Duration(0) //sleep for zero seconds the first time

	for {

		go func() {
			time.Sleep(sleep)
			sleepChan <- true
		}()

		select {
		case <-shutdownSignal:
			log.Printf("Exiting on shutdown signal")
			return nil
		case <-sleepChan:
			break
		}

		// mark the time we start working
		start := time.Now()

		runPollCycle(log, db, client, archive, publisher, cfg, start)

		// attempt to run the loop every PollIntervalSeconds by subtracting the
		// time it took to perform the work
		workTook := time.Now().Sub(start)

		log.Printf("poll cycle took %s\n", fmtDuration(workTook))

		// if the work took longer than the poll interval don't sleep at all on the next loop
		if workTook >= loopDuration {
			sleep = time.Duration(0)
		} else {
			sleep = loopDuration - workTook
		}

	}
}

//runPollCycle performs one fetch, archive, decode, extract, record pass.
//always appends a poll log row, including on failure
func runPollCycle(log *log.Logger,
	db *sqlx.DB,
	client *http.Client,
	archive *feedArchive,
	publisher *observationPublisher,
	cfg Config,
	start time.Time) {

	record := otp.PollRecord{PolledAt: start}

	feedBytes, err := retrieveBytes(log, client, cfg.TripUpdatesUrl)
	fetchDurationMs := time.Now().Sub(start).Milliseconds()
	record.FetchDurationMs = &fetchDurationMs

	if err != nil {
		log.Printf("error attempting to get trip updates. error:%v\n", err)
		finishPollCycle(log, db, &record, err)
		return
	}

	//archive before decoding so corrupt payloads are still recoverable
	if archive != nil {
		archive.archive(log, feedBytes, start)
		archive.prune(log, start)
	}

	processStart := time.Now()

	snapshot, err := decodeTripUpdates(feedBytes)
	if err != nil {
		log.Printf("unable to decode trip update feed. error:%v\n", err)
		finishPollCycle(log, db, &record, err)
		return
	}
	record.FeedTimestamp = snapshot.FeedTimestamp

	if age := snapshot.age(start); age > time.Duration(cfg.MaxFeedAgeSeconds)*time.Second {
		//stale feeds are processed anyway, the flag exists for operational monitoring
		log.Printf("warning: feed is %d seconds old, exceeds max age of %d seconds\n",
			int(age.Seconds()), cfg.MaxFeedAgeSeconds)
	}

	observations := extractObservations(snapshot, start, cfg.Thresholds)
	log.Printf("extracted %d observations from %d trip updates\n",
		len(observations), len(snapshot.TripUpdates))

	recorded, err := publisher.publish(observations)
	if err != nil {
		log.Printf("error recording observations, %d of %d recorded. error:%v\n",
			recorded, len(observations), err)
	}

	tripUpdateCount := len(snapshot.TripUpdates)
	record.TripUpdateCount = &tripUpdateCount
	processDurationMs := time.Now().Sub(processStart).Milliseconds()
	record.ProcessDurationMs = &processDurationMs
	finishPollCycle(log, db, &record, err)
}

//finishPollCycle sets the error message if any and appends the poll log row
func finishPollCycle(log *log.Logger, db *sqlx.DB, record *otp.PollRecord, cycleErr error) {
	if cycleErr != nil {
		errorMessage := cycleErr.Error()
		record.ErrorMessage = &errorMessage
	}
	if err := otp.RecordPoll(db, record); err != nil {
		log.Printf("error recording poll log row. error:%v\n", err)
	}
}

//fmtDuration returns a string presentation of time.Duration for logging
func fmtDuration(d time.Duration) string {
	d = d.Round(time.Millisecond)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	mill := d / time.Millisecond
	return fmt.Sprintf("%02d:%02d.%d", h, m, mill)
}
