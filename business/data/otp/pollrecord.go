package otp

import (
	"github.com/jmoiron/sqlx"
	"time"
)

// PollRecord is one append-only health row per poll attempt. Rows are never
// updated or deleted, the table exists for operational visibility only.
type PollRecord struct {
	PollId   int64     `db:"poll_id"`
	PolledAt time.Time `db:"polled_at"`
	//TripUpdateCount is the number of trip update entities decoded from the feed,
	//nil when the cycle failed before decoding
	TripUpdateCount   *int    `db:"trip_update_count"`
	FetchDurationMs   *int64  `db:"fetch_duration_ms"`
	ProcessDurationMs *int64  `db:"process_duration_ms"`
	ErrorMessage      *string `db:"error_message"`
	//FeedTimestamp is the generation time the feed reported, nil when no feed
	//was decoded this cycle
	FeedTimestamp *time.Time `db:"feed_timestamp"`
}

// RecordPoll appends a PollRecord. PollId is assigned by the database.
func RecordPoll(db *sqlx.DB, record *PollRecord) error {
	statementString := "insert into poll_log " +
		"(polled_at, " +
		"trip_update_count, " +
		"fetch_duration_ms, " +
		"process_duration_ms, " +
		"error_message, " +
		"feed_timestamp) " +
		"values " +
		"(:polled_at, " +
		":trip_update_count, " +
		":fetch_duration_ms, " +
		":process_duration_ms, " +
		":error_message, " +
		":feed_timestamp)"
	statementString = db.Rebind(statementString)
	_, err := db.NamedExec(statementString, record)
	return err
}

// GetLatestPoll retrieves the most recent PollRecord
func GetLatestPoll(db *sqlx.DB) (*PollRecord, error) {
	query := "select * from poll_log order by polled_at desc, poll_id desc limit 1"
	record := PollRecord{}
	err := db.Get(&record, query)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
