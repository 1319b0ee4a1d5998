package poller

import (
	"encoding/json"
	"github.com/hfxtransit/otpmon/business/data/otp"
	"github.com/jmoiron/sqlx"
	"github.com/nats-io/nats.go"
	"log"
)

//observationPublisher takes observations extracted from a poll and sends them to
// their destinations (database and optionally nats)
type observationPublisher struct {
	log             *log.Logger
	db              *sqlx.DB
	natsConnection  *nats.Conn
	publishOverNats bool
}

//makeObservationPublisher creates observationPublisher
func makeObservationPublisher(log *log.Logger,
	db *sqlx.DB,
	natsConnection *nats.Conn,
	publishOverNats bool) *observationPublisher {
	return &observationPublisher{
		log:             log,
		db:              db,
		natsConnection:  natsConnection,
		publishOverNats: publishOverNats,
	}
}

//publish upserts observations into the fact table and, when enabled, sends the
//batch over NATS for in-cluster consumers. The database is the primary sink,
//a NATS failure never prevents recording.
//returns the number of observations recorded
func (p *observationPublisher) publish(observations []otp.Observation) (int, error) {
	if len(observations) == 0 {
		return 0, nil
	}
	if p.publishOverNats && p.natsConnection != nil {
		p.sendOverNats(observations)
	}
	return otp.RecordObservations(p.db, observations)
}

func (p *observationPublisher) sendOverNats(observations []otp.Observation) {
	jsonData, err := json.Marshal(observations)
	if err != nil {
		p.log.Printf("failed to marshal observations in "+
			"observationPublisher.sendOverNats, error:%v", err)
		return
	}
	err = p.natsConnection.Publish("otp-observations", jsonData)
	if err != nil {
		p.log.Printf("failed to send observations in "+
			"observationPublisher.sendOverNats, error:%v", err)
	}
}
