// Package dashapi serves the aggregated summary tables and poll health rows as
// read-only json for the dashboard. It never touches the fact table directly.
package dashapi

import (
	"context"
	"encoding/json"
	"github.com/gorilla/mux"
	"github.com/hfxtransit/otpmon/business/data/gtfs"
	"github.com/hfxtransit/otpmon/business/data/otp"
	"github.com/jmoiron/sqlx"
	logger "log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

//defaultHttpHandler simple default http handler for default route
type defaultHttpHandler struct {
}

//ServeHTTP implements defaultHttpHandler http.Handler interface
func (h *defaultHttpHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	w.Header().Add("Application-Status", "OK")
}

//summaryHandler holds data needed to respond to summary and reference requests
type summaryHandler struct {
	log *logger.Logger
	db  *sqlx.DB
}

//makeSummaryHandler creates summaryHandler
func makeSummaryHandler(log *logger.Logger, db *sqlx.DB) *summaryHandler {
	return &summaryHandler{
		log: log,
		db:  db,
	}
}

//serveRoutes sends all reference routes as json for filter dropdowns
func (s *summaryHandler) serveRoutes(w http.ResponseWriter, _ *http.Request) {
	routes, err := gtfs.GetRoutes(s.db)
	if err != nil {
		s.log.Printf("Error loading routes: error:%v\n", err)
		http.Error(w, "Error serving request", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, routes)
}

//serveDailySummary sends DailySummaryRows for the requested date range and routes
func (s *summaryHandler) serveDailySummary(w http.ResponseWriter, r *http.Request) {
	startDate, endDate, err := dateRangeFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rows, err := otp.GetDailySummaries(s.db, startDate, endDate, r.URL.Query()["routeId"])
	if err != nil {
		s.log.Printf("Error loading daily summaries: error:%v\n", err)
		http.Error(w, "Error serving request", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, rows)
}

//serveHourlyProfile sends HourlyProfileRows averaged over the requested range
func (s *summaryHandler) serveHourlyProfile(w http.ResponseWriter, r *http.Request) {
	startDate, endDate, err := dateRangeFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rows, err := otp.GetHourlyProfile(s.db, startDate, endDate, r.URL.Query()["routeId"])
	if err != nil {
		s.log.Printf("Error loading hourly profile: error:%v\n", err)
		http.Error(w, "Error serving request", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, rows)
}

//latestPollResponse wraps the most recent poll log row for json
type latestPollResponse struct {
	PollId            int64      `json:"poll_id"`
	PolledAt          time.Time  `json:"polled_at"`
	TripUpdateCount   *int       `json:"trip_update_count"`
	FetchDurationMs   *int64     `json:"fetch_duration_ms"`
	ProcessDurationMs *int64     `json:"process_duration_ms"`
	ErrorMessage      *string    `json:"error_message"`
	FeedTimestamp     *time.Time `json:"feed_timestamp"`
}

//serveLatestPoll sends the most recent poll log entry for health display
func (s *summaryHandler) serveLatestPoll(w http.ResponseWriter, _ *http.Request) {
	record, err := otp.GetLatestPoll(s.db)
	if err != nil {
		s.log.Printf("Error loading latest poll: error:%v\n", err)
		http.Error(w, "Error serving request", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, latestPollResponse{
		PollId:            record.PollId,
		PolledAt:          record.PolledAt,
		TripUpdateCount:   record.TripUpdateCount,
		FetchDurationMs:   record.FetchDurationMs,
		ProcessDurationMs: record.ProcessDurationMs,
		ErrorMessage:      record.ErrorMessage,
		FeedTimestamp:     record.FeedTimestamp,
	})
}

//writeJSON marshals payload and writes it with a json content type
func (s *summaryHandler) writeJSON(w http.ResponseWriter, payload interface{}) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		s.log.Printf("Error marshaling response to json: error:%v\n", err)
		http.Error(w, "Error serving request", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	byteCount, err := w.Write(jsonData)
	if err != nil {
		s.log.Printf("Error writing json response: %s", err)
		return
	}
	s.log.Printf("wrote %d bytes in json response.", byteCount)
}

//dateRangeFromRequest reads start and end query parameters in YYYY-MM-DD form.
//defaults to the last seven days when absent
func dateRangeFromRequest(r *http.Request) (time.Time, time.Time, error) {
	now := time.Now()
	endDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	startDate := endDate.AddDate(0, 0, -7)

	var err error
	if startParam := r.FormValue("start"); startParam != "" {
		startDate, err = time.Parse("2006-01-02", startParam)
		if err != nil {
			return startDate, endDate, err
		}
	}
	if endParam := r.FormValue("end"); endParam != "" {
		endDate, err = time.Parse("2006-01-02", endParam)
		if err != nil {
			return startDate, endDate, err
		}
	}
	return startDate, endDate, nil
}

//createServer creates configured http.Server for responding to dashboard read requests
func createServer(log *logger.Logger, db *sqlx.DB, httpPort int) *http.Server {

	handler := makeSummaryHandler(log, db)

	r := mux.NewRouter()
	r.Handle("/", &defaultHttpHandler{})
	r.HandleFunc("/routes", handler.serveRoutes).Methods(http.MethodGet)
	r.HandleFunc("/summary/daily", handler.serveDailySummary).Methods(http.MethodGet)
	r.HandleFunc("/summary/hourly", handler.serveHourlyProfile).Methods(http.MethodGet)
	r.HandleFunc("/polls/latest", handler.serveLatestPoll).Methods(http.MethodGet)
	srv := &http.Server{
		Addr: strings.Join([]string{"0.0.0.0", strconv.Itoa(httpPort)}, ":"),
		// Good practice to set timeouts to avoid Slowloris attacks.
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      r,
	}
	return srv
}

//RunWebService starts up the dashboard read service, and terminates on shutdown signal
func RunWebService(log *logger.Logger,
	wg *sync.WaitGroup,
	db *sqlx.DB,
	httpPort int,
	shutdownSignal chan bool,
) {
	wg.Add(1)
	defer wg.Done()
	srv := createServer(log, db, httpPort)
	log.Printf("Starting server on port %d", httpPort)
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			log.Printf("server ListenAndServe ended. %s", err)
		}
	}()
	<-shutdownSignal
	log.Printf("ending webservice on shutdown signal")
	shutdownCtx, serverCancelFunc := context.WithTimeout(context.Background(), time.Duration(5)*time.Second)
	defer serverCancelFunc()
	err := srv.Shutdown(shutdownCtx)
	if err != nil {
		log.Printf("error shutting down webservice, error:%s", err)
	}
}
