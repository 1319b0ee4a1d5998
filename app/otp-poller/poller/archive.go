package poller

import (
	"compress/gzip"
	"log"
	"os"
	"path/filepath"
	"time"
)

//feedArchive persists raw feed payloads, compressed, under one directory per
//fetch day so corrupt payloads remain recoverable for debugging.
//archival happens before parsing and is independent of parse success.
type feedArchive struct {
	dir           string
	retentionDays int
}

//makeFeedArchive creates feedArchive rooted at dir, keeping retentionDays days
func makeFeedArchive(dir string, retentionDays int) *feedArchive {
	return &feedArchive{
		dir:           dir,
		retentionDays: retentionDays,
	}
}

//archive writes data gzipped to <dir>/<YYYYMMDD>/trip_updates_<timestamp>.pb.gz.
//archival failures are logged and never abort the poll cycle
func (a *feedArchive) archive(log *log.Logger, data []byte, fetchedAt time.Time) {
	dayDir := filepath.Join(a.dir, fetchedAt.Format("20060102"))
	if err := os.MkdirAll(dayDir, 0o755); err != nil {
		log.Printf("unable to create archive directory %s, error: %v", dayDir, err)
		return
	}
	filename := filepath.Join(dayDir, "trip_updates_"+fetchedAt.Format("20060102_150405")+".pb.gz")

	file, err := os.Create(filename)
	if err != nil {
		log.Printf("unable to create archive file %s, error: %v", filename, err)
		return
	}
	defer func() {
		if innerErr := file.Close(); innerErr != nil {
			log.Printf("error closing archive file %s, error: %v", filename, innerErr)
		}
	}()

	gzipWriter := gzip.NewWriter(file)
	if _, err = gzipWriter.Write(data); err != nil {
		log.Printf("error writing archive file %s, error: %v", filename, err)
		return
	}
	if err = gzipWriter.Close(); err != nil {
		log.Printf("error finishing archive file %s, error: %v", filename, err)
	}
}

//prune removes day directories older than the retention window.
//directory names that are not YYYYMMDD dates are left alone
func (a *feedArchive) prune(log *log.Logger, now time.Time) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("unable to read archive directory %s, error: %v", a.dir, err)
		}
		return
	}
	cutoff := now.AddDate(0, 0, -a.retentionDays)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dayTime, err := time.Parse("20060102", entry.Name())
		if err != nil {
			continue
		}
		if dayTime.Before(cutoff) {
			dayDir := filepath.Join(a.dir, entry.Name())
			if err = os.RemoveAll(dayDir); err != nil {
				log.Printf("unable to remove expired archive directory %s, error: %v", dayDir, err)
			} else {
				log.Printf("removed expired archive directory %s", dayDir)
			}
		}
	}
}
