package poller

import (
	"compress/gzip"
	"io"
	logger "log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matryer/is"
)

func Test_feedArchive_archive(t *testing.T) {
	is := is.New(t)
	testLog := logger.New(os.Stdout, "TEST : ", logger.LstdFlags)
	dir := t.TempDir()

	archive := makeFeedArchive(dir, 90)
	fetchedAt := time.Date(2026, 1, 14, 8, 30, 15, 0, time.UTC)
	payload := []byte("raw feed bytes")

	archive.archive(testLog, payload, fetchedAt)

	archivedFile := filepath.Join(dir, "20260114", "trip_updates_20260114_083015.pb.gz")
	file, err := os.Open(archivedFile)
	is.NoErr(err)
	defer func() {
		_ = file.Close()
	}()

	gzipReader, err := gzip.NewReader(file)
	is.NoErr(err)
	recovered, err := io.ReadAll(gzipReader)
	is.NoErr(err)
	is.Equal(recovered, payload)
}

func Test_feedArchive_prune(t *testing.T) {
	is := is.New(t)
	testLog := logger.New(os.Stdout, "TEST : ", logger.LstdFlags)
	dir := t.TempDir()

	for _, name := range []string{"20251001", "20260113", "notadate"} {
		is.NoErr(os.Mkdir(filepath.Join(dir, name), 0o755))
	}

	archive := makeFeedArchive(dir, 90)
	now := time.Date(2026, 1, 14, 8, 0, 0, 0, time.UTC)
	archive.prune(testLog, now)

	if _, err := os.Stat(filepath.Join(dir, "20251001")); !os.IsNotExist(err) {
		t.Errorf("expected expired directory 20251001 to be removed")
	}
	if _, err := os.Stat(filepath.Join(dir, "20260113")); err != nil {
		t.Errorf("expected recent directory 20260113 to survive, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "notadate")); err != nil {
		t.Errorf("expected non-date directory to be left alone, got %v", err)
	}
}

func Test_feedArchive_pruneMissingDirectory(t *testing.T) {
	testLog := logger.New(os.Stdout, "TEST : ", logger.LstdFlags)
	archive := makeFeedArchive(filepath.Join(t.TempDir(), "never-created"), 90)
	//must not panic or create the directory
	archive.prune(testLog, time.Now())
}
