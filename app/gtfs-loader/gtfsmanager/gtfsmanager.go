// Package gtfsmanager loads static gtfs schedule reference files into the
// database, replacing the previous contents wholesale inside one transaction.
package gtfsmanager

import (
	"archive/zip"
	"fmt"
	"github.com/hfxtransit/otpmon/foundation/httpclient"
	"github.com/jmoiron/sqlx"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// gtfsRowReader interface defines methods used to read rows from a gtfs csv file and record them to a database
type gtfsRowReader interface {

	// addRow should read the current line from gtfsFileParser and accumulate the resulting record
	addRow(parser *gtfsFileParser) error

	// record should replace the matching reference table contents with the accumulated records
	record(tx *sqlx.Tx) error
}

// gtfsScheduleFile names one csv file inside the gtfs zip and the reader that handles it
type gtfsScheduleFile struct {
	filename string
	required bool
	reader   gtfsRowReader
}

// scheduleFiles lists the reference files loaded from the gtfs zip.
// stop_times.txt is not loaded, scheduled stop times are not needed to measure
// delays reported by the realtime feed.
func scheduleFiles() []gtfsScheduleFile {
	return []gtfsScheduleFile{
		{filename: "routes.txt", required: true, reader: &routeRowReader{}},
		{filename: "stops.txt", required: true, reader: &stopRowReader{}},
		{filename: "trips.txt", required: true, reader: &tripRowReader{}},
		{filename: "calendar.txt", required: false, reader: &calendarRowReader{}},
		{filename: "calendar_dates.txt", required: false, reader: &calendarDateRowReader{}},
	}
}

// UpdateGTFSSchedule downloads the gtfs zip file from url into localDownloadDirectory
// and replaces the reference tables with its contents
func UpdateGTFSSchedule(log *log.Logger,
	db *sqlx.DB,
	url string,
	localDownloadDirectory string) error {

	err := makeDirectoryIfNotPresent(localDownloadDirectory)
	if err != nil {
		return fmt.Errorf("unable to create directory:%v error: %v", localDownloadDirectory, err)
	}
	destinationFile := filepath.Join(localDownloadDirectory, "gtfs.zip")

	start := time.Now()
	log.Printf("Downloading gtfs file at %v\n", url)
	downloadedFile, err := httpclient.DownloadRemoteFile(destinationFile, url)
	if err != nil {
		return err
	}
	defer func() {
		err = os.Remove(downloadedFile.LocalFilePath)
		if err != nil {
			log.Printf("unable to remove downloaded file %v, error:%v", downloadedFile.LocalFilePath, err)
		}
	}()

	log.Printf("Downloaded %v bytes in %v seconds\n",
		downloadedFile.Size, downloadedFile.DownloadedAt.Unix()-start.Unix())

	return loadGTFSScheduleFromFile(log, db, downloadedFile.LocalFilePath)
}

// loadGTFSScheduleFromFile replaces reference tables from gtfs zip file at localFilePath
// wrapped inside single transaction
func loadGTFSScheduleFromFile(log *log.Logger, db *sqlx.DB, localFilePath string) error {
	zipReader, err := zip.OpenReader(localFilePath)
	if err != nil {
		return fmt.Errorf("unable to open zip file %v, error: %v", localFilePath, err)
	}
	defer func() {
		closeErr := zipReader.Close()
		if closeErr != nil {
			log.Printf("unable to close zip file %v, error:%v", localFilePath, closeErr)
		}
	}()

	files := scheduleFiles()
	loaded := make([]gtfsRowReader, 0, len(files))
	for _, scheduleFile := range files {
		zipFile := findFileInZip(&zipReader.Reader, scheduleFile.filename)
		if zipFile == nil {
			if scheduleFile.required {
				return fmt.Errorf("unable to find required file %v in %v", scheduleFile.filename, localFilePath)
			}
			log.Printf("optional file %v not present, skipping", scheduleFile.filename)
			continue
		}
		err = readZipFileRows(zipFile, scheduleFile.filename, scheduleFile.reader)
		if err != nil {
			return err
		}
		loaded = append(loaded, scheduleFile.reader)
	}

	return transact(log, db, func(tx *sqlx.Tx) error {
		for _, reader := range loaded {
			if err := reader.record(tx); err != nil {
				return err
			}
		}
		return nil
	})
}

// findFileInZip locates filename inside zipReader, returns nil when absent
func findFileInZip(zipReader *zip.Reader, filename string) *zip.File {
	for _, file := range zipReader.File {
		if file.Name == filename {
			return file
		}
	}
	return nil
}

// readZipFileRows opens zipFile and feeds every row into rowReader
func readZipFileRows(zipFile *zip.File, filename string, rowReader gtfsRowReader) error {
	fileReader, err := zipFile.Open()
	if err != nil {
		return fmt.Errorf("unable to open %v, error: %v", filename, err)
	}
	defer func() {
		_ = fileReader.Close()
	}()
	parser, err := makeGTFSFileParser(fileReader, filename)
	if err != nil {
		return err
	}
	return loadGTFSRows(parser, rowReader)
}

// loadGTFSRows iterates over all rows in gtfsFileParser and feeds them into rowReader.
// reading halts if an error occurs and the error is returned
func loadGTFSRows(parser *gtfsFileParser, rowReader gtfsRowReader) error {
	for {
		err := parser.nextLine()

		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		err = rowReader.addRow(parser)
		if err != nil {
			return err
		}
	}
	return nil
}

func makeDirectoryIfNotPresent(directory string) error {
	if _, err := os.Stat(directory); os.IsNotExist(err) {
		err = os.Mkdir(directory, os.ModePerm)
		if err != nil {
			return err
		}
	}
	return nil
}

/*
transact starts a Transaction on sqlx.DB, calls txFunc and commits or rolls back the transaction depending on the
return code of the txFunc result
*/
func transact(log *log.Logger, db *sqlx.DB, txFunc func(*sqlx.Tx) error) (err error) {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			rollbackErr := tx.Rollback() // err is non-nil; don't change it
			if rollbackErr != nil {
				log.Printf("Received error while attempting to rollback transaction. error:%v", rollbackErr)
			}
			return
		}
		err = tx.Commit() // err is nil; if Commit returns error update err
	}()
	err = txFunc(tx)
	return err
}
