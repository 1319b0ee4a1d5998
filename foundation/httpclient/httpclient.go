// Package httpclient provides basic http functions
package httpclient

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// DownloadedFile contains information about a file that has been downloaded to the local file system
type DownloadedFile struct {
	URL           string
	LocalFilePath string
	Size          int64
	DownloadedAt  time.Time
}

// DownloadRemoteFile retrieves a file from a url to a local file destination.
// Responds with an error on any non-2xx status so a failed download never
// leaves a partial file looking complete.
// On success returns information about the file in DownloadedFile
func DownloadRemoteFile(destinationFileName string, url string) (*DownloadedFile, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s retrieving %s", resp.Status, url)
	}

	out, err := os.Create(destinationFileName)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = out.Close()
	}()

	bytesWritten, err := io.Copy(out, resp.Body)
	if err != nil {
		return nil, err
	}

	result := DownloadedFile{
		URL:           url,
		LocalFilePath: destinationFileName,
		Size:          bytesWritten,
		DownloadedAt:  time.Now(),
	}
	return &result, nil
}
