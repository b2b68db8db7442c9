package media

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"

	"reelsmith/config"
)

// Downloader fetches a candidate's raw bytes. A failed fetch is "no result",
// not retried; the fallback chain moves on.
type Downloader struct {
	Client *http.Client
}

func NewDownloader() *Downloader {
	return &Downloader{Client: &http.Client{Timeout: config.DownloadTimeout}}
}

// Download returns the payload at url, or an error treated as a miss.
func (d *Downloader) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := d.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download: status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	log.Printf("[media] downloaded %d KB from %.80s", len(data)/1024, url)
	return data, nil
}
