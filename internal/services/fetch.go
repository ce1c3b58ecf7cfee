package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/studydeck/studydeck-backend/internal/pkg/ctxutil"
)

var fileClient = &http.Client{Timeout: 120 * time.Second}

// fetchFile downloads the stored document bytes from its signed URL.
func fetchFile(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("document has no file URL")
	}
	req, err := http.NewRequestWithContext(ctxutil.Default(ctx), "GET", url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := fileClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch file: http %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("fetched file is empty")
	}
	return data, nil
}
