package versioncheck

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const maxReleasesBody = 1 << 20

type FetcherConfig struct {
	URL      string
	UniqueID string
	Timeout  time.Duration
}

// HTTPFetcher asks the remote update service which releases exist.
type HTTPFetcher struct {
	url      string
	uniqueID string
	client   *http.Client
	logger   *slog.Logger
}

func NewHTTPFetcher(config FetcherConfig, logger *slog.Logger) *HTTPFetcher {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPFetcher{
		url:      config.URL,
		uniqueID: config.UniqueID,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, currentVersion string) (*Releases, error) {
	u, err := url.Parse(f.url)
	if err != nil {
		return nil, fmt.Errorf("invalid version check url: %w", err)
	}
	q := u.Query()
	q.Set("version", currentVersion)
	if f.uniqueID != "" {
		q.Set("uniqueId", f.uniqueID)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build version check request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "chat-admin/"+currentVersion)

	f.logger.Debug("fetching release metadata", "url", u.Redacted())

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("version check request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("version check returned status %d", resp.StatusCode)
	}

	var releases Releases
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxReleasesBody)).Decode(&releases); err != nil {
		return nil, fmt.Errorf("failed to decode release metadata: %w", err)
	}

	return &releases, nil
}
