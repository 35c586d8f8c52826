package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"ChannelFeed/internal/config"
	"ChannelFeed/internal/domain"
	"ChannelFeed/internal/ports"
)

// PageFetcher downloads the public web preview of a channel (t.me/s/<name>).
type PageFetcher struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

var _ ports.PageFetcher = (*PageFetcher)(nil)

// NewPageFetcher builds a fetcher from channel settings. A nil client gets a
// default one whose timeout comes from cfg.Timeout (zero means none).
func NewPageFetcher(cfg config.ChannelConfig, client *http.Client) *PageFetcher {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &PageFetcher{
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		client:    client,
	}
}

// FetchPage issues a single GET for the channel page and returns its markup.
// Any transport failure or non-2xx response is reported as *domain.FetchError.
func (f *PageFetcher) FetchPage(ctx context.Context, channel string) (string, error) {
	pageURL := f.baseURL + channel
	fail := func(status int, err error) error {
		return &domain.FetchError{Channel: channel, URL: pageURL, StatusCode: status, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fail(0, fmt.Errorf("new request: %w", err))
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fail(0, fmt.Errorf("do request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fail(resp.StatusCode, fmt.Errorf("telegram returned %s", resp.Status))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fail(0, fmt.Errorf("read body: %w", err))
	}

	return string(body), nil
}
