package assets

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hifiworks/sanity-migrate/internal/core/domain"
	"github.com/hifiworks/sanity-migrate/internal/core/ports/driven"
)

// DefaultFetchTimeout bounds one asset download.
const DefaultFetchTimeout = 60 * time.Second

// Ensure HTTPFetcher implements the interface.
var _ driven.Fetcher = (*HTTPFetcher)(nil)

// HTTPFetcher downloads assets from the legacy host.
//
// The legacy server presents an expired self-signed certificate, so
// this client skips TLS verification. That trust relaxation applies to
// downloads from the legacy host ONLY; the target-store client uses
// its own fully-verified connection.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher for the legacy host.
func NewHTTPFetcher() *HTTPFetcher {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // legacy host only, see type doc

	return &HTTPFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   DefaultFetchTimeout,
			// The default policy follows redirects, resolving
			// relative Location headers against the request URL.
		},
	}
}

// Fetch downloads a URL and returns the body bytes. A non-2xx status
// or empty body is an error.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w: %s", domain.ErrRateLimited, url)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty body")
	}
	return data, nil
}
