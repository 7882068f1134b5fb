// Package sanity implements the TargetStore port against the Sanity
// HTTP API: document mutation transactions, GROQ prefix queries and
// binary asset uploads. Only the operations the migration consumes are
// wrapped; everything else the platform offers is out of scope.
package sanity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"

	"github.com/hifiworks/sanity-migrate/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.TargetStore = (*Client)(nil)

// Default configuration values.
const (
	DefaultTimeout = 60 * time.Second

	// apiVersion pins the API date for stable behaviour.
	apiVersion = "v2021-10-21"
)

// Config holds configuration for the Sanity client.
type Config struct {
	// ProjectID identifies the target project (required).
	ProjectID string

	// Dataset is the target dataset (required).
	Dataset string

	// Token is the write-capable API token. Read-only operations
	// work without it on public datasets.
	Token string

	// BaseURL overrides the API host, for tests.
	BaseURL string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration
}

// Client talks to the Sanity HTTP API.
type Client struct {
	client  *http.Client
	baseURL string
	dataset string
}

// NewClient creates a Sanity API client. The token rides on every
// request via a bearer-token HTTP client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.ProjectID == "" || cfg.Dataset == "" {
		return nil, fmt.Errorf("sanity: project ID and dataset are required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.api.sanity.io", cfg.ProjectID)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := &http.Client{Timeout: timeout}
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		httpClient = oauth2.NewClient(context.Background(), ts)
		httpClient.Timeout = timeout
	}

	return &Client{
		client:  httpClient,
		baseURL: baseURL,
		dataset: cfg.Dataset,
	}, nil
}

// queryResponse is the GROQ query response envelope.
type queryResponse struct {
	Result []string `json:"result"`
	Error  *struct {
		Description string `json:"description"`
	} `json:"error,omitempty"`
}

// DocumentIDs returns all document IDs starting with prefix.
func (c *Client) DocumentIDs(ctx context.Context, prefix string) ([]string, error) {
	groq := fmt.Sprintf(`*[_id match %q]._id`, prefix+"*")
	endpoint := fmt.Sprintf("%s/%s/data/query/%s?query=%s",
		c.baseURL, apiVersion, c.dataset, url.QueryEscape(groq))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build query request: %w", err)
	}

	var out queryResponse
	if err := c.do(req, &out); err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	if out.Error != nil {
		return nil, fmt.Errorf("query documents: %s", out.Error.Description)
	}
	return out.Result, nil
}

// mutateRequest is the transaction body for the mutate endpoint.
type mutateRequest struct {
	Mutations []map[string]any `json:"mutations"`
}

// mutateResponse is the mutate endpoint's response envelope.
type mutateResponse struct {
	TransactionID string `json:"transactionId"`
	Error         *struct {
		Description string `json:"description"`
	} `json:"error,omitempty"`
}

// Commit applies all mutations as one atomic transaction.
func (c *Client) Commit(ctx context.Context, mutations []driven.Mutation) error {
	if len(mutations) == 0 {
		return nil
	}

	body := mutateRequest{Mutations: make([]map[string]any, 0, len(mutations))}
	for _, m := range mutations {
		switch {
		case m.CreateOrReplace != nil:
			body.Mutations = append(body.Mutations, map[string]any{"createOrReplace": m.CreateOrReplace})
		case m.DeleteID != "":
			body.Mutations = append(body.Mutations, map[string]any{"delete": map[string]string{"id": m.DeleteID}})
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode mutations: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/data/mutate/%s", c.baseURL, apiVersion, c.dataset)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build mutate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out mutateResponse
	if err := c.do(req, &out); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	if out.Error != nil {
		return fmt.Errorf("commit transaction: %s", out.Error.Description)
	}
	return nil
}

// assetResponse is the asset upload response envelope.
type assetResponse struct {
	Document struct {
		ID string `json:"_id"`
	} `json:"document"`
	Error *struct {
		Description string `json:"description"`
	} `json:"error,omitempty"`
}

// UploadAsset uploads binary content and returns the assigned asset ID.
func (c *Client) UploadAsset(ctx context.Context, kind driven.AssetKind, filename string, data []byte) (string, error) {
	endpoint := fmt.Sprintf("%s/%s/assets/%ss/%s?filename=%s",
		c.baseURL, apiVersion, kind, c.dataset, url.QueryEscape(filename))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentTypeFor(filename))

	var out assetResponse
	if err := c.do(req, &out); err != nil {
		return "", fmt.Errorf("upload asset: %w", err)
	}
	if out.Error != nil {
		return "", fmt.Errorf("upload asset: %s", out.Error.Description)
	}
	if out.Document.ID == "" {
		return "", fmt.Errorf("upload asset: response missing document ID")
	}
	return out.Document.ID, nil
}

// do executes a request and decodes the JSON response into out.
// Non-2xx responses become errors carrying the response body.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("status %d: %s", resp.StatusCode, truncate(body, 256))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// contentTypeFor guesses a MIME type from the filename extension.
func contentTypeFor(filename string) string {
	if ct := mime.TypeByExtension(filepath.Ext(filename)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
