// Package docstore implements the remote JSON document service client the
// sync adapter pushes snapshots to and pulls them from. The service is a
// plain document-per-URL store: POST creates, PUT replaces, GET fetches.
package docstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config contains configuration for the document store client.
type Config struct {
	// BaseURL is the collection endpoint. Document URLs are formed by
	// appending "/{id}".
	BaseURL string

	// APIKey is sent as a bearer token when non-empty.
	APIKey string

	// Timeout is the HTTP request timeout.
	Timeout time.Duration

	// Logger for structured logging.
	Logger *slog.Logger
}

// DefaultConfig returns sensible defaults for the given endpoint.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrDocumentNotFound is returned when the document id is unknown to
	// the service.
	ErrDocumentNotFound = errors.New("docstore: document not found")

	// ErrNoDocumentID is returned when a create response carries no
	// usable document location.
	ErrNoDocumentID = errors.New("docstore: create response carried no document id")

	// ErrRemoteFailure is returned for any non-2xx response other than 404.
	ErrRemoteFailure = errors.New("docstore: remote request failed")
)

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client talks to the document service.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a document store client.
func NewClient(config Config) *Client {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		logger:     config.Logger,
	}
}

func (c *Client) documentURL(id string) string {
	return strings.TrimRight(c.config.BaseURL, "/") + "/" + id
}

func (c *Client) newRequest(ctx context.Context, method, url string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}
	return req, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// OPERATIONS
// ══════════════════════════════════════════════════════════════════════════════

// Create provisions a new document and returns its id. The service
// announces the new document in the Location header; the id is the
// trailing path segment.
func (c *Client) Create(ctx context.Context, body []byte) (string, error) {
	req, err := c.newRequest(ctx, http.MethodPost, strings.TrimRight(c.config.BaseURL, "/"), body)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: create returned status %d", ErrRemoteFailure, resp.StatusCode)
	}

	location := resp.Header.Get("Location")
	if location == "" {
		return "", ErrNoDocumentID
	}
	id := location[strings.LastIndex(location, "/")+1:]
	if id == "" {
		return "", ErrNoDocumentID
	}

	c.logger.Info("remote document created", "document_id", id)
	return id, nil
}

// Replace overwrites the document's content with body.
func (c *Client) Replace(ctx context.Context, id string, body []byte) error {
	req, err := c.newRequest(ctx, http.MethodPut, c.documentURL(id), body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("%w: replace returned status %d", ErrRemoteFailure, resp.StatusCode)
	}
	return nil
}

// Fetch returns the document's current content.
func (c *Client) Fetch(ctx context.Context, id string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.documentURL(id), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: fetch returned status %d", ErrRemoteFailure, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}
