// Copyright (c) 2025 Netskope, Inc. All rights reserved.

package domo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultUserAgent     = "domo-stream-client/1.0 (go)"
	defaultChunkBudgetKB = 10000
	// Error bodies are truncated to this many bytes in RemoteError messages.
	maxErrorBody = 512
)

// Config holds connection parameters for the warehouse client. Credentials
// are passed explicitly; the client keeps no process-wide state.
type Config struct {
	// Customer is the instance name, resolved to https://{customer}.domo.com.
	Customer string

	// BaseURL overrides the URL derived from Customer when set. Mainly
	// useful for tests and proxies.
	BaseURL string

	// Token is the developer token sent with every request.
	Token string

	// UserAgent overrides the default User-Agent header when set.
	UserAgent string

	// ChunkBudgetKB is the per-part upload budget in KB before compression
	// scaling. Defaults to 10000.
	ChunkBudgetKB int

	// HTTPClient overrides the transport. Defaults to a client with a
	// 5 minute timeout.
	HTTPClient *http.Client
}

// Client issues requests against a single warehouse instance.
//
// Use [New] to create a Client. All methods are safe for sequential use;
// the client itself holds no mutable state between calls.
type Client struct {
	baseURL       string
	token         string
	userAgent     string
	chunkBudgetKB int
	httpc         *http.Client
	logger        *zap.Logger
}

// New validates cfg and creates a Client. A missing token or missing
// customer/base URL yields an error wrapping [ErrMissingCredentials].
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("%w: developer token is empty", ErrMissingCredentials)
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		if cfg.Customer == "" {
			return nil, fmt.Errorf("%w: customer instance or base URL is required", ErrMissingCredentials)
		}
		baseURL = fmt.Sprintf("https://%s.domo.com", cfg.Customer)
	}
	baseURL = strings.TrimRight(baseURL, "/")

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	budget := cfg.ChunkBudgetKB
	if budget <= 0 {
		budget = defaultChunkBudgetKB
	}
	httpc := cfg.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Timeout: 5 * time.Minute}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:       baseURL,
		token:         cfg.Token,
		userAgent:     userAgent,
		chunkBudgetKB: budget,
		httpc:         httpc,
		logger:        logger,
	}, nil
}

// do issues one request and returns the response body. Any non-2xx response
// is converted to a *RemoteError before the caller sees the body, so callers
// only ever inspect successful payloads.
func (c *Client) do(ctx context.Context, method, path string, headers map[string]string, body io.Reader) ([]byte, error) {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("building %s %s: %w", method, url, err)
	}
	req.Header.Set("X-DOMO-Developer-Token", c.token)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s %s response: %w", method, url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(data))
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return nil, &RemoteError{
			Method:     method,
			URL:        url,
			StatusCode: resp.StatusCode,
			Message:    msg,
		}
	}

	return data, nil
}
