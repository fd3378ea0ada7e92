// Package aprsfi posts map objects to the aprs.fi REST API.
package aprsfi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"aprsfi-client/failure"
)

const (
	DefaultBaseURL   = "https://api.aprs.fi/api/"
	DefaultUserAgent = "aprsfi-go-api-client 1.0"

	// RequestTimeout bounds every request made against the API or a source URL.
	RequestTimeout = 30 * time.Second

	maxResponseBytes = 1 << 20
)

// Config holds the endpoint and credentials. It is not modified after the
// Client is built.
type Config struct {
	BaseURL       string
	APIKey        string
	BasicAuthUser string
	BasicAuthPass string
	UserAgent     string
}

// Client posts objects one request at a time.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

// NewClient returns a Client for cfg. Empty BaseURL and UserAgent fall back
// to the defaults.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: RequestTimeout},
		logger: logger,
	}
}

type apiResponse struct {
	Result      string `json:"result"`
	Description string `json:"description"`
}

// PostObject sends obj to the API and logs exactly one line describing the
// outcome. The returned error carries a failure.Kind; callers that only
// care about the log can ignore it.
func (c *Client) PostObject(ctx context.Context, obj Object) error {
	desc := fmt.Sprintf("post loc '%s'", obj.DisplayName())

	status, body, err := c.post(ctx, "post", url.Values{"what": {"loc"}}, newObjectPayload(obj))
	if err != nil {
		c.logger.ErrorContext(ctx, "object post failed", "desc", desc, "error", err)
		return err
	}

	var res apiResponse
	if err := json.Unmarshal(body, &res); err != nil {
		err = failure.New(failure.KindUploadApplication, fmt.Errorf("failed to decode response: %w", err))
		c.logger.ErrorContext(ctx, "object rejected", "desc", desc, "status", status, "body", string(body), "error", err)
		return err
	}

	if res.Result != "ok" {
		err = failure.New(failure.KindUploadApplication, fmt.Errorf("api result %q: %s", res.Result, res.Description))
		c.logger.ErrorContext(ctx, "object rejected", "desc", desc, "status", status, "body", string(body))
		return err
	}

	c.logger.InfoContext(ctx, "object posted", "desc", desc, "status", status, "body", string(body))
	return nil
}

// post issues one authenticated POST and returns the status code and body of
// a 2xx response. A payload that cannot be encoded is a KindUploadApplication
// error and nothing is sent; any other failure is KindUploadTransport.
func (c *Client) post(ctx context.Context, path string, params url.Values, payload any) (int, []byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, failure.New(failure.KindUploadApplication, fmt.Errorf("failed to encode payload: %w", err))
	}

	params.Set("apikey", c.cfg.APIKey)
	endpoint := joinURL(c.cfg.BaseURL, path) + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return 0, nil, failure.New(failure.KindUploadTransport, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if c.cfg.BasicAuthUser != "" && c.cfg.BasicAuthPass != "" {
		req.SetBasicAuth(c.cfg.BasicAuthUser, c.cfg.BasicAuthPass)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, failure.New(failure.KindUploadTransport, fmt.Errorf("failed to execute request: %w", err))
	}
	defer resp.Body.Close()

	if err := failure.CheckStatus(resp.StatusCode, resp.Status); err != nil {
		return resp.StatusCode, nil, failure.New(failure.KindUploadTransport, err)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, failure.New(failure.KindUploadTransport, fmt.Errorf("failed to read response body: %w", err))
	}

	return resp.StatusCode, body, nil
}

// joinURL appends path to base with exactly one slash between them.
func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
