package rdapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/garyjia/proposal-tracker/internal/application/port"
	"github.com/garyjia/proposal-tracker/internal/domain/entity"
)

const maxErrorBody = 64 << 10

// Config configures the backend client
type Config struct {
	BaseURL       string
	Timeout       time.Duration
	UploadTimeout time.Duration
}

// Client talks to the proposal backend on behalf of one session. Session
// cookies live in its jar.
type Client struct {
	base     *url.URL
	jar      http.CookieJar
	http     *http.Client
	uploader *http.Client
	logger   *zap.Logger
}

// New creates a client, seeding the jar with cookies from an earlier login
func New(cfg Config, cookies []entity.Cookie, logger *zap.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid backend base url %q", cfg.BaseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	if len(cookies) > 0 {
		restored := make([]*http.Cookie, 0, len(cookies))
		for _, c := range (&entity.Session{Cookies: cookies}).HTTPCookies() {
			if c.Path == "" {
				c.Path = "/"
			}
			restored = append(restored, c)
		}
		jar.SetCookies(base, restored)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	uploadTimeout := cfg.UploadTimeout
	if uploadTimeout <= 0 {
		uploadTimeout = 5 * time.Minute
	}

	return &Client{
		base: base,
		jar:  jar,
		http: &http.Client{Jar: jar, Timeout: timeout},
		// presigned uploads go to object storage and must not carry cookies
		uploader: &http.Client{Timeout: uploadTimeout},
		logger:   logger,
	}, nil
}

// Cookies returns the session cookies currently held for the backend
func (c *Client) Cookies() []entity.Cookie {
	return entity.CookiesFromHTTP(c.jar.Cookies(c.base))
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = c.base.Path + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// do sends a JSON request and decodes a JSON response into out
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s %s request: %w", method, path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return fmt.Errorf("failed to build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("Backend request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return &NetworkError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("Backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
			Message:    errorMessage(resp.StatusCode, data),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// Factory builds clients that share one configuration
type Factory struct {
	cfg    Config
	logger *zap.Logger
}

// NewFactory creates a client factory
func NewFactory(cfg Config, logger *zap.Logger) *Factory {
	return &Factory{cfg: cfg, logger: logger}
}

// New implements port.APIFactory
func (f *Factory) New(cookies []entity.Cookie) (port.ProposalAPI, error) {
	return New(f.cfg, cookies, f.logger)
}

// BaseURL returns the configured backend base url
func (f *Factory) BaseURL() string {
	return f.cfg.BaseURL
}

var (
	_ port.ProposalAPI = (*Client)(nil)
	_ port.APIFactory  = (*Factory)(nil)
)
