// Package a1111 implements the Backend port against the Automatic1111 Stable Diffusion web UI API.
package a1111

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.trai.ch/sdnode/internal/adapters/imagecodec"
	"go.trai.ch/sdnode/internal/core/domain"
	"go.trai.ch/sdnode/internal/core/ports"
	"go.trai.ch/zerr"
)

// API paths.
const (
	Img2ImgPath = "/sdapi/v1/img2img"
	OptionsPath = "/sdapi/v1/options"
)

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

const maxDetailLen = 512

var _ ports.Backend = (*Client)(nil)

// Client implements ports.Backend over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    ports.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithMetrics records the latency and status of every request.
func WithMetrics(metrics ports.Metrics) Option {
	return func(c *Client) {
		c.metrics = metrics
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// New creates a Client for the backend described by cfg.
func New(cfg domain.BackendConfig, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL(), "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the root URL requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Img2Img posts the payload to the img2img endpoint and returns the generated images.
func (c *Client) Img2Img(ctx context.Context, payload *domain.Img2ImgPayload) (*domain.GenerationResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrBackendRequestFailed.Error())
	}

	data, err := c.do(ctx, http.MethodPost, Img2ImgPath, body)
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(data) {
		return nil, zerr.With(domain.ErrBackendResponseInvalid, "reason", "response is not valid JSON")
	}

	images := gjson.GetBytes(data, "images")
	if !images.IsArray() || len(images.Array()) == 0 {
		return nil, zerr.With(domain.ErrBackendResponseInvalid, "reason", "response has no images")
	}

	result := &domain.GenerationResult{
		Info: gjson.GetBytes(data, "info").String(),
	}
	for _, img := range images.Array() {
		if img.Type != gjson.String {
			return nil, zerr.With(domain.ErrBackendResponseInvalid, "reason", "image is not a string")
		}
		result.Images = append(result.Images, imagecodec.StripDataURL(img.String()))
	}

	return result, nil
}

// Ping fetches the web UI options and returns the loaded model checkpoint.
func (c *Client) Ping(ctx context.Context) (string, error) {
	data, err := c.do(ctx, http.MethodGet, OptionsPath, nil)
	if err != nil {
		return "", err
	}
	return gjson.GetBytes(data, "sd_model_checkpoint").String(), nil
}

// do sends a request and returns the body of a 2xx response.
func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrBackendRequestFailed.Error()), "path", path)
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(path, 0, start)
		unavailable := zerr.Wrap(err, domain.ErrBackendUnavailable.Error())
		unavailable = zerr.With(unavailable, "url", c.baseURL)
		return nil, zerr.With(unavailable, "request_id", requestID)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	c.observe(path, resp.StatusCode, start)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrBackendRequestFailed.Error()), "path", path)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := zerr.With(domain.ErrBackendRequestFailed, "status_code", resp.StatusCode)
		apiErr = zerr.With(apiErr, "path", path)
		apiErr = zerr.With(apiErr, "request_id", requestID)
		if detail := errorDetail(data); detail != "" {
			apiErr = zerr.With(apiErr, "detail", detail)
		}
		return nil, apiErr
	}

	return data, nil
}

func (c *Client) observe(path string, status int, start time.Time) {
	if c.metrics != nil {
		c.metrics.ObserveBackendRequest(path, status, time.Since(start))
	}
}

// errorDetail extracts a readable message from an error response body.
func errorDetail(data []byte) string {
	if gjson.ValidBytes(data) {
		for _, path := range []string{"detail", "error", "errors"} {
			if v := gjson.GetBytes(data, path); v.Exists() {
				return truncate(v.String())
			}
		}
	}
	return truncate(strings.TrimSpace(string(data)))
}

func truncate(s string) string {
	if len(s) > maxDetailLen {
		return s[:maxDetailLen] + "..."
	}
	return s
}
