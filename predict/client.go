package predict

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxResponseSize caps how much of a reply body is kept for display
const maxResponseSize = 16 << 20

// DefaultField is the multipart field name the prediction endpoint reads
const DefaultField = "video"

// Client uploads videos to a prediction endpoint
type Client struct {
	endpoint  string
	field     string
	userAgent string
	http      *http.Client
	log       zerolog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithField sets the multipart field carrying the video
func WithField(field string) Option {
	return func(c *Client) { c.field = field }
}

// WithTimeout bounds the whole request. Zero means no timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.http.Timeout = timeout }
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for request tracing
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// NewClient creates a client for the given endpoint URL
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:  endpoint,
		field:     DefaultField,
		userAgent: "fakecheck",
		http:      &http.Client{},
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the URL uploads are sent to
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Predict uploads the file at path and returns the endpoint's reply.
// Non-2xx replies are returned as *StatusError.
func (c *Client) Predict(ctx context.Context, path string, onProgress ProgressFunc) (*Response, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open video: %w", err)
	}
	defer func() { _ = f.Close() }()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat video: %w", err)
	}

	body, contentType, total, err := c.multipartBody(f, filepath.Base(path), fi.Size())
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &progressReader{
		r:      body,
		total:  total,
		onRead: onProgress,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.ContentLength = total
	requestID := uuid.New().String()
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	log := c.log.With().Str("request_id", requestID).Str("file", fi.Name()).Logger()
	log.Debug().Int64("bytes", total).Str("endpoint", c.endpoint).Msg("Uploading video")
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("Upload failed")
		return nil, fmt.Errorf("upload failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	log.Debug().
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Prediction response received")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			StatusCode:  resp.StatusCode,
			ContentType: resp.Header.Get("Content-Type"),
			Body:        data,
		}
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        data,
	}, nil
}

// multipartBody streams the file between a precomputed part header and closing boundary
// so the exact Content-Length is known before sending.
func (c *Client) multipartBody(file io.Reader, filename string, size int64) (io.Reader, string, int64, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if _, err := mw.CreateFormFile(c.field, filename); err != nil {
		return nil, "", 0, fmt.Errorf("failed to create form file: %w", err)
	}
	head := bytes.Clone(buf.Bytes())

	if err := mw.Close(); err != nil {
		return nil, "", 0, fmt.Errorf("failed to close multipart writer: %w", err)
	}
	tail := bytes.Clone(buf.Bytes()[len(head):])

	body := io.MultiReader(bytes.NewReader(head), io.LimitReader(file, size), bytes.NewReader(tail))
	total := int64(len(head)) + size + int64(len(tail))
	return body, mw.FormDataContentType(), total, nil
}
