package http

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/carlmjohnson/requests"

	"github.com/vedsharma/apitester/internal/model"
)

const (
	// MaxResponseSize limits response body to 50MB to prevent memory exhaustion
	MaxResponseSize = 50 * 1024 * 1024
)

// State is the phase of a single send
type State int

const (
	Idle State = iota
	Sending
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Sending:
		return "sending"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of one send. Record is never nil: a failed send
// carries an error record and Err holds the cause.
type Result struct {
	State  State
	Record *model.ResponseRecord
	Err    error
}

// Client sends RequestDescriptors and normalizes what comes back
type Client struct {
	client *http.Client
	now    func() time.Time

	// OnStateChange, when set, is called on every state transition
	OnStateChange func(State)
}

// Option configures a Client
type Option func(*Client)

// WithTimeout bounds each send. Zero leaves the transport default (no timeout).
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithHTTPClient replaces the underlying client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithClock replaces the time source used for timing
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a new HTTP client
func NewClient(opts ...Option) *Client {
	c := &Client{
		client: &http.Client{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send performs one request. It never retries.
func (c *Client) Send(ctx context.Context, desc model.RequestDescriptor) Result {
	c.transition(Sending)
	start := c.now()

	elapsed := func() int64 {
		ms := c.now().Sub(start).Milliseconds()
		if ms < 0 {
			return 0
		}
		return ms
	}

	fail := func(err error) Result {
		c.transition(Failed)
		slog.Debug("request failed", "method", desc.Method, "url", desc.URL, "error", err)
		return Result{
			State:  Failed,
			Record: model.NewErrorRecord(err.Error(), elapsed()),
			Err:    err,
		}
	}

	if err := validateURL(desc.URL); err != nil {
		return fail(err)
	}

	rb := requests.
		URL(desc.URL).
		Method(desc.Method).
		Client(c.client).
		AddValidator(acceptAnyStatus)

	for _, h := range desc.Headers.All() {
		rb.Header(h.Key, h.Value)
	}

	if desc.HasBody() {
		rb.BodyBytes([]byte(desc.Body))
		if !hasHeader(desc.Headers, "Content-Type") {
			rb.ContentType("application/json")
		}
	}

	var record *model.ResponseRecord
	rb.Handle(func(res *http.Response) error {
		rec, err := readResponse(res, elapsed())
		if err != nil {
			return err
		}
		record = rec
		return nil
	})

	if err := rb.Fetch(ctx); err != nil {
		return fail(err)
	}

	c.transition(Completed)
	slog.Debug("request completed",
		"method", desc.Method,
		"url", desc.URL,
		"status", record.Status,
		"timing_ms", record.TimingMs,
		"size", record.SizeBytes)

	return Result{State: Completed, Record: record}
}

func (c *Client) transition(s State) {
	if c.OnStateChange != nil {
		c.OnStateChange(s)
	}
}

// acceptAnyStatus keeps non-2xx responses; they are results, not failures
func acceptAnyStatus(*http.Response) error {
	return nil
}

// readResponse classifies, parses and measures a response
func readResponse(res *http.Response, timingMs int64) (*model.ResponseRecord, error) {
	// Read response body with size limit to prevent memory exhaustion
	body, err := io.ReadAll(io.LimitReader(res.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if len(body) > MaxResponseSize {
		body = body[:MaxResponseSize]
		slog.Warn("response body truncated", "limit_bytes", MaxResponseSize)
	}

	var data any
	if model.IsJSONContentType(res.Header.Get("Content-Type")) {
		text, err := model.StringifyJSON(body)
		if err != nil {
			return nil, fmt.Errorf("failed to parse JSON response: %w", err)
		}
		data = model.RawJSON(text)
	} else {
		data = string(body)
	}

	return &model.ResponseRecord{
		Status:     res.StatusCode,
		StatusText: statusText(res),
		Headers:    flattenHeaders(res.Header),
		Data:       data,
		TimingMs:   timingMs,
		SizeBytes:  len(model.DataText(data)),
	}, nil
}

// statusText strips the numeric code from "200 OK"
func statusText(res *http.Response) string {
	return strings.TrimSpace(strings.TrimPrefix(res.Status, strconv.Itoa(res.StatusCode)))
}

// flattenHeaders lower-cases names, orders them and keeps the last value of repeats
func flattenHeaders(h http.Header) model.Headers {
	last := make(map[string]string, len(h))
	for key, values := range h {
		if len(values) == 0 {
			continue
		}
		last[strings.ToLower(key)] = values[len(values)-1]
	}

	keys := make([]string, 0, len(last))
	for key := range last {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	kv := make([]string, 0, 2*len(keys))
	for _, key := range keys {
		kv = append(kv, key, last[key])
	}
	return model.NewHeaders(kv...)
}

func hasHeader(h model.Headers, name string) bool {
	for _, key := range h.Keys() {
		if strings.EqualFold(key, name) {
			return true
		}
	}
	return false
}

// validateURL checks the URL for potential SSRF vulnerabilities
func validateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	// Ensure scheme is http or https
	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %q (only http and https are allowed)", parsed.Scheme)
	}

	hostname := parsed.Hostname()
	if hostname == "" {
		return fmt.Errorf("URL must have a hostname")
	}

	if scheme == "http" {
		slog.Debug("using insecure HTTP connection", "host", hostname)
	}

	lowerHost := strings.ToLower(hostname)
	if lowerHost == "localhost" || lowerHost == "127.0.0.1" || lowerHost == "::1" {
		slog.Debug("request to loopback address", "host", hostname)
	}

	if isPrivateOrReservedHost(hostname) {
		slog.Warn("request to private/internal IP address", "host", hostname)
	}

	// Block cloud metadata endpoints (common SSRF targets)
	if isCloudMetadataEndpoint(hostname) {
		return fmt.Errorf("blocked request to cloud metadata endpoint: %s", hostname)
	}

	return nil
}

// isPrivateOrReservedHost checks if the hostname is a private or reserved IP
func isPrivateOrReservedHost(hostname string) bool {
	privatePatterns := []string{
		"10.",      // 10.0.0.0/8
		"192.168.", // 192.168.0.0/16
		"172.16.", "172.17.", "172.18.", "172.19.", // 172.16.0.0/12
		"172.20.", "172.21.", "172.22.", "172.23.",
		"172.24.", "172.25.", "172.26.", "172.27.",
		"172.28.", "172.29.", "172.30.", "172.31.",
		"0.",       // 0.0.0.0/8
		"169.254.", // Link-local
	}

	for _, pattern := range privatePatterns {
		if strings.HasPrefix(hostname, pattern) {
			return true
		}
	}

	return false
}

// isCloudMetadataEndpoint checks if the hostname is a cloud metadata service
func isCloudMetadataEndpoint(hostname string) bool {
	metadataHosts := map[string]bool{
		"169.254.169.254":          true, // AWS, GCP, Azure metadata
		"metadata.google.internal": true, // GCP metadata
		"metadata.goog":            true, // GCP metadata alternative
		"100.100.100.200":          true, // Alibaba Cloud metadata
		"169.254.170.2":            true, // AWS ECS task metadata
	}

	return metadataHosts[strings.ToLower(hostname)]
}
