// Package transport provides the HTTP transport used by the paginator to
// reach the bank API.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Sternrassler/bank-transactions-client/pkg/logging"
	"github.com/Sternrassler/bank-transactions-client/pkg/pagination"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for bank requests.
var (
	bankRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bank_requests_total",
		Help: "Total bank API requests by HTTP status",
	}, []string{"status"})

	bankRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bank_request_duration_seconds",
		Help:    "Bank API request duration in seconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	})

	bankTransportErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bank_transport_errors_total",
		Help: "Total transport errors by class",
	}, []string{"class"})
)

// Config holds the transport configuration.
type Config struct {
	// User-Agent header (REQUIRED)
	UserAgent string

	// Timeout per request
	Timeout time.Duration

	// MaxBodyBytes caps the size of a decoded page body
	MaxBodyBytes int64

	// Logger defaults to logging.NewLogger("transport")
	Logger *zerolog.Logger
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(userAgent string) Config {
	return Config{
		UserAgent:    userAgent,
		Timeout:      30 * time.Second,
		MaxBodyBytes: 10 << 20,
	}
}

// HTTP sends page requests over net/http and decodes transactions pages.
type HTTP struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

var _ pagination.Transport = (*HTTP)(nil)

// New creates a new HTTP transport.
func New(cfg Config) (*HTTP, error) {
	if cfg.UserAgent == "" {
		return nil, ErrEmptyUserAgent
	}

	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be > 0 (got %s)", cfg.Timeout)
	}

	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultConfig(cfg.UserAgent).MaxBodyBytes
	}

	return &HTTP{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config: cfg,
		logger: logging.ForComponent(cfg.Logger, "transport"),
	}, nil
}

// Send performs one request and returns the status code together with the
// decoded page. Non-200 responses are not errors: they are returned with a
// nil body for the caller to judge. An empty body also yields a nil body.
func (t *HTTP) Send(ctx context.Context, method, url string, headers map[string]string) (*pagination.PageResponse, error) {
	startTime := time.Now()
	defer func() {
		bankRequestDuration.Observe(time.Since(startTime).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, t.fail(&Error{ErrorClass: ErrorClassRequest, Message: "create request", Err: err})
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}
	req.Header.Set("User-Agent", t.config.UserAgent)

	t.logger.Debug().
		Str("method", method).
		Str("path", req.URL.Path).
		Str("query", req.URL.RawQuery).
		Msg("Executing bank request")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		bankRequestsTotal.WithLabelValues("network_error").Inc()
		return nil, t.fail(&Error{ErrorClass: ErrorClassNetwork, Message: "http request", Err: err})
	}
	defer resp.Body.Close()

	status := strconv.Itoa(resp.StatusCode)
	bankRequestsTotal.WithLabelValues(status).Inc()

	if resp.StatusCode != http.StatusOK {
		t.logger.Warn().
			Str("path", req.URL.Path).
			Int("status", resp.StatusCode).
			Msg("Bank returned non-200 status")
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, t.config.MaxBodyBytes))
		return &pagination.PageResponse{StatusCode: resp.StatusCode}, nil
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, t.config.MaxBodyBytes+1))
	if err != nil {
		return nil, t.fail(&Error{ErrorClass: ErrorClassNetwork, StatusCode: resp.StatusCode, Message: "read body", Err: err})
	}
	if int64(len(data)) > t.config.MaxBodyBytes {
		return nil, t.fail(&Error{
			ErrorClass: ErrorClassDecode,
			StatusCode: resp.StatusCode,
			Message:    "body too large",
			Err:        fmt.Errorf("body exceeds %d bytes", t.config.MaxBodyBytes),
		})
	}

	body, err := decodeBody(data)
	if err != nil {
		return nil, t.fail(&Error{ErrorClass: ErrorClassDecode, StatusCode: resp.StatusCode, Message: "decode body", Err: err})
	}

	t.logger.Debug().
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(startTime)).
		Msg("Bank request complete")

	return &pagination.PageResponse{StatusCode: resp.StatusCode, Body: body}, nil
}

// decodeBody decodes a page document. Empty and null bodies decode to nil.
func decodeBody(data []byte) (*pagination.PageBody, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var body *pagination.PageBody
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, err
	}
	return body, nil
}

func (t *HTTP) fail(err *Error) error {
	bankTransportErrorsTotal.WithLabelValues(string(err.ErrorClass)).Inc()
	t.logger.Error().
		Err(err.Err).
		Str("error_class", string(err.ErrorClass)).
		Msg(err.Message)
	return err
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (t *HTTP) SetHTTPClient(client *http.Client) {
	t.httpClient = client
}
