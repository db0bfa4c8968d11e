// Package graphql provides a typed GraphQL-over-HTTP client with response
// caching, error classification and request instrumentation.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Sternrassler/character-table/pkg/cache"
	"github.com/Sternrassler/character-table/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName is the instrumentation scope of the client's spans.
const tracerName = "github.com/Sternrassler/character-table/pkg/graphql"

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 8 << 20

// Prometheus metrics for GraphQL client operations.
var (
	graphqlRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "graphql_requests_total",
		Help: "Total GraphQL requests by operation and status",
	}, []string{"operation", "status"})

	graphqlRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "graphql_request_duration_seconds",
		Help:    "GraphQL request duration in seconds by operation",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"operation"})

	graphqlErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "graphql_errors_total",
		Help: "Total GraphQL errors by class",
	}, []string{"class"})
)

// Request is a GraphQL operation as sent on the wire.
type Request struct {
	OperationName string         `json:"operationName,omitempty"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// Response is the GraphQL response envelope.
type Response struct {
	Data   json.RawMessage `json:"data"`
	Errors Errors          `json:"errors,omitempty"`
}

// Client executes GraphQL operations against a single endpoint.
type Client struct {
	httpClient *http.Client
	cache      *cache.Manager
	config     Config
	logger     zerolog.Logger
	tracer     trace.Tracer
}

// Config holds the client configuration.
type Config struct {
	// Endpoint is the absolute GraphQL endpoint URL.
	Endpoint string

	// UserAgent header sent with every request.
	UserAgent string

	// Timeout for a single HTTP exchange. Zero means no timeout.
	Timeout time.Duration

	// Cache is the optional response cache. Nil disables caching.
	Cache *cache.Manager

	// CacheTTL is how long successful responses are cached.
	CacheTTL time.Duration
}

// DefaultConfig returns a default configuration without a cache.
func DefaultConfig(endpoint, userAgent string) Config {
	return Config{
		Endpoint:  endpoint,
		UserAgent: userAgent,
		Timeout:   30 * time.Second,
		CacheTTL:  60 * time.Second,
	}
}

// New creates a new GraphQL client.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("endpoint is required")
	}

	u, err := url.Parse(cfg.Endpoint)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("endpoint must be an absolute http(s) URL (got %q)", cfg.Endpoint)
	}

	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}

	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("timeout must be >= 0 (got %s)", cfg.Timeout)
	}

	if cfg.CacheTTL < 0 {
		return nil, fmt.Errorf("cache_ttl must be >= 0 (got %s)", cfg.CacheTTL)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		cache:  cfg.Cache,
		config: cfg,
		logger: logging.NewLogger("graphql-client"),
		tracer: otel.Tracer(tracerName),
	}, nil
}

// Do executes req and decodes the response's data field into out.
//
// A cached response is served when the client has a cache and an entry for
// the query identity exists. Only responses without GraphQL errors are
// cached. A null or absent data field leaves out untouched.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	operation := operationLabel(req)

	ctx, span := c.tracer.Start(ctx, "graphql "+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("graphql.operation.name", operation)),
	)
	defer span.End()

	startTime := time.Now()
	defer func() {
		graphqlRequestDuration.WithLabelValues(operation).Observe(time.Since(startTime).Seconds())
	}()

	cacheKey := cache.CacheKey{
		Operation: req.OperationName,
		Query:     req.Query,
		Variables: req.Variables,
	}

	// Step 1: Check Cache
	if c.cachingEnabled() {
		entry, err := c.cache.Get(ctx, cacheKey)
		switch {
		case err == nil:
			c.logger.Debug().
				Str("operation", operation).
				Str("store", c.cache.StoreName()).
				Msg("Cache hit")
			span.SetAttributes(attribute.Bool("graphql.cache_hit", true))
			graphqlRequestsTotal.WithLabelValues(operation, "cached").Inc()
			return c.decode(span, operation, http.StatusOK, entry.Data, out)
		case errors.Is(err, cache.ErrCacheMiss):
			c.logger.Debug().Str("operation", operation).Msg("Cache miss")
		default:
			c.logger.Warn().Err(err).Str("operation", operation).Msg("Cache get error")
		}
	}

	// Step 2: Build Request
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("User-Agent", c.config.UserAgent)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("operation", operation).
		Str("endpoint", c.config.Endpoint).
		Msg("Executing GraphQL request")

	// Step 3: Execute
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error().Err(err).Str("operation", operation).Msg("HTTP request failed")
		graphqlRequestsTotal.WithLabelValues(operation, "network_error").Inc()
		return c.fail(span, &RequestError{
			ErrorClass: ErrorClassNetwork,
			Message:    "request failed",
			Err:        err,
		})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		graphqlRequestsTotal.WithLabelValues(operation, "network_error").Inc()
		return c.fail(span, &RequestError{
			StatusCode: resp.StatusCode,
			ErrorClass: ErrorClassNetwork,
			Message:    "read response body",
			Err:        err,
		})
	}

	graphqlRequestsTotal.WithLabelValues(operation, strconv.Itoa(resp.StatusCode)).Inc()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	// Step 4: Handle HTTP errors
	if class := classifyStatus(resp.StatusCode); class != "" {
		c.logger.Warn().
			Str("operation", operation).
			Int("status", resp.StatusCode).
			Str("error_class", string(class)).
			Msg("GraphQL request error")
		return c.fail(span, &RequestError{
			StatusCode: resp.StatusCode,
			ErrorClass: class,
			Message:    resp.Status,
		})
	}

	if err := c.decode(span, operation, resp.StatusCode, body, out); err != nil {
		return err
	}

	// Step 5: Update Cache on success
	if c.cachingEnabled() {
		if err := c.cache.Set(ctx, cacheKey, cache.NewEntry(body, c.config.CacheTTL)); err != nil {
			c.logger.Warn().Err(err).Str("operation", operation).Msg("Failed to cache response")
		} else {
			c.logger.Debug().
				Str("operation", operation).
				Dur("ttl", c.config.CacheTTL).
				Msg("Cached response")
		}
	}

	return nil
}

// decode parses a GraphQL envelope and unmarshals its data into out.
func (c *Client) decode(span trace.Span, operation string, status int, body []byte, out any) error {
	var envelope Response
	if err := json.Unmarshal(body, &envelope); err != nil {
		c.logger.Warn().Err(err).Str("operation", operation).Msg("Response is not a GraphQL envelope")
		return c.fail(span, &RequestError{
			StatusCode: status,
			ErrorClass: ErrorClassDecode,
			Message:    "invalid response body",
			Err:        err,
		})
	}

	if len(envelope.Errors) > 0 {
		c.logger.Warn().
			Str("operation", operation).
			Int("errors", len(envelope.Errors)).
			Str("first_error", envelope.Errors[0].Message).
			Msg("GraphQL response carries errors")
		return c.fail(span, &RequestError{
			StatusCode: status,
			ErrorClass: ErrorClassGraphQL,
			Message:    "response contains errors",
			Err:        envelope.Errors,
		})
	}

	if out == nil || len(envelope.Data) == 0 || bytes.Equal(envelope.Data, []byte("null")) {
		return nil
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedData, err)
	}

	return nil
}

// fail records err on the span and in metrics, and returns it.
func (c *Client) fail(span trace.Span, err *RequestError) error {
	graphqlErrorsTotal.WithLabelValues(string(err.ErrorClass)).Inc()
	span.RecordError(err)
	span.SetStatus(codes.Error, string(err.ErrorClass))
	return err
}

func (c *Client) cachingEnabled() bool {
	return c.cache != nil && c.config.CacheTTL > 0
}

// classifyStatus categorizes an HTTP status. Non-error statuses yield "".
func classifyStatus(statusCode int) ErrorClass {
	switch {
	case statusCode >= 400 && statusCode < 500:
		return ErrorClassClient
	case statusCode >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}

func operationLabel(req Request) string {
	if req.OperationName == "" {
		return "anonymous"
	}
	return req.OperationName
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// GetCache returns the cache manager (for testing).
func (c *Client) GetCache() *cache.Manager {
	return c.cache
}
