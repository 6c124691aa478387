package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-church-gql/internal/errors"
	"github.com/rs/zerolog"
)

const (
	// HeaderRequestID correlates a client request with server logs.
	HeaderRequestID = "X-Request-ID"

	maxResponseBytes = 8 << 20
)

// Transport executes one operation and returns its envelope. Errors are
// reserved for failures below the GraphQL layer.
type Transport interface {
	Do(ctx context.Context, op *Operation) (*Response, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, op *Operation) (*Response, error)

func (f TransportFunc) Do(ctx context.Context, op *Operation) (*Response, error) {
	return f(ctx, op)
}

// TransportError is returned for a non-2xx HTTP status.
type TransportError struct {
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("graphql endpoint returned HTTP %d", e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return errors.ErrTransport
}

// HTTPTransport POSTs operations to a single endpoint.
type HTTPTransport struct {
	endpoint string
	client   *http.Client
	logger   zerolog.Logger
}

type HTTPOption func(*HTTPTransport)

func WithHTTPClient(c *http.Client) HTTPOption {
	return func(t *HTTPTransport) {
		t.client = c
	}
}

func WithLogger(l zerolog.Logger) HTTPOption {
	return func(t *HTTPTransport) {
		t.logger = l
	}
}

func WithTimeout(d time.Duration) HTTPOption {
	return func(t *HTTPTransport) {
		t.client = &http.Client{Timeout: d}
	}
}

func NewHTTPTransport(endpoint string, options ...HTTPOption) *HTTPTransport {
	t := &HTTPTransport{
		endpoint: endpoint,
		client:   http.DefaultClient,
		logger:   zerolog.Nop(),
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

var _ Transport = (*HTTPTransport)(nil)

func (t *HTTPTransport) Endpoint() string {
	return t.endpoint
}

func (t *HTTPTransport) Do(ctx context.Context, op *Operation) (*Response, error) {
	body, err := json.Marshal(Request{
		Query:         op.Query,
		OperationName: op.OperationName,
		Variables:     op.Variables,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "HTTPTransport.Do marshal %s", op.OperationName)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrapf(err, "HTTPTransport.Do new request")
	}
	for k, v := range op.Headers {
		req.Header[k] = append([]string(nil), v...)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	requestID := req.Header.Get(HeaderRequestID)
	if requestID == "" {
		requestID = uuid.NewString()
		req.Header.Set(HeaderRequestID, requestID)
	}

	log := t.logger.With().
		Str("request_id", requestID).
		Str("operation", op.OperationName).
		Logger()

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("graphql request failed")
		return nil, fmt.Errorf("%w: %w", errors.ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", errors.ErrTransport, err)
	}

	log.Debug().
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("graphql request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var envelope Response
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrBadResponse, err)
	}
	return &envelope, nil
}
