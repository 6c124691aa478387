package graphql

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/go-church-gql/internal/errors"
)

// Operation is a single query or mutation on its way to the transport.
// It is owned by whoever executes it for the duration of one call.
type Operation struct {
	// Query is the GraphQL document.
	Query string

	// OperationName selects the operation inside Query. The development
	// server dispatches on it.
	OperationName string

	// Variables are sent as the "variables" object.
	Variables map[string]any

	// Headers are copied onto the HTTP request. The authenticated pipeline
	// owns the Authorization entry.
	Headers http.Header
}

// NewOperation creates an operation with an empty header set.
func NewOperation(operationName, query string, variables map[string]any) *Operation {
	return &Operation{
		Query:         query,
		OperationName: operationName,
		Variables:     variables,
		Headers:       make(http.Header),
	}
}

// Clone returns a copy whose headers can be changed without touching o.
// Variables are shared.
func (o *Operation) Clone() *Operation {
	c := *o
	if o.Headers != nil {
		c.Headers = o.Headers.Clone()
	} else {
		c.Headers = make(http.Header)
	}
	return &c
}

// Request is the JSON body POSTed to the endpoint.
type Request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// Location points at the part of the document an error refers to.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Error is one entry of the response "errors" array.
type Error struct {
	Message    string         `json:"message"`
	Locations  []Location     `json:"locations,omitempty"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

func (e Error) Error() string {
	return e.Message
}

// Response is the envelope returned by the transport. It must be treated as
// read only once returned.
type Response struct {
	Data   json.RawMessage `json:"data,omitempty"`
	Errors []Error         `json:"errors,omitempty"`
}

// HasErrors reports whether the server returned any GraphQL errors.
func (r *Response) HasErrors() bool {
	return r != nil && len(r.Errors) > 0
}

// HasData reports whether a non-null data object is present.
func (r *Response) HasData() bool {
	if r == nil {
		return false
	}
	d := bytes.TrimSpace(r.Data)
	return len(d) > 0 && !bytes.Equal(d, []byte("null"))
}

// Decode unmarshals the data object into v.
func (r *Response) Decode(v any) error {
	if !r.HasData() {
		return errors.ErrBadResponse
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return errors.Wrapf(errors.ErrBadResponse, "decode data: %v", err)
	}
	return nil
}

// Messages returns the message of every error in order.
func (r *Response) Messages() []string {
	if r == nil {
		return nil
	}
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return msgs
}
