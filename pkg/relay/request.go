package relay

import (
	"io"
	"net/http"
	"net/url"
)

// Request is the transport-agnostic request object the pipeline operates on.
// A transport adapter constructs one per incoming HTTP request; listeners
// populate the Attributes bag and the resolved action slot as the lifecycle
// progresses.
type Request struct {
	// Method is the HTTP method (GET, POST, ...)
	Method string

	// Path is the URL path, e.g. "/users/42"
	Path string

	// Header holds the request headers
	Header http.Header

	// Query holds the parsed query parameters
	Query url.Values

	// Body is the request body reader, may be nil
	Body io.Reader

	// Attributes is the per-request ParameterBag, populated by the routing
	// listener with path and query parameters and writable by any listener
	Attributes *ParameterBag

	action *Action
}

// NewRequest creates a Request with an empty attribute bag
func NewRequest(method, path string) *Request {
	return &Request{
		Method:     method,
		Path:       path,
		Header:     make(http.Header),
		Query:      make(url.Values),
		Attributes: NewParameterBag(),
	}
}

// NewRequestFromHTTP builds a Request from a net/http request
func NewRequestFromHTTP(r *http.Request) *Request {
	return &Request{
		Method:     r.Method,
		Path:       r.URL.Path,
		Header:     r.Header,
		Query:      r.URL.Query(),
		Body:       r.Body,
		Attributes: NewParameterBag(),
	}
}

// Action returns the resolved action for this request, or nil before routing
func (r *Request) Action() *Action {
	return r.action
}

// SetAction assigns the resolved action. The routing listener always assigns
// a duplicated descriptor so the shared master copy never sees per-request
// state.
func (r *Request) SetAction(a *Action) {
	r.action = a
}
