package relay

import (
	"encoding/json"
	"net/http"
)

// ContentTypeJSON is the content type written by the view listener and the
// JSON response helpers
const ContentTypeJSON = "application/json"

// Response represents a fully formed HTTP response produced by the pipeline.
// A handler may return a *Response directly to bypass view conversion, for
// example to control the body bytes or the content type.
type Response struct {
	// StatusCode is the HTTP status code to return (e.g. 200, 201, 404)
	StatusCode int

	// Header holds the response headers
	Header http.Header

	// Body is the response body, already encoded
	Body []byte
}

// NewResponse creates an empty response with the given status code
func NewResponse(statusCode int) *Response {
	return &Response{
		StatusCode: statusCode,
		Header:     make(http.Header),
	}
}

// JSON creates a response with a JSON-encoded body and content type. The
// value is encoded immediately, without serialization groups; handlers that
// want group-aware encoding return a plain value and let view conversion do
// the work.
func JSON(statusCode int, body any) (*Response, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	res := NewResponse(statusCode)
	res.Header.Set("Content-Type", ContentTypeJSON)
	res.Body = encoded
	return res, nil
}

// Text creates a plain-text response
func Text(statusCode int, body string) *Response {
	res := NewResponse(statusCode)
	res.Header.Set("Content-Type", "text/plain; charset=utf-8")
	res.Body = []byte(body)
	return res
}

// Blob creates a response with an arbitrary content type and raw body
func Blob(statusCode int, contentType string, body []byte) *Response {
	res := NewResponse(statusCode)
	res.Header.Set("Content-Type", contentType)
	res.Body = body
	return res
}

// NoContent creates a 204 No Content response with an empty body
func NoContent() *Response {
	return NewResponse(http.StatusNoContent)
}
