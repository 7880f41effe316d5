package relay

import (
	"fmt"
	"net/http"
)

// HandlerFunc is the signature of a bound action. It receives the request
// and the resolved arguments in declaration order and returns either a plain
// value (converted to a response by the view phase), a *Response (used
// as-is), or an error (handled by the transport boundary).
type HandlerFunc func(req *Request, args []any) (any, error)

// ArgumentMetadata describes one formal parameter of an action. The argument
// resolution phase uses it to bind request data to a typed value.
type ArgumentMetadata struct {
	// Name is the parameter name, matched against path and query parameters
	Name string

	// Type is the converter type name ("int", "uuid.UUID", ...), or
	// TypeBody for an argument bound from the JSON request body. Empty
	// means string.
	Type string

	// HasDefault marks an argument that falls back to Default when no
	// request data produces a value
	HasDefault bool

	// Default is the fallback value, only meaningful when HasDefault is set
	Default any

	// Nullable marks an argument that resolves to nil when no request data
	// produces a value and no default is declared
	Nullable bool
}

// ViewConfig carries the view conversion settings declared on a route
type ViewConfig struct {
	// Status is the response status code for converted results
	Status int

	// HasCustomStatus distinguishes an explicitly declared Status from the
	// phase defaults (200 for values, 204 for actions returning nothing)
	HasCustomStatus bool

	// Groups restricts serialization to struct fields tagged with at least
	// one of these group names; empty means all fields
	Groups []string

	// EmitNil includes nil-valued fields in the serialized output instead
	// of dropping them
	EmitNil bool
}

// Action is the immutable descriptor of one registered route: everything the
// pipeline needs to resolve, bind, invoke and render a handler. Actions are
// created once at registration time and shared read-only across requests;
// the routing listener hands each request its own duplicate (see Dup) so
// per-request state never lands on the master copy.
type Action struct {
	// Method is the HTTP method
	Method string

	// Path is the route path pattern
	Path Path

	// Name identifies the action in logs and errors, e.g. "users.show".
	// Defaults to "METHOD /path" when not set at registration.
	Name string

	// Arguments describes the handler's formal parameters in declaration order
	Arguments []ArgumentMetadata

	// Converters holds per-argument converter overrides
	Converters []ConverterConfig

	// Constraints maps path parameter names to regular expressions that a
	// raw segment value must match for this route to be considered. A
	// declared constraint replaces the pattern implied by the parameter's
	// type.
	Constraints map[string]string

	// View carries the view conversion settings
	View ViewConfig

	// ReturnsNothing marks a handler with no meaningful return value; the
	// view phase renders an empty 204 body for it unless View declares a
	// custom status
	ReturnsNothing bool

	// Handler is the bound action callable
	Handler HandlerFunc

	// Params holds the resolved path and query parameters for one request.
	// It is only ever set on duplicates; the master copy keeps it nil.
	Params *ParameterBag
}

// String returns the action's display name
func (a *Action) String() string {
	if a.Name != "" {
		return a.Name
	}
	return fmt.Sprintf("%s %s", a.Method, a.Path.Raw())
}

// Dup returns a per-request copy of the action. Immutable metadata (argument
// descriptors, converter configs, view settings, the handler) is shared by
// reference; the Params slot starts fresh so concurrent requests never
// observe each other's resolved parameters.
func (a *Action) Dup() *Action {
	dup := *a
	dup.Params = NewParameterBag()
	return &dup
}

// ConverterFor returns the converter type to apply for the named argument:
// the per-argument override when one is configured, otherwise the declared
// argument type, otherwise string.
func (a *Action) ConverterFor(arg ArgumentMetadata) string {
	for _, cfg := range a.Converters {
		if cfg.Argument == arg.Name {
			return cfg.Type
		}
	}
	if arg.Type != "" {
		return arg.Type
	}
	return TypeString
}

// ViewStatus returns the status code the view phase should use for a
// converted result
func (a *Action) ViewStatus() int {
	if a.View.HasCustomStatus {
		return a.View.Status
	}
	if a.ReturnsNothing {
		return http.StatusNoContent
	}
	return http.StatusOK
}
