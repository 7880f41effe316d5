package relay

// Lifecycle event names, dispatched in this order for each request
const (
	// EventRequest is dispatched as soon as a request enters the pipeline.
	// The routing listener resolves the action here; an early listener may
	// set a response directly to short-circuit the whole pipeline.
	EventRequest = "kernel.request"

	// EventArguments is dispatched after routing to bind the action's
	// declared arguments to typed values
	EventArguments = "kernel.arguments"

	// EventView is dispatched when a handler returns a plain value that
	// still needs converting into a Response
	EventView = "kernel.view"

	// EventResponse is dispatched with the final response before it is
	// handed back to the transport, for header mutation and logging
	EventResponse = "kernel.response"
)

// Event is a lifecycle message dispatched through the Dispatcher
type Event interface {
	// Name returns the event name listeners subscribe to
	Name() string

	// IsPropagationStopped reports whether a listener halted propagation;
	// the dispatcher checks it before each listener invocation
	IsPropagationStopped() bool
}

// BaseEvent provides the stop-propagation flag shared by all lifecycle events
type BaseEvent struct {
	stopped bool
}

// StopPropagation prevents any further listener from receiving this event
func (e *BaseEvent) StopPropagation() {
	e.stopped = true
}

// IsPropagationStopped reports whether propagation was stopped
func (e *BaseEvent) IsPropagationStopped() bool {
	return e.stopped
}

// RequestEvent marks a request entering the pipeline
type RequestEvent struct {
	BaseEvent
	Request *Request

	response *Response
}

// NewRequestEvent creates a RequestEvent for the given request
func NewRequestEvent(req *Request) *RequestEvent {
	return &RequestEvent{Request: req}
}

// Name returns the event name
func (e *RequestEvent) Name() string { return EventRequest }

// SetResponse short-circuits the pipeline with a ready response and stops
// propagation
func (e *RequestEvent) SetResponse(res *Response) {
	e.response = res
	e.StopPropagation()
}

// Response returns the short-circuit response, or nil
func (e *RequestEvent) Response() *Response { return e.response }

// HasResponse reports whether a listener set a response
func (e *RequestEvent) HasResponse() bool { return e.response != nil }

// ControllerArgumentsEvent carries the argument values being bound for the
// resolved action
type ControllerArgumentsEvent struct {
	BaseEvent
	Request *Request

	// Arguments holds the resolved values in the action's declaration
	// order; the argument listener fills it, later listeners may inspect
	// or replace entries
	Arguments []any
}

// NewControllerArgumentsEvent creates a ControllerArgumentsEvent
func NewControllerArgumentsEvent(req *Request) *ControllerArgumentsEvent {
	return &ControllerArgumentsEvent{Request: req}
}

// Name returns the event name
func (e *ControllerArgumentsEvent) Name() string { return EventArguments }

// ViewEvent carries a handler's raw result through view conversion
type ViewEvent struct {
	BaseEvent
	Request *Request

	// Result is the raw value the handler returned
	Result any

	response *Response
}

// NewViewEvent creates a ViewEvent for a handler result
func NewViewEvent(req *Request, result any) *ViewEvent {
	return &ViewEvent{Request: req, Result: result}
}

// Name returns the event name
func (e *ViewEvent) Name() string { return EventView }

// SetResponse records the converted response and stops propagation, so a
// listener ahead of the default view listener can take over conversion
func (e *ViewEvent) SetResponse(res *Response) {
	e.response = res
	e.StopPropagation()
}

// Response returns the converted response, or nil
func (e *ViewEvent) Response() *Response { return e.response }

// HasResponse reports whether conversion produced a response
func (e *ViewEvent) HasResponse() bool { return e.response != nil }

// ResponseEvent carries the final response before it returns to the transport
type ResponseEvent struct {
	BaseEvent
	Request  *Request
	Response *Response
}

// NewResponseEvent creates a ResponseEvent
func NewResponseEvent(req *Request, res *Response) *ResponseEvent {
	return &ResponseEvent{Request: req, Response: res}
}

// Name returns the event name
func (e *ResponseEvent) Name() string { return EventResponse }
