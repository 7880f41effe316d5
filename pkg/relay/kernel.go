package relay

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Route is the registration tuple for one handler: everything an annotation
// would normally declare, given to the kernel explicitly at startup.
type Route struct {
	// Method is the HTTP method
	Method string

	// Path is the route path pattern, e.g. "/users/{id:int}"
	Path string

	// Name optionally identifies the route in logs and errors
	Name string

	// Arguments describes the handler's formal parameters in order
	Arguments []ArgumentMetadata

	// Converters holds per-argument converter overrides
	Converters []ConverterConfig

	// Constraints maps path parameter names to regex patterns that replace
	// the pattern implied by the parameter type
	Constraints map[string]string

	// Status declares a custom response status for view conversion; zero
	// keeps the phase defaults (200, or 204 for ReturnsNothing)
	Status int

	// Groups are the serialization groups applied during view conversion
	Groups []string

	// EmitNil keeps nil-valued fields in the serialized output
	EmitNil bool

	// ReturnsNothing marks a handler whose return value is always ignored;
	// view conversion renders an empty body for it
	ReturnsNothing bool

	// Handler is the bound action callable
	Handler HandlerFunc
}

// Kernel wires the resolver, the event dispatcher and the default lifecycle
// listeners into the request pipeline. Routes, converters and listeners are
// registered once at startup; after that the kernel is safe for concurrent
// request handling, since every mutable piece of pipeline state lives on the
// request itself.
type Kernel struct {
	resolver   *Resolver
	dispatcher *Dispatcher
	converters *ConverterRegistry
	serializer Serializer
	log        *logrus.Entry
}

// Option configures a Kernel before its default listeners are wired
type Option func(*Kernel)

// WithSerializer replaces the default JSON serializer
func WithSerializer(s Serializer) Option {
	return func(k *Kernel) { k.serializer = s }
}

// WithLogger replaces the kernel's log entry
func WithLogger(log *logrus.Entry) Option {
	return func(k *Kernel) { k.log = log }
}

// New creates a Kernel with the default lifecycle listeners registered:
// routing on the request event, argument binding on the arguments event, and
// JSON view conversion on the view event.
func New(opts ...Option) *Kernel {
	k := &Kernel{
		resolver:   NewResolver(),
		dispatcher: NewDispatcher(),
		converters: NewConverterRegistry(),
		serializer: NewJSONSerializer(),
		log:        logrus.WithField("component", "relay.kernel"),
	}

	for _, opt := range opts {
		opt(k)
	}

	k.dispatcher.AddListener(EventRequest, NewRoutingListener(k.resolver), PriorityRouting)
	k.dispatcher.AddListener(EventArguments, NewArgumentListener(NewArgumentBinder(k.converters)), PriorityArguments)
	k.dispatcher.AddListener(EventView, NewViewListener(k.serializer), PriorityView)

	return k
}

// Register adds a route to the kernel's route table. Registration happens at
// startup, strictly before the first request; a structural conflict with an
// existing route is returned as a *RouteConflictError and should abort boot.
func (k *Kernel) Register(route Route) error {
	action := &Action{
		Method:      route.Method,
		Path:        NewPath(route.Path),
		Name:        route.Name,
		Arguments:   route.Arguments,
		Converters:  route.Converters,
		Constraints: route.Constraints,
		View: ViewConfig{
			Status:          route.Status,
			HasCustomStatus: route.Status != 0,
			Groups:          route.Groups,
			EmitNil:         route.EmitNil,
		},
		ReturnsNothing: route.ReturnsNothing,
		Handler:        route.Handler,
	}
	return k.resolver.Register(action)
}

// MustRegister registers a route and panics on error. Intended for static
// route tables built in main, where a conflict is a programming error.
func (k *Kernel) MustRegister(route Route) {
	if err := k.Register(route); err != nil {
		panic(err)
	}
}

// AddListener subscribes a listener to a lifecycle event
func (k *Kernel) AddListener(event string, listener Listener, priority int) {
	k.dispatcher.AddListener(event, listener, priority)
}

// AddListenerFunc subscribes a plain function to a lifecycle event
func (k *Kernel) AddListenerFunc(event string, fn ListenerFunc, priority int) {
	k.dispatcher.AddListenerFunc(event, fn, priority)
}

// RegisterConverter registers a custom param converter
func (k *Kernel) RegisterConverter(typeName string, fn ConverterFunc) error {
	return k.converters.Register(typeName, fn)
}

// Routes returns the registered actions, most-specific first
func (k *Kernel) Routes() []*Action {
	return k.resolver.Routes()
}

// Dispatcher exposes the kernel's event dispatcher
func (k *Kernel) Dispatcher() *Dispatcher {
	return k.dispatcher
}

// Boot logs the route table and marks the end of the registration phase
func (k *Kernel) Boot() {
	for _, action := range k.resolver.Routes() {
		k.log.WithFields(logrus.Fields{
			"method": action.Method,
			"path":   action.Path.Raw(),
		}).Debug("route registered")
	}
	k.log.Infof("kernel booted with %d routes", k.resolver.Len())
}

// Handle runs one request through the lifecycle: request event (routing),
// argument binding, handler invocation, then view conversion when the
// handler's result is not already a *Response. Errors from any phase
// propagate to the caller for translation into an HTTP status.
func (k *Kernel) Handle(req *Request) (*Response, error) {
	requestEv := NewRequestEvent(req)
	if err := k.dispatcher.Dispatch(requestEv); err != nil {
		return nil, err
	}

	var res *Response
	if requestEv.HasResponse() {
		res = requestEv.Response()
	} else {
		action := req.Action()
		if action == nil {
			return nil, &NotFoundError{Method: req.Method, Path: req.Path}
		}

		argsEv := NewControllerArgumentsEvent(req)
		if err := k.dispatcher.Dispatch(argsEv); err != nil {
			return nil, err
		}

		result, err := action.Handler(req, argsEv.Arguments)
		if err != nil {
			return nil, err
		}

		if ready, ok := result.(*Response); ok && ready != nil {
			res = ready
		} else {
			viewEv := NewViewEvent(req, result)
			if err := k.dispatcher.Dispatch(viewEv); err != nil {
				return nil, err
			}
			if !viewEv.HasResponse() {
				return nil, ErrInternalServerError("no view listener converted the result of " + action.String())
			}
			res = viewEv.Response()
		}
	}

	responseEv := NewResponseEvent(req, res)
	if err := k.dispatcher.Dispatch(responseEv); err != nil {
		return nil, err
	}
	return res, nil
}

// StatusFor maps a pipeline error to the HTTP status the boundary should
// answer with: route misses are 404, unbindable arguments are 400, explicit
// HTTP errors keep their code, and everything else is a 500. The taxonomy is
// found through wrapping, so a listener may annotate an error without
// changing the status it maps to.
func StatusFor(err error) int {
	var (
		notFound   *NotFoundError
		missing    *MissingArgumentError
		conversion *ConversionError
		httpErr    *HTTPError
	)
	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &missing), errors.As(err, &conversion):
		return http.StatusBadRequest
	case errors.As(err, &httpErr):
		return httpErr.StatusCode
	default:
		return http.StatusInternalServerError
	}
}

// ErrorBody builds the JSON payload for a pipeline error
func ErrorBody(err error) any {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Details != nil {
			return map[string]any{"error": httpErr.Message, "details": httpErr.Details}
		}
		return map[string]any{"error": httpErr.Message}
	}
	return map[string]any{"error": err.Error()}
}

// ServeHTTP mounts the kernel directly on net/http, translating the error
// taxonomy into HTTP statuses at the boundary
func (k *Kernel) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := NewRequestFromHTTP(r)

	res, err := k.Handle(req)
	if err != nil {
		status := StatusFor(err)
		if status >= http.StatusInternalServerError {
			k.log.WithError(err).Error("request pipeline failed")
		}
		errRes, encodeErr := JSON(status, ErrorBody(err))
		if encodeErr != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		res = errRes
	}

	for name, values := range res.Header {
		for _, value := range values {
			w.Header().Add(name, value)
		}
	}
	w.WriteHeader(res.StatusCode)
	if len(res.Body) > 0 {
		_, _ = w.Write(res.Body)
	}
}
