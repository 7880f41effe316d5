package relay

import (
	"bytes"

	"github.com/sirupsen/logrus"
)

// Default priorities for the kernel's own listeners. User listeners register
// above these to run before the corresponding phase, below to run after.
const (
	PriorityRouting   = 100
	PriorityArguments = 100
	PriorityView      = -100
)

// RoutingListener implements the routing phase: it resolves the request
// against the route table, assigns a duplicated action to the request, and
// writes the merged path and query parameters into the request's attribute
// bag. Path parameters shadow query parameters of the same name.
type RoutingListener struct {
	resolver *Resolver
}

// NewRoutingListener creates a RoutingListener backed by the given resolver
func NewRoutingListener(resolver *Resolver) *RoutingListener {
	return &RoutingListener{resolver: resolver}
}

// Handle resolves the action for a RequestEvent. A *NotFoundError from the
// resolver propagates to the transport boundary untouched.
func (l *RoutingListener) Handle(ev Event, d *Dispatcher) error {
	requestEv, ok := ev.(*RequestEvent)
	if !ok {
		return nil
	}

	req := requestEv.Request
	if req.Action() != nil {
		// An earlier listener already routed the request
		return nil
	}

	master, params, err := l.resolver.Resolve(req.Method, req.Path)
	if err != nil {
		return err
	}

	dup := master.Dup()
	for name, values := range req.Query {
		if len(values) > 0 {
			req.Attributes.SetString(name, values[0])
		}
	}
	for name, raw := range params {
		req.Attributes.SetString(name, raw)
		dup.Params.SetString(name, raw)
	}
	req.SetAction(dup)

	logrus.Debugf("matched %s %s to %s", req.Method, req.Path, dup)
	return nil
}

// ArgumentListener implements the argument-resolution phase, binding the
// resolved action's declared arguments through the resolver chain
type ArgumentListener struct {
	binder *ArgumentBinder
}

// NewArgumentListener creates an ArgumentListener
func NewArgumentListener(binder *ArgumentBinder) *ArgumentListener {
	return &ArgumentListener{binder: binder}
}

// Handle fills a ControllerArgumentsEvent with bound values
func (l *ArgumentListener) Handle(ev Event, d *Dispatcher) error {
	argsEv, ok := ev.(*ControllerArgumentsEvent)
	if !ok {
		return nil
	}

	args, err := l.binder.Bind(argsEv.Request, argsEv.Request.Action())
	if err != nil {
		return err
	}
	argsEv.Arguments = args
	return nil
}

// ViewListener implements view conversion: it turns a handler's raw result
// into a Response. Actions that return nothing yield an empty body with
// status 204 unless the route declared a custom status; everything else is
// serialized as JSON honoring the route's serialization groups and emit-nil
// policy. Any listener registered ahead of this one may set the response
// itself, which stops conversion.
type ViewListener struct {
	serializer Serializer
}

// NewViewListener creates a ViewListener using the given serializer
func NewViewListener(serializer Serializer) *ViewListener {
	return &ViewListener{serializer: serializer}
}

// Handle converts a ViewEvent's result into a response
func (l *ViewListener) Handle(ev Event, d *Dispatcher) error {
	viewEv, ok := ev.(*ViewEvent)
	if !ok {
		return nil
	}

	action := viewEv.Request.Action()
	res := NewResponse(action.ViewStatus())

	if action.ReturnsNothing {
		viewEv.SetResponse(res)
		return nil
	}

	var buf bytes.Buffer
	ctx := SerializationContext{Groups: action.View.Groups, EmitNil: action.View.EmitNil}
	if err := l.serializer.Serialize(&buf, viewEv.Result, ctx); err != nil {
		return err
	}

	res.Header.Set("Content-Type", ContentTypeJSON)
	res.Body = buf.Bytes()
	viewEv.SetResponse(res)
	return nil
}
