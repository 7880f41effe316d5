// Package relay is a request-lifecycle dispatch kernel for HTTP services.
//
// A Kernel maps incoming requests to registered handler actions through an
// ordered pipeline of lifecycle events: the request event (routing), argument
// resolution, handler invocation, and view conversion. Each phase is
// implemented as a listener on a synchronous, priority-ordered event
// dispatcher, so applications can hook in before or after any phase, or
// short-circuit the pipeline entirely by setting a response on an event.
//
// Routes are registered explicitly at startup:
//
//	k := relay.New()
//	k.MustRegister(relay.Route{
//		Method:    "GET",
//		Path:      "/users/{id:int64}",
//		Arguments: []relay.ArgumentMetadata{{Name: "id", Type: relay.TypeInt64}},
//		Handler: func(req *relay.Request, args []any) (any, error) {
//			return lookupUser(args[0].(int64))
//		},
//	})
//
// The kernel mounts directly on net/http via Kernel.ServeHTTP, or on an
// engine of choice through the adapters in pkg/relay/adapters (Echo, Gin,
// Fiber).
package relay
