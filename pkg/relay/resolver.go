package relay

import (
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Patterns implied by typed path parameters. A segment that fails its
// pattern is a non-match for that route, letting resolution continue to
// other candidates instead of failing the request.
var impliedConstraints = map[string]string{
	TypeInt:     `^-?[0-9]+$`,
	TypeInt64:   `^-?[0-9]+$`,
	TypeFloat32: `^-?[0-9]+(\.[0-9]+)?$`,
	TypeFloat64: `^-?[0-9]+(\.[0-9]+)?$`,
	TypeUUID:    `^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`,
}

type route struct {
	action      *Action
	method      string
	segments    []Segment
	constraints map[string]*regexp.Regexp
	statics     int
	order       int
}

// match attempts to bind the request path parts against this route's
// segments, returning the captured parameter values on success
func (r *route) match(parts []string) (map[string]string, bool) {
	params := make(map[string]string)

	for i, seg := range r.segments {
		if seg.Type == WildcardSegment {
			// The wildcard must capture at least one segment; the bare
			// prefix stays free for its own route
			if i >= len(parts) {
				return nil, false
			}
			params["*"] = strings.Join(parts[i:], "/")
			return params, true
		}

		if i >= len(parts) {
			// Remaining segments must all be optional parameters
			for _, rest := range r.segments[i:] {
				if rest.Type != ParamSegment || !rest.Optional {
					return nil, false
				}
			}
			return params, true
		}

		switch seg.Type {
		case StaticSegment:
			if parts[i] != seg.Value {
				return nil, false
			}
		case ParamSegment:
			raw := parts[i]
			if re, ok := r.constraints[seg.Value]; ok && !re.MatchString(raw) {
				return nil, false
			}
			params[seg.Value] = raw
		}
	}

	if len(parts) > len(r.segments) {
		return nil, false
	}
	return params, true
}

// Resolver matches requests against the registered route table. Routes are
// registered once at startup; the table freezes on the first Resolve call
// and rejects registration afterwards, so steady-state matching runs without
// locks.
type Resolver struct {
	routes []*route

	// shapes maps "METHOD shape" to the raw path that claimed it, for
	// conflict detection and error reporting
	shapes map[string]string

	frozen atomic.Bool
	nextID int
}

// NewResolver creates an empty Resolver
func NewResolver() *Resolver {
	return &Resolver{shapes: make(map[string]string)}
}

// Register adds an action to the route table. It validates the path, compiles
// parameter constraints, and rejects any action whose method and path shape
// collide with a previously registered one: such routes are structurally
// indistinguishable, and the ambiguity must surface at startup rather than
// at request time.
func (r *Resolver) Register(action *Action) error {
	if r.frozen.Load() {
		return fmt.Errorf("route table is frozen, cannot register %s", action)
	}
	if action.Handler == nil {
		return fmt.Errorf("action %s has no handler", action)
	}
	if err := action.Path.Validate(); err != nil {
		return errors.Wrapf(err, "invalid path for action %s", action)
	}

	segments := action.Path.Segments()
	constraints := make(map[string]*regexp.Regexp)
	for _, seg := range segments {
		if seg.Type != ParamSegment {
			continue
		}
		pattern, declared := action.Constraints[seg.Value]
		if !declared {
			pattern = impliedConstraints[ResolveTypeAlias(seg.ParamType)]
		}
		if pattern == "" {
			continue
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return errors.Wrapf(err, "invalid constraint for parameter %q of action %s", seg.Value, action)
		}
		constraints[seg.Value] = re
	}

	method := strings.ToUpper(action.Method)
	for _, shape := range action.Path.Shapes() {
		key := method + " " + shape
		if existing, taken := r.shapes[key]; taken {
			return &RouteConflictError{Method: method, Path: action.Path.Raw(), Existing: existing}
		}
		r.shapes[key] = action.Path.Raw()
	}

	entry := &route{
		action:      action,
		method:      method,
		segments:    segments,
		constraints: constraints,
		order:       r.nextID,
	}
	r.nextID++
	for _, seg := range segments {
		if seg.Type == StaticSegment {
			entry.statics++
		}
	}

	// Keep candidates ordered most-specific first: more static segments win,
	// registration order breaks ties.
	pos := len(r.routes)
	for i, other := range r.routes {
		if other.statics < entry.statics {
			pos = i
			break
		}
	}
	r.routes = append(r.routes, nil)
	copy(r.routes[pos+1:], r.routes[pos:])
	r.routes[pos] = entry

	logrus.Debugf("registered route %s %s", method, action.Path.Raw())
	return nil
}

// Resolve matches a request method and path against the route table,
// returning the matched action and the extracted path parameters. Candidates
// are tried most-specific first; a candidate whose shape matches but whose
// parameter constraint fails is skipped and resolution continues through the
// remaining candidates. Exhausting the table yields a *NotFoundError.
func (r *Resolver) Resolve(method, path string) (*Action, map[string]string, error) {
	r.frozen.Store(true)

	method = strings.ToUpper(method)
	trimmed := strings.Trim(path, "/")
	var parts []string
	if trimmed != "" {
		parts = strings.Split(trimmed, "/")
	}

	for _, candidate := range r.routes {
		if candidate.method != method {
			continue
		}
		if params, ok := candidate.match(parts); ok {
			return candidate.action, params, nil
		}
	}

	return nil, nil, &NotFoundError{Method: method, Path: path}
}

// Routes returns the registered actions, most-specific first
func (r *Resolver) Routes() []*Action {
	actions := make([]*Action, len(r.routes))
	for i, entry := range r.routes {
		actions[i] = entry.action
	}
	return actions
}

// Len returns the number of registered routes
func (r *Resolver) Len() int {
	return len(r.routes)
}
