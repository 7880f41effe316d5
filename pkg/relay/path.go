package relay

import (
	"fmt"
	"strings"
)

// SegmentType represents the type of path segment
type SegmentType int

const (
	StaticSegment SegmentType = iota
	ParamSegment
	WildcardSegment
)

// Segment represents a single slash-delimited part of a route path
type Segment struct {
	Type SegmentType

	// Value is the literal text for static segments, or the parameter name
	// for parameter segments
	Value string

	// ParamType is the converter type for parameter segments (e.g. "int",
	// "uuid.UUID"), empty for untyped parameters
	ParamType string

	// Optional marks a trailing parameter that may be absent from the
	// request path (e.g. "{page:int?}")
	Optional bool
}

// Path represents a route path in relay format and provides parsed segments.
//
// Syntax:
//
//	/users                      literal segments only
//	/users/{id:int}             typed parameter
//	/users/{id:int}/posts/{page:int?}   optional trailing parameter
//	/files/{*}                  trailing wildcard
type Path string

// Raw returns the original path string
func (p Path) Raw() string {
	return string(p)
}

// Segments parses the path into its slash-delimited segments
func (p Path) Segments() []Segment {
	raw := strings.Trim(string(p), "/")
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, "/")
	segments := make([]Segment, 0, len(parts))
	for _, part := range parts {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			content := part[1 : len(part)-1]

			if content == "*" {
				segments = append(segments, Segment{Type: WildcardSegment, Value: "*"})
				continue
			}

			optional := strings.HasSuffix(content, "?")
			if optional {
				content = strings.TrimSuffix(content, "?")
			}

			name := content
			paramType := ""
			if colon := strings.Index(content, ":"); colon != -1 {
				name = content[:colon]
				paramType = content[colon+1:]
			}

			segments = append(segments, Segment{
				Type:      ParamSegment,
				Value:     name,
				ParamType: paramType,
				Optional:  optional,
			})
			continue
		}

		segments = append(segments, Segment{Type: StaticSegment, Value: part})
	}

	return segments
}

// Shapes returns the structural signatures of the path, used for conflict
// detection at registration time. Literal segments appear verbatim and every
// parameter is lowered to "*", so two paths with the same shape are
// indistinguishable to the matcher. Optional trailing parameters contribute
// one shape per arity: "/users/{id}/posts/{page?}" yields both
// "users/*/posts/*" and "users/*/posts".
func (p Path) Shapes() []string {
	segments := p.Segments()

	render := func(segs []Segment) string {
		parts := make([]string, len(segs))
		for i, seg := range segs {
			switch seg.Type {
			case StaticSegment:
				parts[i] = seg.Value
			default:
				parts[i] = "*"
			}
		}
		return strings.Join(parts, "/")
	}

	shapes := []string{render(segments)}
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i].Type != ParamSegment || !segments[i].Optional {
			break
		}
		shapes = append(shapes, render(segments[:i]))
	}

	return shapes
}

// ParamNames returns the names of all parameter segments in declaration order
func (p Path) ParamNames() []string {
	var names []string
	for _, seg := range p.Segments() {
		if seg.Type == ParamSegment {
			names = append(names, seg.Value)
		}
	}
	return names
}

// Validate checks the structural rules for a route path: braces must be
// balanced, optional parameters may only appear in a trailing run, and a
// wildcard must be the final segment.
func (p Path) Validate() error {
	raw := string(p)
	if strings.Count(raw, "{") != strings.Count(raw, "}") {
		return fmt.Errorf("mismatched braces in path: %s", raw)
	}

	segments := p.Segments()
	seen := make(map[string]bool)
	optionalRun := false
	for i, seg := range segments {
		switch seg.Type {
		case WildcardSegment:
			if i != len(segments)-1 {
				return fmt.Errorf("wildcard must be the last segment in path: %s", raw)
			}
		case ParamSegment:
			if seg.Value == "" {
				return fmt.Errorf("empty parameter name in path: %s", raw)
			}
			if seen[seg.Value] {
				return fmt.Errorf("duplicate parameter %q in path: %s", seg.Value, raw)
			}
			seen[seg.Value] = true
			if seg.Optional {
				optionalRun = true
			} else if optionalRun {
				return fmt.Errorf("required parameter %q follows an optional parameter in path: %s", seg.Value, raw)
			}
		case StaticSegment:
			if optionalRun {
				return fmt.Errorf("static segment %q follows an optional parameter in path: %s", seg.Value, raw)
			}
		}
	}

	return nil
}

// NewPath creates a new Path from a string
func NewPath(path string) Path {
	return Path(path)
}
