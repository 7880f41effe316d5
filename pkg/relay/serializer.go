package relay

import (
	"encoding"
	"encoding/json"
	"io"
	"reflect"
	"strings"
)

// SerializationContext carries the per-route serialization settings the view
// listener hands to the serializer
type SerializationContext struct {
	// Groups restricts struct serialization to fields tagged with at least
	// one matching group; empty means no group filtering
	Groups []string

	// EmitNil keeps nil-valued fields in the output instead of dropping them
	EmitNil bool
}

// Serializer turns a handler result into response bytes. The kernel treats
// it as opaque; the default implementation writes JSON.
type Serializer interface {
	Serialize(w io.Writer, v any, ctx SerializationContext) error
}

// JSONSerializer is the default Serializer. It honors serialization groups
// declared via `groups:"a,b"` struct tags: when the context names groups,
// only fields tagged with at least one of them are emitted. Fields holding
// nil pointers, slices or maps are dropped unless the context sets EmitNil.
// Types that implement json.Marshaler or encoding.TextMarshaler keep their
// own encoding.
type JSONSerializer struct{}

// NewJSONSerializer creates a JSONSerializer
func NewJSONSerializer() *JSONSerializer {
	return &JSONSerializer{}
}

// Serialize writes the JSON encoding of v, filtered by the context
func (s *JSONSerializer) Serialize(w io.Writer, v any, ctx SerializationContext) error {
	filtered := filterValue(reflect.ValueOf(v), ctx)
	encoded, err := json.Marshal(filtered)
	if err != nil {
		return err
	}
	_, err = w.Write(encoded)
	return err
}

var (
	jsonMarshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// marshalerValue returns the value untouched when its type carries its own
// JSON or text encoding, so json.Marshal applies it instead of the reflection
// walk. uuid.UUID and time.Time land here.
func marshalerValue(v reflect.Value) (any, bool) {
	t := v.Type()
	if t.Implements(jsonMarshalerType) || t.Implements(textMarshalerType) {
		return v.Interface(), true
	}
	if v.CanAddr() {
		if p := reflect.PointerTo(t); p.Implements(jsonMarshalerType) || p.Implements(textMarshalerType) {
			return v.Addr().Interface(), true
		}
	}
	return nil, false
}

func filterValue(v reflect.Value, ctx SerializationContext) any {
	if !v.IsValid() {
		return nil
	}

	if m, ok := marshalerValue(v); ok {
		return m
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return filterValue(v.Elem(), ctx)

	case reflect.Struct:
		return filterStruct(v, ctx)

	case reflect.Slice:
		if v.IsNil() {
			return nil
		}
		out := make([]any, v.Len())
		for i := 0; i < v.Len(); i++ {
			out[i] = filterValue(v.Index(i), ctx)
		}
		return out

	case reflect.Array:
		out := make([]any, v.Len())
		for i := 0; i < v.Len(); i++ {
			out[i] = filterValue(v.Index(i), ctx)
		}
		return out

	case reflect.Map:
		if v.IsNil() {
			return nil
		}
		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			key, ok := iter.Key().Interface().(string)
			if !ok {
				// Non-string keys fall back to plain encoding
				return v.Interface()
			}
			out[key] = filterValue(iter.Value(), ctx)
		}
		return out

	default:
		return v.Interface()
	}
}

func filterStruct(v reflect.Value, ctx SerializationContext) map[string]any {
	out := make(map[string]any)
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		value := v.Field(i)

		// Embedded structs without an explicit json name flatten into the
		// parent, the way encoding/json promotes their fields. On a name
		// collision the parent's own field wins.
		if field.Anonymous && !hasJSONName(field) {
			embedded := value
			if embedded.Kind() == reflect.Pointer {
				if embedded.IsNil() {
					continue
				}
				embedded = embedded.Elem()
			}
			if embedded.Kind() == reflect.Struct {
				for name, nested := range filterStruct(embedded, ctx) {
					if _, taken := out[name]; !taken {
						out[name] = nested
					}
				}
				continue
			}
		}

		name, omitted := fieldName(field)
		if omitted {
			continue
		}

		if len(ctx.Groups) > 0 && !inGroups(field, ctx.Groups) {
			continue
		}

		if !ctx.EmitNil && isNilable(value) && value.IsNil() {
			continue
		}

		out[name] = filterValue(value, ctx)
	}

	return out
}

func hasJSONName(field reflect.StructField) bool {
	tag := field.Tag.Get("json")
	return tag != "" && strings.Split(tag, ",")[0] != ""
}

func fieldName(field reflect.StructField) (string, bool) {
	tag := field.Tag.Get("json")
	if tag == "" {
		return field.Name, false
	}
	parts := strings.Split(tag, ",")
	if parts[0] == "-" && len(parts) == 1 {
		return "", true
	}
	if parts[0] != "" {
		return parts[0], false
	}
	return field.Name, false
}

func inGroups(field reflect.StructField, groups []string) bool {
	tag := field.Tag.Get("groups")
	if tag == "" {
		return false
	}
	for _, declared := range strings.Split(tag, ",") {
		declared = strings.TrimSpace(declared)
		for _, wanted := range groups {
			if declared == wanted {
				return true
			}
		}
	}
	return false
}

func isNilable(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return true
	default:
		return false
	}
}
