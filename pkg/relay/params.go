package relay

import (
	"fmt"

	"github.com/google/uuid"
)

// ParamKind identifies the declared type of a value stored in a ParameterBag.
type ParamKind int

const (
	KindString ParamKind = iota
	KindInt
	KindInt64
	KindFloat64
	KindBool
	KindUUID
	KindAny
)

// String returns a readable name for the kind, used in error messages
func (k ParamKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindInt64:
		return "int64"
	case KindFloat64:
		return "float64"
	case KindBool:
		return "bool"
	case KindUUID:
		return "uuid.UUID"
	case KindAny:
		return "any"
	default:
		return "unknown"
	}
}

// ParamTypeError is returned when a bag value is retrieved with a kind that
// does not match the kind it was stored with.
type ParamTypeError struct {
	Name string
	Want ParamKind
	Got  ParamKind
}

func (e *ParamTypeError) Error() string {
	return fmt.Sprintf("parameter %q holds %s, requested as %s", e.Name, e.Got, e.Want)
}

// ParamNotFoundError is returned when a bag value is retrieved that was never stored.
type ParamNotFoundError struct {
	Name string
}

func (e *ParamNotFoundError) Error() string {
	return fmt.Sprintf("parameter %q not set", e.Name)
}

type paramValue struct {
	kind  ParamKind
	value any
}

// ParameterBag is a typed key/value store scoped to a single request. It is
// created fresh per request, populated by lifecycle listeners (path
// parameters, query parameters, custom listener-set attributes) and discarded
// when the request finishes. Values remember the kind they were stored with;
// retrieving with a different kind fails rather than silently coercing.
//
// A ParameterBag is never shared across requests and is not safe for
// concurrent use.
type ParameterBag struct {
	values map[string]paramValue
}

// NewParameterBag creates an empty ParameterBag
func NewParameterBag() *ParameterBag {
	return &ParameterBag{values: make(map[string]paramValue)}
}

// SetString stores a string value
func (b *ParameterBag) SetString(name, value string) {
	b.values[name] = paramValue{kind: KindString, value: value}
}

// SetInt stores an int value
func (b *ParameterBag) SetInt(name string, value int) {
	b.values[name] = paramValue{kind: KindInt, value: value}
}

// SetInt64 stores an int64 value
func (b *ParameterBag) SetInt64(name string, value int64) {
	b.values[name] = paramValue{kind: KindInt64, value: value}
}

// SetFloat64 stores a float64 value
func (b *ParameterBag) SetFloat64(name string, value float64) {
	b.values[name] = paramValue{kind: KindFloat64, value: value}
}

// SetBool stores a bool value
func (b *ParameterBag) SetBool(name string, value bool) {
	b.values[name] = paramValue{kind: KindBool, value: value}
}

// SetUUID stores a uuid.UUID value
func (b *ParameterBag) SetUUID(name string, value uuid.UUID) {
	b.values[name] = paramValue{kind: KindUUID, value: value}
}

// SetAny stores an arbitrary value without a declared kind
func (b *ParameterBag) SetAny(name string, value any) {
	b.values[name] = paramValue{kind: KindAny, value: value}
}

func (b *ParameterBag) get(name string, want ParamKind) (any, error) {
	stored, ok := b.values[name]
	if !ok {
		return nil, &ParamNotFoundError{Name: name}
	}
	if stored.kind != want {
		return nil, &ParamTypeError{Name: name, Want: want, Got: stored.kind}
	}
	return stored.value, nil
}

// String retrieves a string value
func (b *ParameterBag) String(name string) (string, error) {
	v, err := b.get(name, KindString)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Int retrieves an int value
func (b *ParameterBag) Int(name string) (int, error) {
	v, err := b.get(name, KindInt)
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

// Int64 retrieves an int64 value
func (b *ParameterBag) Int64(name string) (int64, error) {
	v, err := b.get(name, KindInt64)
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

// Float64 retrieves a float64 value
func (b *ParameterBag) Float64(name string) (float64, error) {
	v, err := b.get(name, KindFloat64)
	if err != nil {
		return 0, err
	}
	return v.(float64), nil
}

// Bool retrieves a bool value
func (b *ParameterBag) Bool(name string) (bool, error) {
	v, err := b.get(name, KindBool)
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// UUID retrieves a uuid.UUID value
func (b *ParameterBag) UUID(name string) (uuid.UUID, error) {
	v, err := b.get(name, KindUUID)
	if err != nil {
		return uuid.UUID{}, err
	}
	return v.(uuid.UUID), nil
}

// Get retrieves a value regardless of its declared kind
func (b *ParameterBag) Get(name string) (any, bool) {
	stored, ok := b.values[name]
	if !ok {
		return nil, false
	}
	return stored.value, true
}

// Has returns true if a value is stored under the given name
func (b *ParameterBag) Has(name string) bool {
	_, ok := b.values[name]
	return ok
}

// Keys returns all stored parameter names
func (b *ParameterBag) Keys() []string {
	keys := make([]string, 0, len(b.values))
	for name := range b.values {
		keys = append(keys, name)
	}
	return keys
}

// Len returns the number of stored parameters
func (b *ParameterBag) Len() int {
	return len(b.values)
}
