package relay

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Converter type names for the built-in converters
const (
	TypeString  = "string"
	TypeInt     = "int"
	TypeInt64   = "int64"
	TypeBool    = "bool"
	TypeFloat32 = "float32"
	TypeFloat64 = "float64"
	TypeUUID    = "uuid.UUID"
	TypeTime    = "time.Time"

	// TypeBody marks an argument bound from the JSON request body rather
	// than from a named request parameter
	TypeBody = "body"
)

// ConverterFunc turns a raw request value into a typed value
type ConverterFunc func(raw string) (any, error)

// ConverterConfig overrides the converter used for a single argument of a
// single action, keyed by argument name
type ConverterConfig struct {
	// Argument is the argument name this configuration applies to
	Argument string

	// Type is the converter type name to apply instead of the argument's
	// declared type
	Type string
}

// TypeAliases maps convenient aliases to their full converter type names
var TypeAliases = map[string]string{
	"UUID":   TypeUUID,
	"float":  TypeFloat64, // Default float to float64
	"double": TypeFloat64, // Common alias for float64
}

// ResolveTypeAlias resolves a type alias to its actual type name
func ResolveTypeAlias(typeName string) string {
	if actual, isAlias := TypeAliases[typeName]; isAlias {
		return actual
	}
	return typeName
}

// ConvertString returns the raw value as-is (no conversion needed)
func ConvertString(raw string) (any, error) {
	return raw, nil
}

// ConvertInt converts a raw value to int
func ConvertInt(raw string) (any, error) {
	return strconv.Atoi(raw)
}

// ConvertInt64 converts a raw value to int64
func ConvertInt64(raw string) (any, error) {
	return strconv.ParseInt(raw, 10, 64)
}

// ConvertBool converts a raw value to bool, accepting strconv.ParseBool forms
func ConvertBool(raw string) (any, error) {
	return strconv.ParseBool(raw)
}

// ConvertFloat32 converts a raw value to float32
func ConvertFloat32(raw string) (any, error) {
	val, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		return nil, err
	}
	return float32(val), nil
}

// ConvertFloat64 converts a raw value to float64
func ConvertFloat64(raw string) (any, error) {
	return strconv.ParseFloat(raw, 64)
}

// ConvertUUID converts a raw value to uuid.UUID
func ConvertUUID(raw string) (any, error) {
	return uuid.Parse(raw)
}

// ConvertTime converts an RFC 3339 raw value to time.Time
func ConvertTime(raw string) (any, error) {
	return time.Parse(time.RFC3339, raw)
}

func builtinConverters() map[string]ConverterFunc {
	return map[string]ConverterFunc{
		TypeString:  ConvertString,
		TypeInt:     ConvertInt,
		TypeInt64:   ConvertInt64,
		TypeBool:    ConvertBool,
		TypeFloat32: ConvertFloat32,
		TypeFloat64: ConvertFloat64,
		TypeUUID:    ConvertUUID,
		TypeTime:    ConvertTime,
	}
}

// ConverterRegistry manages param converters by type name. It is seeded with
// the built-in converters; custom converters are registered at startup,
// before the kernel boots.
type ConverterRegistry struct {
	converters map[string]ConverterFunc
	mu         sync.RWMutex
}

// NewConverterRegistry creates a registry seeded with the built-in converters
func NewConverterRegistry() *ConverterRegistry {
	return &ConverterRegistry{converters: builtinConverters()}
}

// Register registers a converter for a type name. Registering a type that
// already has a converter is an error; replacing a built-in must be an
// explicit decision, not an accident.
func (r *ConverterRegistry) Register(typeName string, fn ConverterFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.converters[typeName]; exists {
		return fmt.Errorf("converter for type %q already registered", typeName)
	}
	r.converters[typeName] = fn
	return nil
}

// Get retrieves a converter for a type name, resolving aliases
func (r *ConverterRegistry) Get(typeName string) (ConverterFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if fn, exists := r.converters[typeName]; exists {
		return fn, true
	}

	resolved := ResolveTypeAlias(typeName)
	if resolved != typeName {
		if fn, exists := r.converters[resolved]; exists {
			return fn, true
		}
	}

	return nil, false
}

// Has checks if a converter is registered for a type name, resolving aliases
func (r *ConverterRegistry) Has(typeName string) bool {
	_, exists := r.Get(typeName)
	return exists
}

// Types returns all registered converter type names
func (r *ConverterRegistry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.converters))
	for typeName := range r.converters {
		types = append(types, typeName)
	}
	return types
}
