package relay

import (
	"encoding/json"
	"errors"
	"io"
)

// ErrNoValue is returned by an ArgumentResolver that supports an argument
// but finds no usable request data for it, passing the argument on to the
// next resolver in the chain.
var ErrNoValue = errors.New("relay: no value produced")

// ArgumentResolver produces a value for one declared argument from request
// data. Resolvers are tried in a fixed order; the first whose Supports
// returns true handles the argument, mirroring the dispatcher's
// stop-on-first-handled rule.
type ArgumentResolver interface {
	Supports(req *Request, action *Action, meta ArgumentMetadata) bool
	Resolve(req *Request, action *Action, meta ArgumentMetadata) (any, error)
}

// AttributeResolver resolves arguments from the request's ParameterBag,
// where the routing listener deposits path and query parameters. Raw string
// values are run through the action's converter for the argument; values a
// listener stored with a concrete type already are returned as-is.
type AttributeResolver struct {
	converters *ConverterRegistry
}

// NewAttributeResolver creates an AttributeResolver backed by the given
// converter registry
func NewAttributeResolver(converters *ConverterRegistry) *AttributeResolver {
	return &AttributeResolver{converters: converters}
}

// Supports reports whether the bag holds a value for the argument
func (r *AttributeResolver) Supports(req *Request, action *Action, meta ArgumentMetadata) bool {
	return meta.Type != TypeBody && req.Attributes.Has(meta.Name)
}

// Resolve retrieves and converts the bag value
func (r *AttributeResolver) Resolve(req *Request, action *Action, meta ArgumentMetadata) (any, error) {
	value, _ := req.Attributes.Get(meta.Name)

	raw, isString := value.(string)
	if !isString {
		// A listener stored a typed value directly
		return value, nil
	}

	typeName := action.ConverterFor(meta)
	convert, ok := r.converters.Get(typeName)
	if !ok {
		return nil, ErrInternalServerError("no converter registered for type " + typeName)
	}

	converted, err := convert(raw)
	if err != nil {
		return nil, &ConversionError{Argument: meta.Name, Type: typeName, Raw: raw, Cause: err}
	}
	return converted, nil
}

// BodyResolver binds arguments declared with TypeBody from the JSON request
// body. Objects decode to map[string]any, arrays to []any.
type BodyResolver struct{}

// NewBodyResolver creates a BodyResolver
func NewBodyResolver() *BodyResolver {
	return &BodyResolver{}
}

// Supports reports whether the argument is body-bound and a body is present
func (r *BodyResolver) Supports(req *Request, action *Action, meta ArgumentMetadata) bool {
	return meta.Type == TypeBody && req.Body != nil
}

// Resolve decodes the request body
func (r *BodyResolver) Resolve(req *Request, action *Action, meta ArgumentMetadata) (any, error) {
	var decoded any
	if err := json.NewDecoder(req.Body).Decode(&decoded); err != nil {
		if errors.Is(err, io.EOF) {
			// Empty body, let the default resolver take over
			return nil, ErrNoValue
		}
		return nil, ErrBadRequestWithDetails("malformed request body", err.Error())
	}
	return decoded, nil
}

// DefaultValueResolver substitutes the declared default for arguments that
// have one, and nil for nullable arguments. It sits last in the chain so it
// only fires when no request data produced a value.
type DefaultValueResolver struct{}

// NewDefaultValueResolver creates a DefaultValueResolver
func NewDefaultValueResolver() *DefaultValueResolver {
	return &DefaultValueResolver{}
}

// Supports reports whether the argument has a fallback
func (r *DefaultValueResolver) Supports(req *Request, action *Action, meta ArgumentMetadata) bool {
	return meta.HasDefault || meta.Nullable
}

// Resolve returns the default value, or nil for nullable arguments
func (r *DefaultValueResolver) Resolve(req *Request, action *Action, meta ArgumentMetadata) (any, error) {
	if meta.HasDefault {
		return meta.Default, nil
	}
	return nil, nil
}

// ArgumentBinder runs the resolver chain over an action's declared arguments
type ArgumentBinder struct {
	resolvers []ArgumentResolver
}

// NewArgumentBinder creates a binder with the standard chain: request
// attributes, then the JSON body, then declared defaults
func NewArgumentBinder(converters *ConverterRegistry) *ArgumentBinder {
	return &ArgumentBinder{
		resolvers: []ArgumentResolver{
			NewAttributeResolver(converters),
			NewBodyResolver(),
			NewDefaultValueResolver(),
		},
	}
}

// NewArgumentBinderWithResolvers creates a binder with a custom chain
func NewArgumentBinderWithResolvers(resolvers ...ArgumentResolver) *ArgumentBinder {
	return &ArgumentBinder{resolvers: resolvers}
}

// Bind produces one value per declared argument, in declaration order. An
// argument no resolver supports yields a *MissingArgumentError.
func (b *ArgumentBinder) Bind(req *Request, action *Action) ([]any, error) {
	args := make([]any, len(action.Arguments))

	for i, meta := range action.Arguments {
		resolved := false
		for _, resolver := range b.resolvers {
			if !resolver.Supports(req, action, meta) {
				continue
			}
			value, err := resolver.Resolve(req, action, meta)
			if errors.Is(err, ErrNoValue) {
				continue
			}
			if err != nil {
				return nil, err
			}
			args[i] = value
			resolved = true
			break
		}
		if !resolved {
			return nil, &MissingArgumentError{Argument: meta.Name, Action: action.String()}
		}
	}

	return args, nil
}
