package relay

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindRequest(path string) *Request {
	return NewRequest("GET", path)
}

func TestArgumentBinder_PathParameter(t *testing.T) {
	binder := NewArgumentBinder(NewConverterRegistry())

	action := &Action{
		Method:    "GET",
		Path:      NewPath("/some/path/{id:int64}"),
		Arguments: []ArgumentMetadata{{Name: "id", Type: TypeInt64}},
	}

	req := bindRequest("/some/path/42")
	req.Attributes.SetString("id", "42")

	args, err := binder.Bind(req, action)
	require.NoError(t, err)
	require.Len(t, args, 1)
	assert.Equal(t, int64(42), args[0])
}

func TestArgumentBinder_NullableResolvesToNil(t *testing.T) {
	binder := NewArgumentBinder(NewConverterRegistry())

	action := &Action{
		Method:    "GET",
		Path:      NewPath("/search"),
		Arguments: []ArgumentMetadata{{Name: "filter", Type: TypeString, Nullable: true}},
	}

	args, err := binder.Bind(bindRequest("/search"), action)
	require.NoError(t, err)
	require.Len(t, args, 1)
	assert.Nil(t, args[0])
}

func TestArgumentBinder_DefaultValue(t *testing.T) {
	binder := NewArgumentBinder(NewConverterRegistry())

	action := &Action{
		Method: "GET",
		Path:   NewPath("/search"),
		Arguments: []ArgumentMetadata{
			{Name: "page", Type: TypeInt, HasDefault: true, Default: 1},
		},
	}

	// No request data: the default applies
	args, err := binder.Bind(bindRequest("/search"), action)
	require.NoError(t, err)
	assert.Equal(t, 1, args[0])

	// Request data takes precedence over the default
	req := bindRequest("/search")
	req.Attributes.SetString("page", "5")
	args, err = binder.Bind(req, action)
	require.NoError(t, err)
	assert.Equal(t, 5, args[0])
}

func TestArgumentBinder_MissingRequiredArgument(t *testing.T) {
	binder := NewArgumentBinder(NewConverterRegistry())

	action := &Action{
		Method:    "GET",
		Path:      NewPath("/users/{id:int}"),
		Name:      "users.show",
		Arguments: []ArgumentMetadata{{Name: "id", Type: TypeInt}},
	}

	_, err := binder.Bind(bindRequest("/users"), action)
	var missing *MissingArgumentError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "id", missing.Argument)
	assert.Equal(t, "users.show", missing.Action)
}

func TestArgumentBinder_ConversionFailure(t *testing.T) {
	binder := NewArgumentBinder(NewConverterRegistry())

	action := &Action{
		Method:    "GET",
		Path:      NewPath("/users/{id:int}"),
		Arguments: []ArgumentMetadata{{Name: "id", Type: TypeInt}},
	}

	req := bindRequest("/users/abc")
	req.Attributes.SetString("id", "abc")

	_, err := binder.Bind(req, action)
	var conversion *ConversionError
	require.ErrorAs(t, err, &conversion)
	assert.Equal(t, "id", conversion.Argument)
	assert.Equal(t, TypeInt, conversion.Type)
}

func TestArgumentBinder_ConverterOverride(t *testing.T) {
	binder := NewArgumentBinder(NewConverterRegistry())

	action := &Action{
		Method:     "GET",
		Path:       NewPath("/report/{when}"),
		Arguments:  []ArgumentMetadata{{Name: "when"}},
		Converters: []ConverterConfig{{Argument: "when", Type: TypeTime}},
	}

	req := bindRequest("/report/2024-06-01T00:00:00Z")
	req.Attributes.SetString("when", "2024-06-01T00:00:00Z")

	args, err := binder.Bind(req, action)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), args[0])
}

func TestArgumentBinder_TypedAttributePassesThrough(t *testing.T) {
	binder := NewArgumentBinder(NewConverterRegistry())

	action := &Action{
		Method:    "GET",
		Path:      NewPath("/ctx"),
		Arguments: []ArgumentMetadata{{Name: "userID", Type: TypeInt64}},
	}

	// A listener stored the value with its final type already
	req := bindRequest("/ctx")
	req.Attributes.SetInt64("userID", 77)

	args, err := binder.Bind(req, action)
	require.NoError(t, err)
	assert.Equal(t, int64(77), args[0])
}

func TestArgumentBinder_BodyArgument(t *testing.T) {
	binder := NewArgumentBinder(NewConverterRegistry())

	action := &Action{
		Method:    "POST",
		Path:      NewPath("/users"),
		Arguments: []ArgumentMetadata{{Name: "payload", Type: TypeBody}},
	}

	req := NewRequest("POST", "/users")
	req.Body = strings.NewReader(`{"name":"alice","age":30}`)

	args, err := binder.Bind(req, action)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "alice", "age": float64(30)}, args[0])
}

func TestArgumentBinder_EmptyBodyFallsBackToDefault(t *testing.T) {
	binder := NewArgumentBinder(NewConverterRegistry())

	action := &Action{
		Method: "POST",
		Path:   NewPath("/users"),
		Arguments: []ArgumentMetadata{
			{Name: "payload", Type: TypeBody, HasDefault: true, Default: map[string]any{}},
		},
	}

	req := NewRequest("POST", "/users")
	req.Body = strings.NewReader("")

	args, err := binder.Bind(req, action)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, args[0])
}

func TestArgumentBinder_MalformedBody(t *testing.T) {
	binder := NewArgumentBinder(NewConverterRegistry())

	action := &Action{
		Method:    "POST",
		Path:      NewPath("/users"),
		Arguments: []ArgumentMetadata{{Name: "payload", Type: TypeBody}},
	}

	req := NewRequest("POST", "/users")
	req.Body = strings.NewReader(`{"name":`)

	_, err := binder.Bind(req, action)
	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.StatusCode)
}

func TestArgumentBinder_ArgumentsInDeclarationOrder(t *testing.T) {
	binder := NewArgumentBinder(NewConverterRegistry())

	action := &Action{
		Method: "GET",
		Path:   NewPath("/posts/{slug}/comments/{page:int?}"),
		Arguments: []ArgumentMetadata{
			{Name: "slug", Type: TypeString},
			{Name: "page", Type: TypeInt, HasDefault: true, Default: 1},
		},
	}

	req := bindRequest("/posts/intro/comments")
	req.Attributes.SetString("slug", "intro")

	args, err := binder.Bind(req, action)
	require.NoError(t, err)
	assert.Equal(t, []any{"intro", 1}, args)
}
