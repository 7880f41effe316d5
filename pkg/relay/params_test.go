package relay

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameterBag_TypedRoundTrip(t *testing.T) {
	bag := NewParameterBag()

	bag.SetString("name", "alice")
	bag.SetInt("page", 3)
	bag.SetInt64("offset", int64(1<<40))
	bag.SetFloat64("ratio", 0.5)
	bag.SetBool("active", true)

	id := uuid.New()
	bag.SetUUID("id", id)

	name, err := bag.String("name")
	require.NoError(t, err)
	assert.Equal(t, "alice", name)

	page, err := bag.Int("page")
	require.NoError(t, err)
	assert.Equal(t, 3, page)

	offset, err := bag.Int64("offset")
	require.NoError(t, err)
	assert.Equal(t, int64(1<<40), offset)

	ratio, err := bag.Float64("ratio")
	require.NoError(t, err)
	assert.Equal(t, 0.5, ratio)

	active, err := bag.Bool("active")
	require.NoError(t, err)
	assert.True(t, active)

	got, err := bag.UUID("id")
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestParameterBag_KindMismatch(t *testing.T) {
	bag := NewParameterBag()
	bag.SetString("id", "42")

	_, err := bag.Int("id")
	require.Error(t, err)

	var typeErr *ParamTypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "id", typeErr.Name)
	assert.Equal(t, KindInt, typeErr.Want)
	assert.Equal(t, KindString, typeErr.Got)
}

func TestParameterBag_NotFound(t *testing.T) {
	bag := NewParameterBag()

	_, err := bag.String("missing")
	var notFound *ParamNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.Name)

	_, ok := bag.Get("missing")
	assert.False(t, ok)
	assert.False(t, bag.Has("missing"))
}

func TestParameterBag_SetAny(t *testing.T) {
	bag := NewParameterBag()

	type custom struct{ Value int }
	bag.SetAny("data", custom{Value: 7})

	v, ok := bag.Get("data")
	require.True(t, ok)
	assert.Equal(t, custom{Value: 7}, v)

	// Typed access still enforces the declared kind
	_, err := bag.String("data")
	assert.Error(t, err)
}

func TestParameterBag_Keys(t *testing.T) {
	bag := NewParameterBag()
	bag.SetString("a", "1")
	bag.SetString("b", "2")

	assert.Equal(t, 2, bag.Len())
	assert.ElementsMatch(t, []string{"a", "b"}, bag.Keys())
}
