package relay

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testUser struct {
	ID      int        `json:"id" groups:"public,admin"`
	Name    string     `json:"name" groups:"public,admin"`
	Email   string     `json:"email" groups:"admin"`
	Bio     *string    `json:"bio" groups:"public"`
	Tags    []string   `json:"tags" groups:"public"`
	Secret  string     `json:"-"`
	private string
	Friends []testUser `json:"friends,omitempty" groups:"public"`
}

func serialize(t *testing.T, v any, ctx SerializationContext) map[string]any {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, NewJSONSerializer().Serialize(&buf, v, ctx))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	return decoded
}

func TestJSONSerializer_NoGroupsEmitsAllTaggedFields(t *testing.T) {
	bio := "hello"
	user := testUser{ID: 1, Name: "alice", Email: "a@example.com", Bio: &bio, Tags: []string{"go"}, Secret: "x"}

	decoded := serialize(t, user, SerializationContext{})

	assert.Equal(t, float64(1), decoded["id"])
	assert.Equal(t, "alice", decoded["name"])
	assert.Equal(t, "a@example.com", decoded["email"])
	assert.Equal(t, "hello", decoded["bio"])

	// json:"-" fields and unexported fields never appear
	_, hasSecret := decoded["Secret"]
	assert.False(t, hasSecret)
	_, hasPrivate := decoded["private"]
	assert.False(t, hasPrivate)
}

func TestJSONSerializer_GroupFiltering(t *testing.T) {
	user := testUser{ID: 1, Name: "alice", Email: "a@example.com"}

	public := serialize(t, user, SerializationContext{Groups: []string{"public"}, EmitNil: true})
	assert.Contains(t, public, "id")
	assert.Contains(t, public, "name")
	assert.NotContains(t, public, "email")

	admin := serialize(t, user, SerializationContext{Groups: []string{"admin"}, EmitNil: true})
	assert.Contains(t, admin, "email")
	assert.NotContains(t, admin, "bio")
}

func TestJSONSerializer_NilPolicy(t *testing.T) {
	user := testUser{ID: 1, Name: "alice"}

	// Default policy drops nil-valued fields
	dropped := serialize(t, user, SerializationContext{})
	assert.NotContains(t, dropped, "bio")
	assert.NotContains(t, dropped, "tags")

	// EmitNil keeps them as explicit nulls
	kept := serialize(t, user, SerializationContext{EmitNil: true})
	assert.Contains(t, kept, "bio")
	assert.Nil(t, kept["bio"])
}

func TestJSONSerializer_GroupsApplyToNestedValues(t *testing.T) {
	user := testUser{
		ID:   1,
		Name: "alice",
		Friends: []testUser{
			{ID: 2, Name: "bob", Email: "b@example.com"},
		},
	}

	decoded := serialize(t, user, SerializationContext{Groups: []string{"public"}})
	friends, ok := decoded["friends"].([]any)
	require.True(t, ok)
	require.Len(t, friends, 1)

	friend := friends[0].(map[string]any)
	assert.Equal(t, "bob", friend["name"])
	assert.NotContains(t, friend, "email")
}

func TestJSONSerializer_MarshalerTypesKeepTheirEncoding(t *testing.T) {
	type record struct {
		ID      uuid.UUID `json:"id" groups:"public"`
		Created time.Time `json:"created" groups:"public"`
		Title   string    `json:"title" groups:"public"`
	}

	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	created := time.Date(2024, 6, 1, 12, 30, 0, 0, time.UTC)

	decoded := serialize(t, record{ID: id, Created: created, Title: "x"},
		SerializationContext{Groups: []string{"public"}})

	// uuid.UUID is a [16]byte; it must serialize through its own marshaler
	// as the canonical string, never as a number array
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", decoded["id"])
	assert.Equal(t, "2024-06-01T12:30:00Z", decoded["created"])
	assert.Equal(t, "x", decoded["title"])
}

type Audit struct {
	CreatedBy string `json:"created_by" groups:"admin"`
	UpdatedBy string `json:"updated_by" groups:"public,admin"`
}

func TestJSONSerializer_EmbeddedStructsFlatten(t *testing.T) {
	type record struct {
		Audit
		Name string `json:"name" groups:"public,admin"`
	}

	value := record{
		Audit: Audit{CreatedBy: "root", UpdatedBy: "alice"},
		Name:  "widget",
	}

	// Promoted fields sit at the top level, exactly as encoding/json
	// flattens them
	decoded := serialize(t, value, SerializationContext{})
	assert.Equal(t, "root", decoded["created_by"])
	assert.Equal(t, "widget", decoded["name"])
	assert.NotContains(t, decoded, "Audit")

	// Group filtering applies to the promoted fields' own tags
	public := serialize(t, value, SerializationContext{Groups: []string{"public"}})
	assert.Equal(t, "alice", public["updated_by"])
	assert.NotContains(t, public, "created_by")
	assert.Equal(t, "widget", public["name"])
}

func TestJSONSerializer_PlainValues(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONSerializer().Serialize(&buf, []int{1, 2, 3}, SerializationContext{}))
	assert.JSONEq(t, "[1,2,3]", buf.String())

	buf.Reset()
	require.NoError(t, NewJSONSerializer().Serialize(&buf, map[string]string{"k": "v"}, SerializationContext{}))
	assert.JSONEq(t, `{"k":"v"}`, buf.String())

	buf.Reset()
	require.NoError(t, NewJSONSerializer().Serialize(&buf, nil, SerializationContext{}))
	assert.Equal(t, "null", buf.String())
}
