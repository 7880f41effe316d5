package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPath_Segments(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected []Segment
	}{
		{
			name:     "static only",
			path:     "/users/active",
			expected: []Segment{{Type: StaticSegment, Value: "users"}, {Type: StaticSegment, Value: "active"}},
		},
		{
			name: "typed parameter",
			path: "/users/{id:int}",
			expected: []Segment{
				{Type: StaticSegment, Value: "users"},
				{Type: ParamSegment, Value: "id", ParamType: "int"},
			},
		},
		{
			name: "untyped parameter",
			path: "/users/{name}",
			expected: []Segment{
				{Type: StaticSegment, Value: "users"},
				{Type: ParamSegment, Value: "name"},
			},
		},
		{
			name: "optional trailing parameter",
			path: "/posts/{slug}/comments/{page:int?}",
			expected: []Segment{
				{Type: StaticSegment, Value: "posts"},
				{Type: ParamSegment, Value: "slug"},
				{Type: StaticSegment, Value: "comments"},
				{Type: ParamSegment, Value: "page", ParamType: "int", Optional: true},
			},
		},
		{
			name: "wildcard",
			path: "/files/{*}",
			expected: []Segment{
				{Type: StaticSegment, Value: "files"},
				{Type: WildcardSegment, Value: "*"},
			},
		},
		{
			name:     "root",
			path:     "/",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewPath(tt.path).Segments())
		})
	}
}

func TestPath_Shapes(t *testing.T) {
	assert.Equal(t, []string{"users/*"}, NewPath("/users/{id:int}").Shapes())
	assert.Equal(t, []string{"users"}, NewPath("/users").Shapes())

	// Optional trailing parameters produce one shape per arity
	assert.Equal(t,
		[]string{"posts/*/comments/*", "posts/*/comments"},
		NewPath("/posts/{slug}/comments/{page:int?}").Shapes())

	assert.Equal(t,
		[]string{"archive/*/*", "archive/*", "archive"},
		NewPath("/archive/{year:int?}/{month:int?}").Shapes())
}

func TestPath_ParamNames(t *testing.T) {
	assert.Equal(t, []string{"slug", "page"}, NewPath("/posts/{slug}/comments/{page:int?}").ParamNames())
	assert.Nil(t, NewPath("/health").ParamNames())
}

func TestPath_Validate(t *testing.T) {
	valid := []string{
		"/users",
		"/users/{id:int}",
		"/posts/{slug}/comments/{page:int?}",
		"/files/{*}",
		"/",
	}
	for _, path := range valid {
		assert.NoError(t, NewPath(path).Validate(), path)
	}

	invalid := []string{
		"/users/{id:int",
		"/users/{id}/posts/{id}",
		"/users/{page?}/profile",
		"/users/{page?}/{id}",
		"/files/{*}/tail",
		"/users/{}",
	}
	for _, path := range invalid {
		require.Error(t, NewPath(path).Validate(), path)
	}
}
