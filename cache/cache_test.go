package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPath_StableHash(t *testing.T) {
	first := Path("hello-world")
	second := Path("hello-world")
	other := Path("other-post")

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
	assert.Contains(t, first, "hello-world_")
	assert.Contains(t, first, ".html")
}

func TestPostSlugFromPath(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/post/hello-world", "hello-world"},
		{"/post/", ""},
		{"/post/a/b", ""},
		{"/", ""},
		{"/admin/posts", ""},
		{"/category/tech", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, postSlugFromPath(tt.path))
		})
	}
}

func TestClear_EmptySlugNoop(t *testing.T) {
	assert.NoError(t, Clear(""))
}
