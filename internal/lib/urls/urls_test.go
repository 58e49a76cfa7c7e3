package urls

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFull(t *testing.T) {
	const base = "https://cdn.club369.example"

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "empty path", path: "", want: ""},
		{name: "absolute http", path: "http://other.example/a.png", want: "http://other.example/a.png"},
		{name: "absolute https", path: "https://other.example/a.png", want: "https://other.example/a.png"},
		{name: "data url", path: "data:image/png;base64,AAAA", want: "data:image/png;base64,AAAA"},
		{name: "relative with slash", path: "/avatars/u1.png", want: base + "/avatars/u1.png"},
		{name: "relative without slash", path: "avatars/u1.png", want: base + "/avatars/u1.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Full(base, tt.path))
		})
	}
}

func TestFull_TrailingSlashBase(t *testing.T) {
	assert.Equal(t, "https://cdn.example/a.png", Full("https://cdn.example/", "a.png"))
}
