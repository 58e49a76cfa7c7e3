package club

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"empty value", "", "N/A"},
		{"rfc3339", "2025-03-05T10:30:00Z", "05-03-2025"},
		{"date only", "2025-03-05", "05-03-2025"},
		{"garbage", "yesterday", "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDate(tt.value))
		})
	}
}

func TestFullURL(t *testing.T) {
	base := "https://cdn.club369.example"

	tests := []struct {
		name string
		path string
		want string
	}{
		{"empty path", "", ""},
		{"relative path", "uploads/avatar.jpg", base + "/uploads/avatar.jpg"},
		{"leading slash", "/uploads/avatar.jpg", base + "/uploads/avatar.jpg"},
		{"absolute http", "http://other.example/a.jpg", "http://other.example/a.jpg"},
		{"absolute https", "https://other.example/a.jpg", "https://other.example/a.jpg"},
		{"data url", "data:image/png;base64,AAAA", "data:image/png;base64,AAAA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FullURL(base, tt.path))
		})
	}
}
