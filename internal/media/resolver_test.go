package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const uploadBase = "https://files.example.com"

func newTestResolver() *Resolver {
	return NewResolver(uploadBase+"/", "https://api.example.com/api/v1")
}

func TestResolve(t *testing.T) {
	r := newTestResolver()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"blank", "   ", ""},
		{"relative", "uploads/x.jpg", uploadBase + "/uploads/x.jpg"},
		{"leading slashes", "//uploads/x.jpg", "//uploads/x.jpg"},
		{"rooted", "/uploads/x.jpg", uploadBase + "/uploads/x.jpg"},
		{"versioned api prefix", "api/v1/media/123.png", uploadBase + "/media/123.png"},
		{"rooted versioned api prefix", "/api/v2/media/123.png", uploadBase + "/media/123.png"},
		{"only versioned prefix", "/api/v1/", uploadBase},
		{"only slash", "/", uploadBase},
		{"upload origin", uploadBase + "/uploads/x.jpg", uploadBase + "/uploads/x.jpg"},
		{"api origin", "https://api.example.com/api/v1/media/9.webp", uploadBase + "/media/9.webp"},
		{"origin is case insensitive", "HTTPS://API.EXAMPLE.COM/api/v1/media/9.webp", uploadBase + "/media/9.webp"},
		{"third party", "https://cdn.unsplash.com/photo.jpg", "https://cdn.unsplash.com/photo.jpg"},
		{"third party keeps query", "https://images.unsplash.com/p?auto=format&w=1600", "https://images.unsplash.com/p?auto=format&w=1600"},
		{"data uri", "data:image/png;base64,AAAA", "data:image/png;base64,AAAA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.in))
		})
	}
}

func TestResolveIsCanonical(t *testing.T) {
	r := newTestResolver()

	relative := r.Resolve("uploads/x.jpg")
	assert.Equal(t, relative, r.Resolve(uploadBase+"/uploads/x.jpg"))
	assert.Equal(t, relative, r.Resolve(relative))
}

func TestResolveWithBasePath(t *testing.T) {
	r := NewResolver("https://cdn.example.com/newsportal")

	relative := r.Resolve("uploads/x.jpg")
	assert.Equal(t, "https://cdn.example.com/newsportal/uploads/x.jpg", relative)
	assert.Equal(t, relative, r.Resolve(relative))
}
