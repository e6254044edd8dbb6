package models

import (
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/bilgisen/newsportal/internal/i18n"
)

// Media is an item of the media library.
type Media struct {
	ID       string    `json:"id"`
	URL      string    `json:"url"`
	Alt      i18n.Text `json:"alt,omitzero"`
	Caption  string    `json:"caption,omitempty"`
	Folder   string    `json:"folder,omitempty"`
	Type     string    `json:"type,omitempty"`
	Filename string    `json:"filename,omitempty"`
	Tags     []string  `json:"tags,omitempty"`
}

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".webp", ".gif", ".avif", ".svg"}

// IsImage guesses whether the item is an image from its MIME type or URL.
func (m Media) IsImage() bool {
	if t := strings.ToLower(m.Type); t != "" && strings.HasPrefix(t, "image") {
		return true
	}
	u := strings.ToLower(m.URL)
	for _, ext := range imageExtensions {
		if strings.Contains(u, ext) {
			return true
		}
	}
	return false
}

// DisplayName is the filename, falling back to the last URL segment, then
// the caption.
func (m Media) DisplayName() string {
	if m.Filename != "" {
		return m.Filename
	}
	if name := FilenameFromURL(m.URL); name != "" {
		return name
	}
	if m.Caption != "" {
		return m.Caption
	}
	return "Image"
}

// FilenameFromURL returns the decoded last path segment of u.
func FilenameFromURL(u string) string {
	p := strings.SplitN(u, "?", 2)[0]
	name := path.Base(strings.TrimRight(p, "/"))
	if name == "." || name == "/" {
		return ""
	}
	if decoded, err := url.PathUnescape(name); err == nil {
		return decoded
	}
	return name
}

// MediaUpdatePayload edits library metadata.
type MediaUpdatePayload struct {
	ID      string    `json:"-"`
	Alt     i18n.Text `json:"alt,omitzero"`
	Caption string    `json:"caption,omitempty"`
	Folder  string    `json:"folder,omitempty"`
	Tags    []string  `json:"tags,omitempty"`
}

// MediaRegistration records an object that was uploaded directly to the
// media bucket.
type MediaRegistration struct {
	URL      string    `json:"url"`
	Filename string    `json:"filename,omitempty"`
	Type     string    `json:"type,omitempty"`
	Size     int64     `json:"size,omitempty"`
	Alt      i18n.Text `json:"alt,omitzero"`
	Folder   string    `json:"folder,omitempty"`
	Tags     []string  `json:"tags,omitempty"`
}

// MediaUpload is a file submitted to the media library.
type MediaUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
	Alt         i18n.Text
	Folder      string
	Tags        []string
}
