package models

import (
	"time"

	"github.com/bilgisen/newsportal/internal/i18n"
)

// ArticleStatus is the editorial state of an article.
type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPublished ArticleStatus = "published"
	StatusScheduled ArticleStatus = "scheduled"
	StatusArchived  ArticleStatus = "archived"
)

// ArticleStatuses lists the statuses editors may pick.
var ArticleStatuses = []ArticleStatus{StatusDraft, StatusPublished, StatusScheduled, StatusArchived}

// ImageAsset is an image reference with localized alt text.
type ImageAsset struct {
	URL string    `json:"url"`
	Alt i18n.Text `json:"alt,omitzero"`
}

// AltText resolves the alt text for locale, falling back to fallback when the
// asset has none.
func (a *ImageAsset) AltText(locale, fallback string) string {
	if a == nil {
		return fallback
	}
	if alt := i18n.Resolve(a.Alt, locale); alt != "" {
		return alt
	}
	return fallback
}

// Article is the API view of a news story. Slug is the public identity used
// in URLs; ID is the API identity used for mutations.
type Article struct {
	ID            string        `json:"id"`
	Slug          string        `json:"slug"`
	Title         i18n.Text     `json:"title"`
	Excerpt       i18n.Text     `json:"excerpt,omitzero"`
	Content       i18n.Text     `json:"content,omitzero"`
	FeaturedImage *ImageAsset   `json:"featuredImage,omitempty"`
	CoverImage    string        `json:"coverImage,omitempty"`
	CategoryID    string        `json:"categoryId,omitempty"`
	Category      *Category     `json:"category,omitempty"`
	Author        *User         `json:"author,omitempty"`
	Status        ArticleStatus `json:"status,omitempty"`
	IsFeatured    bool          `json:"isFeatured,omitempty"`
	IsBreaking    bool          `json:"isBreaking,omitempty"`
	IsTrending    bool          `json:"isTrending,omitempty"`
	PublishedAt   string        `json:"publishedAt,omitempty"`
	ReadingTime   int           `json:"readingTime,omitempty"`
	Tags          []i18n.Text   `json:"tags,omitzero"`
}

// ImageURL returns the raw featured image path, falling back to the legacy
// cover image field.
func (a Article) ImageURL() string {
	if a.FeaturedImage != nil && a.FeaturedImage.URL != "" {
		return a.FeaturedImage.URL
	}
	return a.CoverImage
}

// ImageAlt resolves the featured image alt text, defaulting to the title.
func (a Article) ImageAlt(locale string) string {
	return a.FeaturedImage.AltText(locale, i18n.Resolve(a.Title, locale))
}

// CategoryRef returns the category id whether the API embedded the category
// or only referenced it.
func (a Article) CategoryRef() string {
	if a.CategoryID != "" {
		return a.CategoryID
	}
	if a.Category != nil {
		return a.Category.ID
	}
	return ""
}

// PublishedTime parses PublishedAt.
func (a Article) PublishedTime() (time.Time, bool) {
	return ParseTime(a.PublishedAt)
}

// ArticlePayload is the body for create and update calls. An empty ID means
// create.
type ArticlePayload struct {
	ID            string        `json:"id,omitempty"`
	Slug          string        `json:"slug"`
	Title         i18n.Text     `json:"title"`
	Excerpt       i18n.Text     `json:"excerpt,omitzero"`
	Content       i18n.Text     `json:"content,omitzero"`
	CategoryID    string        `json:"category,omitempty"`
	Status        ArticleStatus `json:"status,omitempty"`
	FeaturedImage *ImageAsset   `json:"featuredImage,omitempty"`
	Tags          []i18n.Text   `json:"tags,omitzero"`
	IsFeatured    bool          `json:"isFeatured"`
	IsBreaking    bool          `json:"isBreaking"`
	IsTrending    bool          `json:"isTrending"`
}

// ParseTime accepts RFC 3339 timestamps and bare dates.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
