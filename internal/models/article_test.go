package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilgisen/newsportal/internal/i18n"
)

func TestArticleImageFields(t *testing.T) {
	payload := `{
		"id": "a-1",
		"slug": "x",
		"title": {"en": "Hello", "bn": "হ্যালো"},
		"featuredImage": {"url": "uploads/train.jpg", "alt": {"en": "High speed train"}},
		"category": {"id": "tech", "slug": "technology", "name": "Technology"},
		"publishedAt": "2025-03-01T08:30:00Z"
	}`

	var article Article
	require.NoError(t, json.Unmarshal([]byte(payload), &article))

	assert.Equal(t, "uploads/train.jpg", article.ImageURL())
	assert.Equal(t, "High speed train", article.ImageAlt("bn"))
	assert.Equal(t, "tech", article.CategoryRef())
	assert.Equal(t, "হ্যালো", i18n.Resolve(article.Title, "bn"))

	published, ok := article.PublishedTime()
	require.True(t, ok)
	assert.Equal(t, 2025, published.Year())
}

func TestArticleLegacyCoverImage(t *testing.T) {
	article := Article{Title: i18n.Plain("Story"), CoverImage: "https://images.unsplash.com/photo.jpg"}
	assert.Equal(t, "https://images.unsplash.com/photo.jpg", article.ImageURL())
	assert.Equal(t, "Story", article.ImageAlt("en"))
}

func TestArticlePayloadOmitsEmptyText(t *testing.T) {
	data, err := json.Marshal(ArticlePayload{Slug: "x", Title: i18n.EnBn("Hello", "")})
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal(data, &result))
	assert.NotContains(t, result, "excerpt")
	assert.NotContains(t, result, "id")
	assert.Equal(t, map[string]any{"en": "Hello", "bn": ""}, result["title"])
}

func TestBuildCategoryTree(t *testing.T) {
	flat := []Category{
		{ID: "sport", Slug: "sport", Order: 2},
		{ID: "cricket", Slug: "cricket", ParentID: "sport"},
		{ID: "world", Slug: "world", Order: 1},
		{ID: "orphan", Slug: "orphan", ParentID: "gone"},
		{ID: "loop", Slug: "loop", ParentID: "loop"},
	}

	nodes := BuildCategoryTree(flat)
	require.Len(t, nodes, 5)

	var order []string
	depth := map[string]int{}
	for _, n := range nodes {
		order = append(order, n.Category.ID)
		depth[n.Category.ID] = n.Depth
	}
	assert.Equal(t, []string{"loop", "orphan", "world", "sport", "cricket"}, order)
	assert.Equal(t, 1, depth["cricket"])
}

func TestPickAd(t *testing.T) {
	off := false
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	ads := []Advertisement{
		{ID: "expired", Priority: 9, EndDate: "2025-06-09"},
		{ID: "disabled", Priority: 8, IsActive: &off},
		{ID: "future", Priority: 7, StartDate: "2025-07-01"},
		{ID: "low", Priority: 1},
		{ID: "today", Priority: 5, ActiveTo: "2025-06-10"},
	}

	picked := PickAd(ads, now)
	require.NotNil(t, picked)
	assert.Equal(t, "today", picked.ID)

	assert.Nil(t, PickAd(ads[:3], now))
}

func TestMediaHelpers(t *testing.T) {
	m := Media{URL: "/uploads/2025/My%20Photo.webp?w=200"}
	assert.True(t, m.IsImage())
	assert.Equal(t, "My Photo.webp", m.DisplayName())

	doc := Media{URL: "/uploads/report.pdf", Type: "application/pdf"}
	assert.False(t, doc.IsImage())
}

func TestArticleCategoryAsID(t *testing.T) {
	var article Article
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","slug":"s","title":"T","category":"sport"}`), &article))
	require.NotNil(t, article.Category)
	assert.Equal(t, "sport", article.CategoryRef())
}
