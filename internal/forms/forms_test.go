package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilgisen/newsportal/internal/i18n"
	"github.com/bilgisen/newsportal/internal/models"
)

func TestEditState(t *testing.T) {
	var s EditState
	assert.False(t, s.IsEditing())

	s = s.Begin("c1")
	assert.True(t, s.IsEditing())
	assert.Equal(t, "c1", s.ID())

	assert.Equal(t, s, s.AfterDelete("c2"), "deleting another item keeps the edit")
	assert.False(t, s.AfterDelete("c1").IsEditing())
	assert.False(t, s.AfterSave().IsEditing())
	assert.False(t, s.Cancel().IsEditing())
}

func TestCategoryDraftRequiresSlug(t *testing.T) {
	d := NewCategoryDraft()
	d.NameEn = "Sport"

	errs := d.Check()
	require.NotNil(t, errs)
	assert.True(t, errs.Has("slug"))
	assert.Equal(t, "This field is required.", errs["slug"])

	d.Slug = "sport"
	assert.Nil(t, d.Check())
}

func TestCategoryDraftSlugFormat(t *testing.T) {
	for _, slug := range []string{"Sport", "-sport", "sport-", "spo rt", "খেলা"} {
		d := CategoryDraft{NameEn: "Sport", Slug: slug}
		assert.True(t, d.Check().Has("slug"), slug)
	}
	d := CategoryDraft{NameEn: "Sport", Slug: "sport-2025"}
	assert.Nil(t, d.Check())
}

func TestCategoryDraftOwnParent(t *testing.T) {
	d := CategoryDraft{ID: "c1", NameEn: "Sport", Slug: "sport", ParentID: "c1"}
	assert.True(t, d.Check().Has("parentId"))
}

func TestCategoryRoundTrip(t *testing.T) {
	active := false
	c := models.Category{
		ID:       "c1",
		Slug:     "sport",
		Name:     i18n.EnBn("Sport", "খেলা"),
		ParentID: "root",
		IsActive: &active,
	}

	d := FromCategory(c)
	assert.Equal(t, 1, d.Order)
	assert.True(t, d.ShowInMenu)
	assert.False(t, d.IsActive)

	p := d.Payload()
	assert.Equal(t, "c1", p.ID)
	assert.Equal(t, "খেলা", p.Name.Get("bn"))
	require.NotNil(t, p.ParentID)
	assert.Equal(t, "root", *p.ParentID)

	d.ParentID = ""
	assert.Nil(t, d.Payload().ParentID)
}

func TestFromArticlePlainText(t *testing.T) {
	d := FromArticle(models.Article{ID: "a1", Slug: "x", Title: i18n.Plain("Legacy")})
	assert.Equal(t, "Legacy", d.TitleEn)
	assert.Empty(t, d.TitleBn)
	assert.Equal(t, models.StatusDraft, d.Status)
}

func TestArticleDraftPayload(t *testing.T) {
	d := NewArticleDraft()
	d.TitleEn = "Hello"
	d.Slug = " hello "
	d.Category = "sport"

	require.Nil(t, d.Check())
	p := d.Payload()
	assert.Empty(t, p.ID)
	assert.Equal(t, "hello", p.Slug)
	assert.Equal(t, "sport", p.CategoryID)
	assert.Nil(t, p.FeaturedImage)

	d.ImageURL = "uploads/x.jpg"
	assert.Equal(t, "uploads/x.jpg", d.Payload().FeaturedImage.URL)
}

func TestArticleDraftStatus(t *testing.T) {
	d := ArticleDraft{TitleEn: "Hello", Slug: "hello", Status: "live"}
	errs := d.Check()
	assert.Equal(t, "Pick one of: draft, published, scheduled, archived.", errs["status"])
}

func TestPasswordChangeMismatch(t *testing.T) {
	f := PasswordChange{CurrentPassword: "old-secret", NewPassword: "new-secret", ConfirmPassword: "new-secrex"}
	errs := f.Check()
	assert.Equal(t, "Does not match.", errs["confirmPassword"])

	f.ConfirmPassword = "new-secret"
	assert.Nil(t, f.Check())

	f = PasswordChange{CurrentPassword: "same-secret", NewPassword: "same-secret", ConfirmPassword: "same-secret"}
	assert.True(t, f.Check().Has("newPassword"))
}

func TestRegisterForm(t *testing.T) {
	f := RegisterForm{Name: "Rafi", Email: "not-an-email", Password: "short", ConfirmPassword: "other"}
	errs := f.Check()
	assert.Equal(t, "Enter a valid email address.", errs["email"])
	assert.Equal(t, "Use at least 8 characters.", errs["password"])
	assert.True(t, errs.Has("confirmPassword"))
}

func TestUserDraftPassword(t *testing.T) {
	d := NewUserDraft()
	d.Name = "Nadia"
	d.Email = "nadia@example.com"
	assert.True(t, d.Check().Has("password"), "new accounts need a password")

	d.ID = "u1"
	assert.Nil(t, d.Check())
	assert.Empty(t, d.Payload().Password)
}

func TestAdDraft(t *testing.T) {
	d := NewAdDraft()
	d.Name = "Spring sale"
	d.LinkURL = "example.com"
	d.StartDate = "2025-06-10"
	d.EndDate = "2025-06-01"

	errs := d.Check()
	assert.True(t, errs.Has("linkUrl"))
	assert.True(t, errs.Has("endDate"))

	d.LinkURL = "https://example.com/sale"
	d.EndDate = "2025-06-30"
	d.ImageURL = "uploads/ad.png"
	require.Nil(t, d.Check())

	p := d.Payload()
	assert.Equal(t, []string{"home"}, p.DisplayPages)
	assert.Equal(t, "uploads/ad.png", p.Image.URL)
}

func TestFromAdMergesLegacyFields(t *testing.T) {
	d := FromAd(models.Advertisement{ID: "ad1", Title: "Legacy", TargetURL: "https://x.test", ActiveTo: "2025-06-10T00:00:00Z"})
	assert.Equal(t, "Legacy", d.Name)
	assert.Equal(t, "https://x.test", d.LinkURL)
	assert.Equal(t, "2025-06-10", d.EndDate)
	assert.True(t, d.IsActive)
}

func TestMediaDraft(t *testing.T) {
	d := MediaDraft{ID: "m1", AltEn: " Bridge ", Tags: "dhaka, ,bridge"}
	p := d.Payload()
	assert.Equal(t, []string{"en"}, p.Alt.Locales())
	assert.Equal(t, "Bridge", p.Alt.Get("en"))
	assert.Equal(t, []string{"dhaka", "bridge"}, p.Tags)

	assert.True(t, MediaDraft{}.Alt().IsZero())
}
