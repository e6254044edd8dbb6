package forms

import (
	"strings"

	"github.com/bilgisen/newsportal/internal/i18n"
	"github.com/bilgisen/newsportal/internal/models"
)

// ArticleDraft is the article editor form.
type ArticleDraft struct {
	ID         string               `form:"id"`
	TitleEn    string               `form:"titleEn" validate:"required,max=300"`
	TitleBn    string               `form:"titleBn" validate:"max=300"`
	Slug       string               `form:"slug" validate:"required,slug,max=200"`
	ExcerptEn  string               `form:"excerptEn"`
	ExcerptBn  string               `form:"excerptBn"`
	ContentEn  string               `form:"contentEn"`
	ContentBn  string               `form:"contentBn"`
	Category   string               `form:"category"`
	Status     models.ArticleStatus `form:"status" validate:"required,oneof=draft published scheduled archived"`
	ImageURL   string               `form:"imageUrl"`
	IsFeatured bool                 `form:"isFeatured"`
	IsBreaking bool                 `form:"isBreaking"`
	IsTrending bool                 `form:"isTrending"`
}

// NewArticleDraft returns the blank create form.
func NewArticleDraft() ArticleDraft {
	return ArticleDraft{Status: models.StatusDraft}
}

// FromArticle fills the form for editing a. Plain legacy text lands in the
// English fields.
func FromArticle(a models.Article) ArticleDraft {
	status := a.Status
	if status == "" {
		status = models.StatusDraft
	}
	return ArticleDraft{
		ID:         a.ID,
		TitleEn:    a.Title.Get("en"),
		TitleBn:    localizedOnly(a.Title, "bn"),
		Slug:       a.Slug,
		ExcerptEn:  a.Excerpt.Get("en"),
		ExcerptBn:  localizedOnly(a.Excerpt, "bn"),
		ContentEn:  a.Content.Get("en"),
		ContentBn:  localizedOnly(a.Content, "bn"),
		Category:   a.CategoryRef(),
		Status:     status,
		ImageURL:   a.ImageURL(),
		IsFeatured: a.IsFeatured,
		IsBreaking: a.IsBreaking,
		IsTrending: a.IsTrending,
	}
}

func (d ArticleDraft) Check() Errors { return Validate(d) }

func (d ArticleDraft) Payload() models.ArticlePayload {
	p := models.ArticlePayload{
		ID:         d.ID,
		Slug:       strings.TrimSpace(d.Slug),
		Title:      i18n.EnBn(d.TitleEn, d.TitleBn),
		Excerpt:    i18n.EnBn(d.ExcerptEn, d.ExcerptBn),
		Content:    i18n.EnBn(d.ContentEn, d.ContentBn),
		CategoryID: d.Category,
		Status:     d.Status,
		IsFeatured: d.IsFeatured,
		IsBreaking: d.IsBreaking,
		IsTrending: d.IsTrending,
	}
	if d.ImageURL != "" {
		p.FeaturedImage = &models.ImageAsset{URL: d.ImageURL}
	}
	return p
}

// CategoryDraft is the category editor form.
type CategoryDraft struct {
	ID            string `form:"id"`
	NameEn        string `form:"nameEn" validate:"required,max=120"`
	NameBn        string `form:"nameBn" validate:"max=120"`
	Slug          string `form:"slug" validate:"required,slug,max=120"`
	DescriptionEn string `form:"descriptionEn"`
	DescriptionBn string `form:"descriptionBn"`
	ParentID      string `form:"parentId"`
	Order         int    `form:"order" validate:"min=0"`
	ShowInMenu    bool   `form:"showInMenu"`
	IsActive      bool   `form:"isActive"`
}

func NewCategoryDraft() CategoryDraft {
	return CategoryDraft{Order: 1, ShowInMenu: true, IsActive: true}
}

func FromCategory(c models.Category) CategoryDraft {
	order := c.Order
	if order == 0 {
		order = 1
	}
	return CategoryDraft{
		ID:            c.ID,
		NameEn:        c.Name.Get("en"),
		NameBn:        localizedOnly(c.Name, "bn"),
		Slug:          c.Slug,
		DescriptionEn: c.Description.Get("en"),
		DescriptionBn: localizedOnly(c.Description, "bn"),
		ParentID:      c.ParentID,
		Order:         order,
		ShowInMenu:    c.InMenu(),
		IsActive:      c.Active(),
	}
}

// Check also refuses a category that is its own parent.
func (d CategoryDraft) Check() Errors {
	errs := Validate(d)
	if d.ID != "" && d.ParentID == d.ID {
		errs = errs.add("parentId", "A category cannot be its own parent.")
	}
	return errs
}

func (d CategoryDraft) Payload() models.CategoryPayload {
	p := models.CategoryPayload{
		ID:          d.ID,
		Slug:        strings.TrimSpace(d.Slug),
		Name:        i18n.EnBn(d.NameEn, d.NameBn),
		Description: i18n.EnBn(d.DescriptionEn, d.DescriptionBn),
		Order:       d.Order,
		ShowInMenu:  d.ShowInMenu,
		IsActive:    d.IsActive,
	}
	if d.ParentID != "" {
		parent := d.ParentID
		p.ParentID = &parent
	}
	return p
}

// AdDraft is the advertisement editor form.
type AdDraft struct {
	ID         string                   `form:"id"`
	Name       string                   `form:"name" validate:"required,max=160"`
	Type       models.AdvertisementType `form:"type" validate:"required,oneof=banner sidebar native popup video html"`
	Position   string                   `form:"position" validate:"required,oneof=hero banner sidebar in_content popup"`
	Page       string                   `form:"page"`
	LinkURL    string                   `form:"linkUrl" validate:"omitempty,url"`
	ImageURL   string                   `form:"imageUrl"`
	ImageAltEn string                   `form:"imageAltEn"`
	ImageAltBn string                   `form:"imageAltBn"`
	StartDate  string                   `form:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate    string                   `form:"endDate" validate:"omitempty,datetime=2006-01-02"`
	IsActive   bool                     `form:"isActive"`
	Priority   int                      `form:"priority" validate:"min=0,max=100"`
}

func NewAdDraft() AdDraft {
	return AdDraft{Type: models.AdBanner, Position: "hero", Page: "home", IsActive: true, Priority: 5}
}

func FromAd(a models.Advertisement) AdDraft {
	d := AdDraft{
		ID:        a.ID,
		Name:      a.Label(),
		Type:      a.Type,
		Position:  a.Position,
		Page:      a.TargetPage(),
		LinkURL:   a.Link(),
		ImageURL:  a.Picture(),
		StartDate: dateOnly(a.Start()),
		EndDate:   dateOnly(a.End()),
		IsActive:  a.Enabled(),
		Priority:  a.Priority,
	}
	if a.Image != nil {
		d.ImageAltEn = a.Image.Alt.Get("en")
		d.ImageAltBn = localizedOnly(a.Image.Alt, "bn")
	}
	return d
}

// Check also refuses a window that ends before it starts.
func (d AdDraft) Check() Errors {
	errs := Validate(d)
	if d.StartDate != "" && d.EndDate != "" && !errs.Has("startDate") && !errs.Has("endDate") && d.EndDate < d.StartDate {
		errs = errs.add("endDate", "Must not be before the start date.")
	}
	return errs
}

func (d AdDraft) Payload() models.AdvertisementPayload {
	p := models.AdvertisementPayload{
		ID:        d.ID,
		Name:      strings.TrimSpace(d.Name),
		Type:      d.Type,
		Position:  d.Position,
		Page:      d.Page,
		LinkURL:   d.LinkURL,
		StartDate: d.StartDate,
		EndDate:   d.EndDate,
		IsActive:  d.IsActive,
		Priority:  d.Priority,
	}
	if d.ImageURL != "" {
		p.Image = &models.ImageAsset{URL: d.ImageURL, Alt: i18n.EnBn(d.ImageAltEn, d.ImageAltBn)}
	}
	if d.Page != "" {
		p.DisplayPages = []string{d.Page}
	}
	return p
}

// UserDraft is the account editor form. Password is required when creating
// and optional when editing.
type UserDraft struct {
	ID       string      `form:"id"`
	Name     string      `form:"name" validate:"required,max=120"`
	Email    string      `form:"email" validate:"required,email"`
	Role     models.Role `form:"role" validate:"required,oneof=super_admin admin editorial journalist reader"`
	Password string      `form:"password" validate:"omitempty,min=8"`
	IsActive bool        `form:"isActive"`
}

func NewUserDraft() UserDraft {
	return UserDraft{Role: models.RoleEditorial, IsActive: true}
}

func FromUser(u models.User) UserDraft {
	return UserDraft{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, IsActive: u.Active()}
}

func (d UserDraft) Check() Errors {
	errs := Validate(d)
	if d.ID == "" && d.Password == "" {
		errs = errs.add("password", "This field is required.")
	}
	return errs
}

func (d UserDraft) Payload() models.UserPayload {
	active := d.IsActive
	return models.UserPayload{
		ID:       d.ID,
		Name:     strings.TrimSpace(d.Name),
		Email:    strings.TrimSpace(d.Email),
		Role:     d.Role,
		Password: d.Password,
		IsActive: &active,
	}
}

// MediaDraft edits library metadata and doubles as the upload form's text
// fields.
type MediaDraft struct {
	ID     string `form:"id"`
	AltEn  string `form:"altEn" validate:"max=300"`
	AltBn  string `form:"altBn" validate:"max=300"`
	Folder string `form:"folder" validate:"max=120"`
	Tags   string `form:"tags"`
}

func FromMedia(m models.Media) MediaDraft {
	return MediaDraft{
		ID:     m.ID,
		AltEn:  m.Alt.Get("en"),
		AltBn:  localizedOnly(m.Alt, "bn"),
		Folder: m.Folder,
		Tags:   strings.Join(m.Tags, ", "),
	}
}

func (d MediaDraft) Check() Errors { return Validate(d) }

// Alt returns the alt text with blank locales left out.
func (d MediaDraft) Alt() i18n.Text {
	var pairs []string
	if en := strings.TrimSpace(d.AltEn); en != "" {
		pairs = append(pairs, "en", en)
	}
	if bn := strings.TrimSpace(d.AltBn); bn != "" {
		pairs = append(pairs, "bn", bn)
	}
	if len(pairs) == 0 {
		return i18n.Text{}
	}
	return i18n.Localized(pairs...)
}

// TagList splits the comma separated tags field.
func (d MediaDraft) TagList() []string {
	var tags []string
	for _, t := range strings.Split(d.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func (d MediaDraft) Payload() models.MediaUpdatePayload {
	return models.MediaUpdatePayload{ID: d.ID, Alt: d.Alt(), Folder: d.Folder, Tags: d.TagList()}
}

// Upload combines the text fields with a submitted file.
func (d MediaDraft) Upload(file models.MediaUpload) models.MediaUpload {
	file.Alt = d.Alt()
	file.Folder = d.Folder
	file.Tags = d.TagList()
	return file
}

// PasswordChange is the settings screen form.
type PasswordChange struct {
	CurrentPassword string `form:"currentPassword" validate:"required"`
	NewPassword     string `form:"newPassword" validate:"required,min=8,nefield=CurrentPassword"`
	ConfirmPassword string `form:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

func (f PasswordChange) Check() Errors { return Validate(f) }

func (f PasswordChange) Payload() models.PasswordChangePayload {
	return models.PasswordChangePayload{CurrentPassword: f.CurrentPassword, NewPassword: f.NewPassword}
}

type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next"`
}

func (f LoginForm) Check() Errors { return Validate(f) }

func (f LoginForm) Credentials() models.Credentials {
	return models.Credentials{Email: strings.TrimSpace(f.Email), Password: f.Password}
}

type RegisterForm struct {
	Name            string `form:"name" validate:"required,max=120"`
	Email           string `form:"email" validate:"required,email"`
	Password        string `form:"password" validate:"required,min=8"`
	ConfirmPassword string `form:"confirmPassword" validate:"required,eqfield=Password"`
}

func (f RegisterForm) Check() Errors { return Validate(f) }

func (f RegisterForm) Credentials() models.Credentials {
	return models.Credentials{Name: strings.TrimSpace(f.Name), Email: strings.TrimSpace(f.Email), Password: f.Password}
}

type ProfileForm struct {
	Name  string `form:"name" validate:"required,max=120"`
	Email string `form:"email" validate:"required,email"`
}

func FromProfile(u models.User) ProfileForm {
	return ProfileForm{Name: u.Name, Email: u.Email}
}

func (f ProfileForm) Check() Errors { return Validate(f) }

func (f ProfileForm) Payload() models.ProfileUpdate {
	return models.ProfileUpdate{Name: strings.TrimSpace(f.Name), Email: strings.TrimSpace(f.Email)}
}

func (e Errors) add(field, msg string) Errors {
	if e == nil {
		e = Errors{}
	}
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
	return e
}

// localizedOnly returns the locale entry only for translated text, so plain
// legacy values are not duplicated into every language field.
func localizedOnly(t i18n.Text, locale string) string {
	if !t.IsLocalized() {
		return ""
	}
	return t.Get(locale)
}

func dateOnly(s string) string {
	if t, ok := models.ParseTime(s); ok {
		return t.Format("2006-01-02")
	}
	return ""
}
