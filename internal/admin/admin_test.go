package admin

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilgisen/newsportal/internal/forms"
	"github.com/bilgisen/newsportal/internal/i18n"
	"github.com/bilgisen/newsportal/internal/models"
	"github.com/bilgisen/newsportal/internal/web/webtest"
)

func newEnv(t *testing.T, role models.Role) *webtest.Env {
	t.Helper()
	api := webtest.NewAPI(t)
	api.Handle(http.MethodGet, "/auth/me", models.User{ID: "u1", Name: "Rafiq", Email: "rafiq@example.com", Role: role})
	api.Handle(http.MethodGet, "/categories", []models.Category{
		{ID: "c1", Slug: "politics", Name: i18n.EnBn("Politics", "রাজনীতি"), Order: 1},
	})
	api.Handle(http.MethodGet, "/users", []models.User{{ID: "u2", Name: "Nadia", Email: "nadia@example.com", Role: models.RoleJournalist}})
	api.Handle(http.MethodGet, "/articles", []models.Article{
		{ID: "a1", Slug: "budget", Title: i18n.EnBn("Budget passed", "বাজেট পাস"), Status: models.StatusPublished},
	})

	env := webtest.New(t, api)
	New(env.Server).Register(env.App)
	return env
}

func TestGuardRedirectsAnonymousToLogin(t *testing.T) {
	env := newEnv(t, models.RoleAdmin)

	resp := env.Do(t, webtest.Request{Path: "/admin/articles"})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/auth/login?next="+url.QueryEscape("/admin/articles"), resp.Header.Get("Location"))
}

func TestGuardRedirectsReadersToSite(t *testing.T) {
	env := newEnv(t, models.RoleReader)

	resp := env.Do(t, webtest.Request{Path: "/admin", Cookies: webtest.SignedIn()})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestJournalistCannotOpenUsers(t *testing.T) {
	env := newEnv(t, models.RoleJournalist)

	resp := env.Do(t, webtest.Request{Path: "/admin/users", Cookies: webtest.SignedIn()})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/admin/articles", resp.Header.Get("Location"))
	assert.False(t, env.API.Called(http.MethodGet, "/users"), "user list must not be requested")
}

func TestAdminSeesUsers(t *testing.T) {
	env := newEnv(t, models.RoleSuperAdmin)

	resp := env.Do(t, webtest.Request{Path: "/admin/users", Cookies: webtest.SignedIn()})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := webtest.Body(t, resp)
	assert.Contains(t, body, "nadia@example.com")
	assert.True(t, env.API.Called(http.MethodGet, "/users"))
}

func TestNavFollowsRole(t *testing.T) {
	env := newEnv(t, models.RoleJournalist)

	resp := env.Do(t, webtest.Request{Path: "/admin/articles", Cookies: webtest.SignedIn()})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := webtest.Body(t, resp)
	assert.Contains(t, body, `href="/admin/articles"`)
	assert.Contains(t, body, `href="/admin/settings"`)
	assert.NotContains(t, body, `href="/admin/users"`)
	assert.NotContains(t, body, `href="/admin/categories"`)
}

func TestEmptyCategorySlugIsRejectedLocally(t *testing.T) {
	env := newEnv(t, models.RoleAdmin)

	resp := env.Do(t, webtest.Request{
		Method:  http.MethodPost,
		Path:    "/admin/categories",
		Cookies: webtest.SignedIn(),
		Form:    url.Values{"nameEn": {"World"}, "slug": {""}, "order": {"1"}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	body := webtest.Body(t, resp)
	assert.Contains(t, body, "This field is required.")
	assert.Contains(t, body, `value="World"`)
	assert.False(t, env.API.Called(http.MethodPost, "/categories"), "invalid form must not reach the API")
}

func TestSaveCategoryPostsAndRedirects(t *testing.T) {
	env := newEnv(t, models.RoleAdmin)
	env.API.Handle(http.MethodPost, "/categories", models.Category{ID: "c2", Slug: "world", Name: i18n.Plain("World")})

	resp := env.Do(t, webtest.Request{
		Method:  http.MethodPost,
		Path:    "/admin/categories",
		Cookies: webtest.SignedIn(),
		Form:    url.Values{"nameEn": {"World"}, "slug": {"world"}, "order": {"2"}, "isActive": {"true"}},
	})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/categories", resp.Header.Get("Location"))
	assert.True(t, env.API.Called(http.MethodPost, "/categories"))
}

func TestJournalistCannotDeleteArticles(t *testing.T) {
	env := newEnv(t, models.RoleJournalist)

	page := env.Do(t, webtest.Request{Path: "/admin/articles", Cookies: webtest.SignedIn()})
	require.Equal(t, http.StatusOK, page.StatusCode)
	assert.NotContains(t, webtest.Body(t, page), "/admin/articles/a1/delete")

	resp := env.Do(t, webtest.Request{
		Method:  http.MethodPost,
		Path:    "/admin/articles/a1/delete",
		Cookies: webtest.SignedIn(),
		Form:    url.Values{},
	})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.False(t, env.API.Called(http.MethodDelete, "/articles/a1"))
}

func TestAdminDeletesArticle(t *testing.T) {
	env := newEnv(t, models.RoleAdmin)
	env.API.Handle(http.MethodDelete, "/articles/a1", nil)

	page := env.Do(t, webtest.Request{Path: "/admin/articles", Cookies: webtest.SignedIn()})
	require.Equal(t, http.StatusOK, page.StatusCode)
	assert.Contains(t, webtest.Body(t, page), "/admin/articles/a1/delete")

	resp := env.Do(t, webtest.Request{
		Method:  http.MethodPost,
		Path:    "/admin/articles/a1/delete",
		Cookies: webtest.SignedIn(),
		Form:    url.Values{"editing": {"a1"}},
	})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/articles", resp.Header.Get("Location"))
	assert.True(t, env.API.Called(http.MethodDelete, "/articles/a1"))
}

func TestEditStateFillsForm(t *testing.T) {
	env := newEnv(t, models.RoleAdmin)

	resp := env.Do(t, webtest.Request{Path: "/admin/categories?edit=c1", Cookies: webtest.SignedIn()})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := webtest.Body(t, resp)
	assert.Contains(t, body, "Edit category")
	assert.Contains(t, body, `value="politics"`)
}

func TestListURL(t *testing.T) {
	var idle forms.EditState
	assert.Equal(t, "/admin/ads", listURL("/admin/ads", idle))
	assert.Equal(t, "/admin/ads?edit=a+b", listURL("/admin/ads", idle.Begin("a b")))
	assert.Equal(t, "/admin/ads", listURL("/admin/ads", idle.Begin("x").AfterDelete("x")))
}
