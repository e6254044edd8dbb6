package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/gofiber/template/html/v2"

	"github.com/bilgisen/newsportal/internal/content"
	"github.com/bilgisen/newsportal/internal/i18n"
	"github.com/bilgisen/newsportal/internal/media"
	"github.com/bilgisen/newsportal/internal/models"
	"github.com/bilgisen/newsportal/internal/rbac"
)

//go:embed templates
var templatesFS embed.FS

// NewEngine builds the view engine over the embedded templates. Templates
// are named by path without extension, e.g. "site/home", and pages render
// inside "layouts/site" or "layouts/admin".
func NewEngine(resolver *media.Resolver) *html.Engine {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFuncMap(Funcs(resolver))
	return engine
}

// Funcs returns the template helpers.
func Funcs(resolver *media.Resolver) template.FuncMap {
	return template.FuncMap{
		// t resolves localized API text.
		"t": func(lang i18n.Language, text i18n.Text) string {
			return i18n.Resolve(text, string(lang))
		},
		// label looks up a fixed UI string.
		"label": func(lang i18n.Language, key string) string {
			return i18n.Label(lang, key)
		},
		"media": resolver.Resolve,
		"date": func(lang i18n.Language, value string) string {
			return content.FormatDate(value, lang)
		},
		"body": func(lang i18n.Language, text i18n.Text) template.HTML {
			return content.Body(i18n.Resolve(text, string(lang)))
		},
		"excerpt": func(lang i18n.Language, a models.Article, max int) string {
			return content.Excerpt(a, string(lang), max)
		},
		"readingTime": func(lang i18n.Language, a models.Article) string {
			return content.ArticleReadingTime(a, lang)
		},
		"alt": func(lang i18n.Language, a models.Article) string {
			return a.ImageAlt(string(lang))
		},
		"digits": func(lang i18n.Language, v any) string {
			return i18n.Digits(lang, fmt.Sprint(v))
		},
		"percent": func(v float64) string {
			return strconv.FormatFloat(v, 'f', 1, 64) + "%"
		},
		"can": func(user *models.User, area string) bool {
			return user != nil && rbac.CanAccessAdminArea(user.Role, rbac.Area(area))
		},
		"canDeleteArticle": func(user *models.User) bool {
			return user != nil && rbac.CanDeleteArticle(user.Role)
		},
		"add":  func(a, b int) int { return a + b },
		"dict": dict,
	}
}

func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.New("dict needs key/value pairs")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}
