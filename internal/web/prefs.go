package web

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bilgisen/newsportal/internal/i18n"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// language picks the UI language: the preference cookie, then the
// browser's Accept-Language, then the site default.
func (s *Server) language(c *fiber.Ctx) i18n.Language {
	if lang, ok := i18n.ParseLanguage(c.Cookies(LanguageCookie)); ok {
		return lang
	}
	return i18n.Negotiate(c.Get(fiber.HeaderAcceptLanguage), s.opts.DefaultLanguage)
}

func theme(c *fiber.Ctx) string {
	if c.Cookies(ThemeCookie) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// SetLanguage stores the language preference. An unsupported value toggles
// the current language.
func (s *Server) SetLanguage(c *fiber.Ctx, value string) i18n.Language {
	r := Req(c)
	lang, ok := i18n.ParseLanguage(value)
	if !ok {
		lang = r.Lang.Toggle()
	}
	r.Lang = lang
	s.setCookie(c, LanguageCookie, string(lang), prefsMaxAge, false)
	return lang
}

// SetTheme stores the theme preference. An unknown value toggles the
// current theme.
func (s *Server) SetTheme(c *fiber.Ctx, value string) string {
	r := Req(c)
	switch value {
	case ThemeLight, ThemeDark:
	default:
		value = ThemeDark
		if r.Theme == ThemeDark {
			value = ThemeLight
		}
	}
	r.Theme = value
	s.setCookie(c, ThemeCookie, value, prefsMaxAge, false)
	return value
}
