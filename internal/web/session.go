package web

import (
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bilgisen/newsportal/internal/contentapi"
	"github.com/bilgisen/newsportal/internal/i18n"
	"github.com/bilgisen/newsportal/internal/logger"
	"github.com/bilgisen/newsportal/internal/models"
	"github.com/bilgisen/newsportal/internal/portal"
)

const (
	AccessCookie   = "newsportal_access"
	RefreshCookie  = "newsportal_refresh"
	LanguageCookie = "newsportal_language"
	ThemeCookie    = "newsportal_theme"
	FlashCookie    = "newsportal_flash"

	sessionMaxAge = 30 * 24 * time.Hour
	prefsMaxAge   = 365 * 24 * time.Hour

	requestKey = "newsportal.request"
)

// EncryptedCookies lists the cookies that hold secrets.
var EncryptedCookies = []string{AccessCookie, RefreshCookie}

// PlainCookies lists the cookies left readable by the browser.
var PlainCookies = []string{LanguageCookie, ThemeCookie, FlashCookie}

// CookieTokens is the per-request token store backed by session cookies.
// Changes are buffered and written to the response when the handler
// returns. After that the store is sealed: a late token rotation from a
// fetch that outlived the request is ignored.
type CookieTokens struct {
	mu     sync.Mutex
	tokens contentapi.Tokens
	dirty  bool
	sealed bool
}

func NewCookieTokens(t contentapi.Tokens) *CookieTokens {
	return &CookieTokens{tokens: t}
}

func (s *CookieTokens) Tokens() contentapi.Tokens {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens
}

func (s *CookieTokens) SetTokens(t contentapi.Tokens) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sealed {
		return
	}
	s.tokens = t
	s.dirty = true
}

func (s *CookieTokens) Clear() {
	s.SetTokens(contentapi.Tokens{})
}

// seal stops further changes and returns the pending ones.
func (s *CookieTokens) seal() (contentapi.Tokens, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sealed = true
	return s.tokens, s.dirty
}

// Request is the per-request state the session middleware prepares.
type Request struct {
	Lang   i18n.Language
	Theme  string
	Tokens *CookieTokens
	User   *models.User

	flash      *Flash
	flashTaken bool
}

// Req returns the request state. Outside the session middleware it is an
// anonymous English request.
func Req(c *fiber.Ctx) *Request {
	if r, ok := c.Locals(requestKey).(*Request); ok {
		return r
	}
	r := &Request{Lang: i18n.English, Theme: ThemeLight, Tokens: NewCookieTokens(contentapi.Tokens{})}
	c.Locals(requestKey, r)
	return r
}

// Session prepares the request state: tokens from cookies, the UI
// language and theme, the pending flash and the signed-in user. Token
// changes made while handling the request are written back as cookies.
func (s *Server) Session() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokens := NewCookieTokens(contentapi.Tokens{
			Access:  c.Cookies(AccessCookie),
			Refresh: c.Cookies(RefreshCookie),
		})
		r := &Request{
			Lang:   s.language(c),
			Theme:  theme(c),
			Tokens: tokens,
			flash:  readFlash(c),
		}
		c.Locals(requestKey, r)

		// The user lookup may rotate tokens, so it runs without the render
		// budget and before any page data is fetched.
		user, err := s.portal.For(portalViewer(r)).CurrentUser(c.UserContext())
		if err != nil {
			logger.Get().Debug().Err(err).Msg("Session user lookup failed")
		}
		r.User = user

		err = c.Next()
		s.writeTokens(c, r.Tokens)
		return err
	}
}

func (s *Server) writeTokens(c *fiber.Ctx, store *CookieTokens) {
	t, dirty := store.seal()
	if !dirty {
		return
	}
	s.setCookie(c, AccessCookie, t.Access, sessionMaxAge, true)
	s.setCookie(c, RefreshCookie, t.Refresh, sessionMaxAge, true)
}

// setCookie writes a cookie, or expires it when value is empty.
func (s *Server) setCookie(c *fiber.Ctx, name, value string, maxAge time.Duration, httpOnly bool) {
	cookie := &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HTTPOnly: httpOnly,
		Secure:   s.opts.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	if value == "" {
		cookie.Expires = time.Unix(0, 0)
		cookie.MaxAge = -1
	} else {
		cookie.MaxAge = int(maxAge.Seconds())
	}
	c.Cookie(cookie)
}

// SafeRedirect returns target when it is a local path and fallback
// otherwise.
func SafeRedirect(target, fallback string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}
	return target
}

func portalViewer(r *Request) portal.Viewer {
	v := portal.Viewer{Tokens: r.Tokens, Language: string(r.Lang)}
	if r.User != nil {
		v.UserID = r.User.ID
	}
	return v
}
