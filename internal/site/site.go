// Package site serves the public news portal.
package site

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bilgisen/newsportal/internal/logger"
	"github.com/bilgisen/newsportal/internal/models"
	"github.com/bilgisen/newsportal/internal/portal"
	"github.com/bilgisen/newsportal/internal/query"
	"github.com/bilgisen/newsportal/internal/web"
)

const (
	layout       = "layouts/site"
	trackTimeout = 5 * time.Second
	pageSize     = 12
)

// Handler serves the public pages.
type Handler struct {
	srv *web.Server
	bg  *web.Background
	now func() time.Time
}

func New(srv *web.Server, bg *web.Background) *Handler {
	return &Handler{srv: srv, bg: bg, now: time.Now}
}

// Register mounts the public routes.
func (h *Handler) Register(r fiber.Router) {
	r.Get("/", h.Home)
	r.Get("/article/:slug", h.Article)
	r.Get("/category/:slug", h.Category)
	r.Get("/search", h.Search)
	r.Get("/ads/:id/click", h.AdClick)

	r.Get("/auth/login", h.LoginForm)
	r.Post("/auth/login", h.Login)
	r.Get("/auth/register", h.RegisterForm)
	r.Post("/auth/register", h.SignUp)
	r.Post("/auth/logout", h.Logout)
	r.Get("/profile", h.Profile)
	r.Post("/profile", h.UpdateProfile)
	r.Post("/profile/password", h.ChangePassword)

	r.Post("/preferences/language", h.Language)
	r.Post("/preferences/theme", h.Theme)
}

// slot is one rendered ad placement.
type slot struct {
	Position string
	Ad       *models.Advertisement
	Result   query.Result[[]models.Advertisement]
}

// loadSlot picks the ad for position on page and records the impression in
// the background.
func (h *Handler) loadSlot(ctx context.Context, page, position string) slot {
	res := h.srv.Public().ActiveAds(ctx, portal.AdQuery{Position: position, Page: page})
	s := slot{Position: position, Result: res}
	if !res.Ready() {
		return s
	}
	s.Ad = models.PickAd(res.Data, h.now())
	if s.Ad != nil {
		id := s.Ad.ID
		h.bg.Go(ctx, trackTimeout, "ad impression", func(ctx context.Context) error {
			return h.srv.Public().TrackImpression(ctx, id)
		})
	}
	return s
}

// menu loads the navigation categories for pages that load nothing else.
func (h *Handler) menu(c *fiber.Ctx) query.Result[[]models.Category] {
	ctx, cancel := h.srv.Budget(c)
	defer cancel()
	return h.srv.Public().MenuCategories(ctx)
}

func (h *Handler) render(c *fiber.Ctx, name string, data fiber.Map) error {
	return c.Render(name, h.srv.View(c, data), layout)
}

func (h *Handler) notFound(c *fiber.Ctx, menu query.Result[[]models.Category]) error {
	return c.Status(fiber.StatusNotFound).Render("site/error", h.srv.View(c, fiber.Map{
		"Menu":   menu,
		"Status": fiber.StatusNotFound,
		"Title":  "state.not_found",
	}), layout)
}

func logFailed(name string, err error) {
	if err != nil {
		logger.Get().Warn().Err(err).Str("section", name).Msg("Section failed to load")
	}
}
