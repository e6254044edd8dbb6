// Package admin serves the backoffice. Every route sits behind a login and
// an area check; the screens are lists with an inline create or edit form.
package admin

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/bilgisen/newsportal/internal/forms"
	"github.com/bilgisen/newsportal/internal/logger"
	"github.com/bilgisen/newsportal/internal/rbac"
	"github.com/bilgisen/newsportal/internal/web"
)

const (
	layout   = "layouts/admin"
	pageSize = 20
)

// Handler serves the backoffice screens.
type Handler struct {
	srv *web.Server
}

func New(srv *web.Server) *Handler {
	return &Handler{srv: srv}
}

// Register mounts the backoffice routes under /admin.
func (h *Handler) Register(r fiber.Router) {
	g := r.Group("/admin")

	g.Get("/", h.guard(rbac.AreaDashboard), h.Dashboard)

	articles := g.Group("/articles", h.guard(rbac.AreaArticles))
	articles.Get("/", h.Articles)
	articles.Post("/", h.SaveArticle)
	articles.Post("/:id/delete", h.DeleteArticle)

	categories := g.Group("/categories", h.guard(rbac.AreaCategories))
	categories.Get("/", h.Categories)
	categories.Post("/", h.SaveCategory)
	categories.Post("/:id/delete", h.DeleteCategory)

	ads := g.Group("/ads", h.guard(rbac.AreaAds))
	ads.Get("/", h.Ads)
	ads.Post("/", h.SaveAd)
	ads.Post("/:id/delete", h.DeleteAd)

	library := g.Group("/media", h.guard(rbac.AreaMedia))
	library.Get("/", h.Media)
	library.Post("/", h.UploadMedia)
	library.Post("/:id", h.UpdateMedia)
	library.Post("/:id/delete", h.DeleteMedia)

	users := g.Group("/users", h.guard(rbac.AreaUsers))
	users.Get("/", h.Users)
	users.Post("/", h.SaveUser)
	users.Post("/:id/delete", h.DeleteUser)

	settings := g.Group("/settings", h.guard(rbac.AreaSettings))
	settings.Get("/", h.Settings)
	settings.Post("/profile", h.UpdateProfile)
	settings.Post("/password", h.ChangePassword)
}

// guard sends anonymous visitors to the login page, readers to the site and
// staff without access to area to their landing screen.
func (h *Handler) guard(area rbac.Area) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := web.Req(c).User
		if user == nil {
			return c.Redirect("/auth/login?next=" + url.QueryEscape(c.OriginalURL()))
		}
		if !rbac.CanAccessAdmin(user.Role) {
			return c.Redirect("/")
		}
		if !rbac.CanAccessAdminArea(user.Role, area) {
			logger.Get().Info().
				Str("user", user.ID).
				Str("role", string(user.Role)).
				Str("area", string(area)).
				Msg("Backoffice area refused")
			return c.Redirect(rbac.LandingRoute(user.Role))
		}
		return c.Next()
	}
}

// NavItem is one sidebar entry.
type NavItem struct {
	Href   string
	Label  string
	Active bool
}

func nav(c *fiber.Ctx, current rbac.Area) []NavItem {
	user := web.Req(c).User
	if user == nil {
		return nil
	}
	var items []NavItem
	for _, area := range rbac.VisibleAreas(user.Role) {
		items = append(items, NavItem{
			Href:   areaRoute(area),
			Label:  "admin." + string(area),
			Active: area == current,
		})
	}
	return items
}

func areaRoute(area rbac.Area) string {
	if area == rbac.AreaDashboard {
		return "/admin"
	}
	return "/admin/" + string(area)
}

func (h *Handler) render(c *fiber.Ctx, area rbac.Area, name, title string, data fiber.Map) error {
	view := h.srv.View(c, data)
	view["Title"] = title
	view["Nav"] = nav(c, area)
	if _, ok := view["Subtitle"]; !ok {
		view["Subtitle"] = ""
	}
	return c.Render(name, view, layout)
}

// editState reads the item being edited from ?edit=.
func editState(c *fiber.Ctx) forms.EditState {
	var s forms.EditState
	if id := strings.TrimSpace(c.Query("edit")); id != "" {
		s = s.Begin(id)
	}
	return s
}

// listURL returns the screen URL for state.
func listURL(base string, s forms.EditState) string {
	if !s.IsEditing() {
		return base
	}
	return base + "?edit=" + url.QueryEscape(s.ID())
}

// back redirects to a list screen after a form post.
func back(c *fiber.Ctx, base string, s forms.EditState) error {
	return c.Redirect(listURL(base, s), fiber.StatusSeeOther)
}

func logFailed(name string, err error) {
	if err != nil {
		logger.Get().Warn().Err(err).Str("section", name).Msg("Backoffice section failed to load")
	}
}
