// Package web is the HTTP plumbing shared by the public site and the
// backoffice: view engine, cookie session, preferences, flash messages and
// page loading.
package web

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"github.com/bilgisen/newsportal/internal/forms"
	"github.com/bilgisen/newsportal/internal/i18n"
	"github.com/bilgisen/newsportal/internal/logger"
	"github.com/bilgisen/newsportal/internal/models"
	"github.com/bilgisen/newsportal/internal/portal"
	"github.com/bilgisen/newsportal/internal/query"
)

// SiteInfo describes the deployment to templates.
type SiteInfo struct {
	Name string
	URL  string
}

// Options configures a Server.
type Options struct {
	Site            SiteInfo
	DefaultLanguage i18n.Language
	// RenderBudget bounds how long a page waits for its data before it
	// renders loading states.
	RenderBudget time.Duration
	CookieSecure bool
}

// Server carries what every page handler needs.
type Server struct {
	portal *portal.Service
	opts   Options
}

func NewServer(p *portal.Service, opts Options) *Server {
	if opts.RenderBudget <= 0 {
		opts.RenderBudget = 2 * time.Second
	}
	if _, ok := i18n.ParseLanguage(string(opts.DefaultLanguage)); !ok {
		opts.DefaultLanguage = i18n.English
	}
	return &Server{portal: p, opts: opts}
}

func (s *Server) Options() Options { return s.opts }

// Public returns the anonymous service used for shared site content.
func (s *Server) Public() *portal.Service {
	return s.portal
}

// Portal returns the service acting as the request's user.
func (s *Server) Portal(c *fiber.Ctx) *portal.Service {
	return s.portal.For(portalViewer(Req(c)))
}

// Budget returns the request context bounded by the render budget.
func (s *Server) Budget(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), s.opts.RenderBudget)
}

// Parallel runs loaders concurrently and waits for all of them. Loaders
// record their own results; a slow loader yields a loading state rather
// than an error.
func Parallel(ctx context.Context, loaders ...func(ctx context.Context)) {
	g, ctx := errgroup.WithContext(ctx)
	for _, load := range loaders {
		g.Go(func() error {
			load(ctx)
			return nil
		})
	}
	_ = g.Wait()
}

// View builds the template binding shared by every page and adds data.
func (s *Server) View(c *fiber.Ctx, data fiber.Map) fiber.Map {
	r := Req(c)
	view := fiber.Map{
		"Site":  s.opts.Site,
		"Lang":  r.Lang,
		"Theme": r.Theme,
		"User":  r.User,
		"Path":  c.Path(),
		"URL":   c.OriginalURL(),
		"Flash": r.TakeFlash(c),
		"Year":  time.Now().Year(),

		// Defaults for keys the layouts read.
		"Menu":        query.Result[[]models.Category]{},
		"Term":        "",
		"PageTitle":   "",
		"Description": "",
		"Errors":      forms.Errors(nil),
	}
	for k, v := range data {
		view[k] = v
	}
	return view
}

// Background runs calls detached from the request, for fire-and-forget
// work such as ad impressions. At most limit calls run at once; extra calls
// are dropped.
type Background struct {
	slots chan struct{}
	wg    sync.WaitGroup
}

func NewBackground(limit int) *Background {
	if limit <= 0 {
		limit = 8
	}
	return &Background{slots: make(chan struct{}, limit)}
}

func (b *Background) Go(ctx context.Context, timeout time.Duration, name string, fn func(ctx context.Context) error) {
	select {
	case b.slots <- struct{}{}:
	default:
		logger.Get().Debug().Str("task", name).Msg("Background task dropped")
		return
	}
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer func() { <-b.slots }()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			logger.Get().Debug().Err(err).Str("task", name).Msg("Background task failed")
		}
	}()
}

// Wait blocks until running calls finish.
func (b *Background) Wait() {
	b.wg.Wait()
}
