package site

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/bilgisen/newsportal/internal/content"
	"github.com/bilgisen/newsportal/internal/contentapi"
	"github.com/bilgisen/newsportal/internal/i18n"
	"github.com/bilgisen/newsportal/internal/models"
	"github.com/bilgisen/newsportal/internal/portal"
	"github.com/bilgisen/newsportal/internal/query"
	"github.com/bilgisen/newsportal/internal/web"
)

// categorySection is a home page block for one menu category.
type categorySection struct {
	Category models.Category
	Articles query.Result[[]models.Article]
}

func (h *Handler) Home(c *fiber.Ctx) error {
	ctx, cancel := h.srv.Budget(c)
	defer cancel()
	svc := h.srv.Public()

	var (
		menu                                 query.Result[[]models.Category]
		featured, breaking, trending, latest query.Result[[]models.Article]
		sidebar, banner                      slot
	)
	web.Parallel(ctx,
		func(ctx context.Context) { menu = svc.MenuCategories(ctx) },
		func(ctx context.Context) { featured = svc.FeaturedArticles(ctx) },
		func(ctx context.Context) { breaking = svc.BreakingArticles(ctx) },
		func(ctx context.Context) { trending = svc.TrendingArticles(ctx) },
		func(ctx context.Context) { latest = svc.LatestArticles(ctx) },
		func(ctx context.Context) { sidebar = h.loadSlot(ctx, "home", "sidebar") },
		func(ctx context.Context) { banner = h.loadSlot(ctx, "home", "banner") },
	)
	logFailed("latest", latest.Err)

	var sections []*categorySection
	if menu.Ready() {
		for _, cat := range take(menu.Data, 0, 2) {
			sections = append(sections, &categorySection{Category: cat})
		}
	}
	loaders := make([]func(context.Context), 0, len(sections))
	for _, s := range sections {
		loaders = append(loaders, func(ctx context.Context) {
			s.Articles = svc.Articles(ctx, query.Params{"category": s.Category.Slug, "limit": 3})
		})
	}
	web.Parallel(ctx, loaders...)

	return h.render(c, "site/home", fiber.Map{
		"Menu":      menu,
		"Breaking":  breaking,
		"Featured":  featured,
		"Hero":      take(featured.Data, 0, 4),
		"Latest":    latest,
		"LatestTop": take(latest.Data, 0, 4),
		"Fresh":     take(latest.Data, 4, 8),
		"Trending":  trending,
		"TopStory":  take(trending.Data, 0, 4),
		"Sections":  sections,
		"Sidebar":   sidebar,
		"Banner":    banner,
	})
}

func (h *Handler) Article(c *fiber.Ctx) error {
	ctx, cancel := h.srv.Budget(c)
	defer cancel()
	svc := h.srv.Public()
	slug := c.Params("slug")

	var (
		menu             query.Result[[]models.Category]
		article          query.Result[models.Article]
		inContent, aside slot
	)
	web.Parallel(ctx,
		func(ctx context.Context) { menu = svc.MenuCategories(ctx) },
		func(ctx context.Context) { article = svc.Article(ctx, slug) },
		func(ctx context.Context) { inContent = h.loadSlot(ctx, "article", "in_content") },
		func(ctx context.Context) { aside = h.loadSlot(ctx, "article", "sidebar") },
	)
	if errors.Is(article.Err, contentapi.ErrNotFound) {
		return h.notFound(c, menu)
	}
	logFailed("article", article.Err)

	related := svc.RelatedArticles(ctx, article.Data.CategoryRef())
	if related.Ready() {
		related.Data = without(related.Data, article.Data.ID)
	}

	lang := string(web.Req(c).Lang)
	return h.render(c, "site/article", fiber.Map{
		"Menu":        menu,
		"Article":     article,
		"Related":     related,
		"InContent":   inContent,
		"Aside":       aside,
		"PageTitle":   i18n.Resolve(article.Data.Title, lang),
		"Description": content.Excerpt(article.Data, lang, 160),
	})
}

var categoryFilters = []string{"latest", "featured", "trending"}

func (h *Handler) Category(c *fiber.Ctx) error {
	ctx, cancel := h.srv.Budget(c)
	defer cancel()
	svc := h.srv.Public()
	slug := c.Params("slug")
	filter := oneOf(c.Query("filter"), categoryFilters)
	page := pageNumber(c)

	var (
		menu            query.Result[[]models.Category]
		category        query.Result[models.Category]
		articles        query.Result[models.Page[models.Article]]
		sidebar, banner slot
	)
	web.Parallel(ctx,
		func(ctx context.Context) { menu = svc.MenuCategories(ctx) },
		func(ctx context.Context) { category = svc.Category(ctx, slug) },
		func(ctx context.Context) {
			articles = svc.CategoryArticles(ctx, slug, query.Params{"sort": filter, "limit": pageSize, "page": page})
		},
		func(ctx context.Context) { sidebar = h.loadSlot(ctx, "category", "sidebar") },
		func(ctx context.Context) { banner = h.loadSlot(ctx, "category", "banner") },
	)
	if errors.Is(category.Err, contentapi.ErrNotFound) {
		return h.notFound(c, menu)
	}
	logFailed("category", category.Err)

	var lead *models.Article
	var rest []models.Article
	if articles.Ready() && len(articles.Data.Items) > 0 {
		lead = &articles.Data.Items[0]
		rest = articles.Data.Items[1:]
	}

	return h.render(c, "site/category", fiber.Map{
		"PageTitle": i18n.Resolve(category.Data.Name, string(web.Req(c).Lang)),
		"Menu":      menu,
		"Slug":      slug,
		"Category":  category,
		"Articles":  articles,
		"Lead":      lead,
		"Rest":      rest,
		"Filter":    filter,
		"Filters":   categoryFilters,
		"Pager":     newPager(c.Path(), url.Values{"filter": {filter}}, page, articles),
		"Sidebar":   sidebar,
		"Banner":    banner,
	})
}

var searchSorts = []string{"relevance", "date"}

func (h *Handler) Search(c *fiber.Ctx) error {
	ctx, cancel := h.srv.Budget(c)
	defer cancel()
	svc := h.srv.Public()

	term := strings.TrimSpace(c.Query("q", c.Query("query")))
	sort := oneOf(c.Query("sort"), searchSorts)
	category := c.Query("category")
	page := pageNumber(c)

	var (
		menu    query.Result[[]models.Category]
		results query.Result[models.Page[models.Article]]
		latest  query.Result[[]models.Article]
	)
	web.Parallel(ctx,
		func(ctx context.Context) { menu = svc.MenuCategories(ctx) },
		func(ctx context.Context) {
			results = svc.SearchArticles(ctx, term, query.Params{"sort": sort, "category": category, "page": page, "limit": pageSize})
		},
		func(ctx context.Context) { latest = svc.Articles(ctx, query.Params{"limit": 4}) },
	)
	logFailed("search", results.Err)

	return h.render(c, "site/search", fiber.Map{
		"Menu":     menu,
		"Term":     term,
		"Sort":     sort,
		"Sorts":    searchSorts,
		"Selected": category,
		"Results":  results,
		"Latest":   latest,
		"Pager":    newPager(c.Path(), url.Values{"q": {term}, "sort": {sort}, "category": {category}}, page, results),
	})
}

// AdClick records a click and forwards the reader to the ad's target.
func (h *Handler) AdClick(c *fiber.Ctx) error {
	ctx, cancel := h.srv.Budget(c)
	defer cancel()

	id := c.Params("id")
	target := "/"
	if res := h.srv.Public().ActiveAds(ctx, portal.AdQuery{}); res.Ready() {
		for _, ad := range res.Data {
			if ad.ID == id && ad.Link() != "" {
				target = ad.Link()
				break
			}
		}
	}
	h.bg.Go(ctx, trackTimeout, "ad click", func(ctx context.Context) error {
		return h.srv.Public().TrackClick(ctx, id)
	})
	return c.Redirect(target, fiber.StatusFound)
}

// Pager links the pages of a paginated list.
type Pager struct {
	Page  int
	Pages int
	Prev  string
	Next  string
}

func newPager(path string, params url.Values, page int, res query.Result[models.Page[models.Article]]) *Pager {
	if !res.Ready() {
		return nil
	}
	p := &Pager{Page: page, Pages: res.Data.Pagination.TotalPages()}
	link := func(n int) string {
		q := url.Values{}
		for k, v := range params {
			if len(v) > 0 && v[0] != "" {
				q[k] = v
			}
		}
		if n > 1 {
			q.Set("page", strconv.Itoa(n))
		}
		if len(q) == 0 {
			return path
		}
		return path + "?" + q.Encode()
	}
	if page > 1 {
		p.Prev = link(page - 1)
	}
	if res.Data.HasNext(page, pageSize) {
		p.Next = link(page + 1)
	}
	if p.Prev == "" && p.Next == "" {
		return nil
	}
	return p
}

func pageNumber(c *fiber.Ctx) int {
	page := c.QueryInt("page", 1)
	if page < 1 {
		return 1
	}
	return page
}

func oneOf(v string, allowed []string) string {
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	return allowed[0]
}

func take[T any](list []T, from, to int) []T {
	if from >= len(list) {
		return nil
	}
	return list[from:min(to, len(list))]
}

func without(list []models.Article, id string) []models.Article {
	out := make([]models.Article, 0, len(list))
	for _, a := range list {
		if a.ID != id {
			out = append(out, a)
		}
	}
	return out
}
