package portal

import (
	"context"
	"time"

	"github.com/bilgisen/newsportal/internal/models"
	"github.com/bilgisen/newsportal/internal/query"
)

func (s *Service) MenuCategories(ctx context.Context) query.Result[[]models.Category] {
	key := query.NewKey(Categories, "menu").With(query.Params{"isActive": true, "showInMenu": true})
	return fetch[[]models.Category](ctx, s, key, "/categories")
}

func (s *Service) CategoryTree(ctx context.Context) query.Result[[]*models.Category] {
	return fetch[[]*models.Category](ctx, s, query.NewKey(Categories, "tree"), "/categories/tree/all")
}

func (s *Service) FeaturedArticles(ctx context.Context) query.Result[[]models.Article] {
	key := query.NewKey(Articles, "featured").With(query.Params{"limit": 5})
	return fetch[[]models.Article](ctx, s, key, "/articles/featured/list")
}

func (s *Service) BreakingArticles(ctx context.Context) query.Result[[]models.Article] {
	return fetch[[]models.Article](ctx, s, query.NewKey(Articles, "breaking"), "/articles/breaking/list")
}

func (s *Service) TrendingArticles(ctx context.Context) query.Result[[]models.Article] {
	key := query.NewKey(Articles, "trending").With(query.Params{"isTrending": true, "status": models.StatusPublished, "limit": 12})
	return fetch[[]models.Article](ctx, s, key, "/articles")
}

func (s *Service) LatestArticles(ctx context.Context) query.Result[[]models.Article] {
	key := query.NewKey(Articles, "latest").With(query.Params{"sort": "-publishedAt", "status": models.StatusPublished, "limit": 12})
	return fetch[[]models.Article](ctx, s, key, "/articles")
}

// Articles lists articles with arbitrary filters.
func (s *Service) Articles(ctx context.Context, params query.Params, opts ...query.Option) query.Result[[]models.Article] {
	return fetch[[]models.Article](ctx, s, query.NewKey(Articles).With(params), "/articles", opts...)
}

// Article loads one article by slug or id.
func (s *Service) Article(ctx context.Context, identifier string) query.Result[models.Article] {
	return fetch[models.Article](ctx, s, query.NewKey(Article, identifier), "/articles/"+escape(identifier),
		query.Enabled(identifier != ""))
}

func (s *Service) RelatedArticles(ctx context.Context, categoryID string) query.Result[[]models.Article] {
	key := query.NewKey(Articles, "related", categoryID).With(query.Params{"category": categoryID, "limit": 6})
	return fetch[[]models.Article](ctx, s, key, "/articles", query.Enabled(categoryID != ""))
}

// Category loads one category by slug or id.
func (s *Service) Category(ctx context.Context, identifier string) query.Result[models.Category] {
	return fetch[models.Category](ctx, s, query.NewKey(Category, identifier), "/categories/"+escape(identifier),
		query.Enabled(identifier != ""))
}

func (s *Service) CategoryArticles(ctx context.Context, identifier string, params query.Params) query.Result[models.Page[models.Article]] {
	key := query.NewKey(CategoryArticles, identifier).With(params)
	return fetchPage[models.Article](ctx, s, key, "/categories/"+escape(identifier)+"/articles",
		query.Enabled(identifier != ""))
}

// SearchArticles is idle until a term is given, so callers can tell "no
// search yet" from "no results".
func (s *Service) SearchArticles(ctx context.Context, term string, filters query.Params) query.Result[models.Page[models.Article]] {
	key := query.NewKey(Articles, "search", term).With(query.Params{"q": term}.Merge(filters))
	return fetchPage[models.Article](ctx, s, key, "/articles/search/query", query.Enabled(term != ""))
}

// AdQuery filters the active ad inventory.
type AdQuery struct {
	Type     models.AdvertisementType
	Position string
	Page     string
}

func (s *Service) ActiveAds(ctx context.Context, q AdQuery) query.Result[[]models.Advertisement] {
	key := query.NewKey(Ads, "active").With(query.Params{"type": string(q.Type), "position": q.Position, "page": q.Page})
	return fetch[[]models.Advertisement](ctx, s, key, "/advertisements/active")
}

func (s *Service) DashboardOverview(ctx context.Context) query.Result[models.DashboardOverview] {
	return fetch[models.DashboardOverview](ctx, s, query.NewKey(Dashboard, "overview"), "/dashboard/overview")
}

// DateRange bounds statistics queries. Empty bounds are left to the API.
type DateRange struct {
	Start string
	End   string
}

func (s *Service) DashboardArticleStats(ctx context.Context, r DateRange) query.Result[[]models.ArticleStatPoint] {
	key := query.NewKey(Dashboard, "articles", "stats").With(query.Params{"startDate": r.Start, "endDate": r.End})
	return fetch[[]models.ArticleStatPoint](ctx, s, key, "/dashboard/articles/stats")
}

func (s *Service) DashboardCategoryDistribution(ctx context.Context) query.Result[[]models.CategoryDistributionPoint] {
	return fetch[[]models.CategoryDistributionPoint](ctx, s, query.NewKey(Dashboard, "categories", "distribution"),
		"/dashboard/categories/distribution")
}

func (s *Service) DashboardTrafficTrends(ctx context.Context, days int) query.Result[[]models.TrafficTrendPoint] {
	key := query.NewKey(Dashboard, "traffic").With(positive("days", days))
	return fetch[[]models.TrafficTrendPoint](ctx, s, key, "/dashboard/traffic/trends")
}

func (s *Service) DashboardAuthorActivity(ctx context.Context, limit, days int, categoryID string) query.Result[[]models.AuthorActivityPoint] {
	params := positive("limit", limit).Merge(positive("days", days)).Merge(query.Params{"categoryId": categoryID})
	key := query.NewKey(Dashboard, "users", "activity").With(params)
	return fetch[[]models.AuthorActivityPoint](ctx, s, key, "/dashboard/users/activity")
}

// TrafficQuery selects an analytics window such as "7d" bucketed by
// interval such as "day".
type TrafficQuery struct {
	Window     string
	Interval   string
	CategoryID string
}

// Analytics are aggregates that no portal write changes, so they are
// cached longer than content.
const analyticsStaleTime = 5 * time.Minute

func (s *Service) AnalyticsTraffic(ctx context.Context, q TrafficQuery) query.Result[[]models.AnalyticsTrafficPoint] {
	key := query.NewKey(Analytics, "traffic").With(query.Params{"window": q.Window, "interval": q.Interval, "categoryId": q.CategoryID})
	return fetch[[]models.AnalyticsTrafficPoint](ctx, s, key, "/analytics/traffic", query.StaleTime(analyticsStaleTime))
}

func (s *Service) AnalyticsAdsSummary(ctx context.Context) query.Result[models.AnalyticsAdsSummary] {
	return fetch[models.AnalyticsAdsSummary](ctx, s, query.NewKey(Analytics, "ads", "summary"), "/analytics/ads/summary",
		query.StaleTime(analyticsStaleTime))
}

// TopAdsQuery ranks ads by a metric.
type TopAdsQuery struct {
	Limit      int
	Sort       string
	Position   string
	CategoryID string
}

func (s *Service) AnalyticsAdsTop(ctx context.Context, q TopAdsQuery) query.Result[[]models.AdPerformancePoint] {
	params := positive("limit", q.Limit).Merge(query.Params{"sort": q.Sort, "position": q.Position, "categoryId": q.CategoryID})
	key := query.NewKey(Analytics, "ads", "top").With(params)
	return fetch[[]models.AdPerformancePoint](ctx, s, key, "/analytics/ads/top", query.StaleTime(analyticsStaleTime))
}

func (s *Service) AdminArticles(ctx context.Context, params query.Params) query.Result[models.Page[models.Article]] {
	return fetchPage[models.Article](ctx, s, query.NewKey(AdminArticles, s.viewer).With(params), "/articles")
}

func (s *Service) AdminCategories(ctx context.Context) query.Result[[]models.Category] {
	return fetch[[]models.Category](ctx, s, query.NewKey(AdminCategories, s.viewer), "/categories")
}

func (s *Service) AdminAds(ctx context.Context) query.Result[[]models.Advertisement] {
	return fetch[[]models.Advertisement](ctx, s, query.NewKey(AdminAds, s.viewer), "/advertisements")
}

func (s *Service) Users(ctx context.Context) query.Result[[]models.User] {
	return fetch[[]models.User](ctx, s, query.NewKey(AdminUsers, s.viewer), "/users")
}

func (s *Service) MediaLibrary(ctx context.Context, params query.Params) query.Result[[]models.Media] {
	return fetch[[]models.Media](ctx, s, query.NewKey(AdminMedia, s.viewer).With(params), "/media")
}

func positive(name string, v int) query.Params {
	if v <= 0 {
		return query.Params{}
	}
	return query.Params{name: v}
}
