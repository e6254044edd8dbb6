package admin

import (
	"context"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bilgisen/newsportal/internal/models"
	"github.com/bilgisen/newsportal/internal/portal"
	"github.com/bilgisen/newsportal/internal/query"
	"github.com/bilgisen/newsportal/internal/rbac"
	"github.com/bilgisen/newsportal/internal/web"
)

const statsDays = 30

// Stat is one dashboard counter.
type Stat struct {
	Label string
	Value float64
}

// counters flattens a counter map into a stable order.
func counters(prefix string, m map[string]float64) []Stat {
	stats := make([]Stat, 0, len(m))
	for k, v := range m {
		stats = append(stats, Stat{Label: prefix + " " + k, Value: v})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Label < stats[j].Label })
	return stats
}

func (h *Handler) Dashboard(c *fiber.Ctx) error {
	ctx, cancel := h.srv.Budget(c)
	defer cancel()
	svc := h.srv.Portal(c)

	end := time.Now().UTC()
	window := portal.DateRange{
		Start: end.AddDate(0, 0, -statsDays).Format(time.DateOnly),
		End:   end.Format(time.DateOnly),
	}

	var (
		overview     query.Result[models.DashboardOverview]
		articleStats query.Result[[]models.ArticleStatPoint]
		distribution query.Result[[]models.CategoryDistributionPoint]
		traffic      query.Result[[]models.TrafficTrendPoint]
		authors      query.Result[[]models.AuthorActivityPoint]
		adsSummary   query.Result[models.AnalyticsAdsSummary]
		topAds       query.Result[[]models.AdPerformancePoint]
		pageViews    query.Result[[]models.AnalyticsTrafficPoint]
	)
	web.Parallel(ctx,
		func(ctx context.Context) { overview = svc.DashboardOverview(ctx) },
		func(ctx context.Context) { articleStats = svc.DashboardArticleStats(ctx, window) },
		func(ctx context.Context) { distribution = svc.DashboardCategoryDistribution(ctx) },
		func(ctx context.Context) { traffic = svc.DashboardTrafficTrends(ctx, 7) },
		func(ctx context.Context) { authors = svc.DashboardAuthorActivity(ctx, 5, statsDays, "") },
		func(ctx context.Context) { adsSummary = svc.AnalyticsAdsSummary(ctx) },
		func(ctx context.Context) { topAds = svc.AnalyticsAdsTop(ctx, portal.TopAdsQuery{Limit: 5, Sort: "ctr"}) },
		func(ctx context.Context) {
			pageViews = svc.AnalyticsTraffic(ctx, portal.TrafficQuery{Window: "7d", Interval: "day"})
		},
	)
	logFailed("overview", overview.Err)

	var stats []Stat
	if overview.Ready() {
		stats = append(stats, counters("Articles", overview.Data.Articles)...)
		stats = append(stats, counters("Users", overview.Data.Users)...)
		stats = append(stats, counters("Ads", overview.Data.Ads)...)
		stats = append(stats, counters("Media", overview.Data.Media)...)
	}

	return h.render(c, rbac.AreaDashboard, "admin/dashboard", "Dashboard", fiber.Map{
		"Subtitle":     window.Start + " to " + window.End,
		"Overview":     overview,
		"Stats":        stats,
		"ArticleStats": articleStats,
		"Distribution": distribution,
		"Traffic":      traffic,
		"Authors":      authors,
		"AdsSummary":   adsSummary,
		"TopAds":       topAds,
		"PageViews":    pageViews,
	})
}
