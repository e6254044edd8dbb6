package models

import "github.com/bilgisen/newsportal/internal/i18n"

// DashboardOverview groups headline counters per resource.
type DashboardOverview struct {
	Articles map[string]float64 `json:"articles,omitempty"`
	Users    map[string]float64 `json:"users,omitempty"`
	Ads      map[string]float64 `json:"ads,omitempty"`
	Media    map[string]float64 `json:"media,omitempty"`
}

type ArticleStatPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count,omitempty"`
	Views int    `json:"views,omitempty"`
}

type CategoryDistributionPoint struct {
	CategoryID   string    `json:"categoryId"`
	CategoryName i18n.Text `json:"categoryName"`
	Count        int       `json:"count,omitempty"`
	TotalViews   int       `json:"totalViews,omitempty"`
}

type TrafficTrendPoint struct {
	Date     string `json:"date"`
	Articles int    `json:"articles,omitempty"`
	Views    int    `json:"views,omitempty"`
	Likes    int    `json:"likes,omitempty"`
	Shares   int    `json:"shares,omitempty"`
}

type AuthorActivityPoint struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ArticleCount int    `json:"articleCount,omitempty"`
	Views        int    `json:"views,omitempty"`
}

type AdPerformancePoint struct {
	ID          string  `json:"id"`
	Name        string  `json:"name,omitempty"`
	Impressions int     `json:"impressions,omitempty"`
	Clicks      int     `json:"clicks,omitempty"`
	CTR         float64 `json:"ctr,omitempty"`
}

type AnalyticsTrafficPoint struct {
	TS          string `json:"ts"`
	PageViews   int    `json:"pageViews,omitempty"`
	UniqueUsers int    `json:"uniqueUsers,omitempty"`
}

type AdsTotals struct {
	Impressions int     `json:"impressions,omitempty"`
	Clicks      int     `json:"clicks,omitempty"`
	CTR         float64 `json:"ctr,omitempty"`
}

type AdsPositionSummary struct {
	Position    string  `json:"position"`
	Impressions int     `json:"impressions,omitempty"`
	Clicks      int     `json:"clicks,omitempty"`
	CTR         float64 `json:"ctr,omitempty"`
}

type AnalyticsAdsSummary struct {
	Totals     *AdsTotals           `json:"totals,omitempty"`
	ByPosition []AdsPositionSummary `json:"byPosition,omitempty"`
}
