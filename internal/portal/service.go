// Package portal exposes every read and write of the news portal. Reads go
// through the shared query cache; writes declare the resources they make
// stale.
package portal

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/bilgisen/newsportal/internal/contentapi"
	"github.com/bilgisen/newsportal/internal/media"
	"github.com/bilgisen/newsportal/internal/models"
	"github.com/bilgisen/newsportal/internal/query"
)

const (
	Articles         query.Resource = "articles"
	Article          query.Resource = "article"
	CategoryArticles query.Resource = "category-articles"
	AdminArticles    query.Resource = "admin-articles"
	Dashboard        query.Resource = "dashboard"
	Analytics        query.Resource = "analytics"
	Categories       query.Resource = "categories"
	Category         query.Resource = "category"
	AdminCategories  query.Resource = "admin-categories"
	Ads              query.Resource = "ads"
	AdminAds         query.Resource = "admin-ads"
	AdminUsers       query.Resource = "admin-users"
	AdminMedia       query.Resource = "admin-media"
	Session          query.Resource = "session"
)

// Resources lists every cached resource.
var Resources = []query.Resource{
	Articles, Article, CategoryArticles, AdminArticles, Dashboard, Analytics,
	Categories, Category, AdminCategories, Ads, AdminAds, AdminUsers, AdminMedia, Session,
}

// IsResource reports whether name is a known resource.
func IsResource(name string) bool {
	for _, r := range Resources {
		if string(r) == name {
			return true
		}
	}
	return false
}

// Viewer identifies who a request runs as.
type Viewer struct {
	Tokens   contentapi.TokenStore
	UserID   string
	Language string
}

// Service is the data access layer shared by the site and the backoffice.
type Service struct {
	api      *contentapi.Client
	queries  *query.Client
	uploader media.Uploader
	viewer   string
}

// New creates a service. A nil uploader sends uploads to the content API.
func New(api *contentapi.Client, queries *query.Client, uploader media.Uploader) *Service {
	if uploader == nil {
		uploader = media.APIUploader{}
	}
	return &Service{api: api, queries: queries, uploader: uploader}
}

// For returns a copy of the service acting as v. Backoffice lists are
// cached per user because the API may scope them to the caller.
func (s *Service) For(v Viewer) *Service {
	clone := *s
	clone.api = s.api.As(v.Tokens)
	if v.Language != "" {
		clone.api = clone.api.WithLanguage(v.Language)
	}
	clone.viewer = v.UserID
	return &clone
}

// API returns the request-scoped content API client.
func (s *Service) API() *contentapi.Client {
	return s.api
}

// Queries returns the query engine.
func (s *Service) Queries() *query.Client {
	return s.queries
}

// Invalidate marks resources stale, for changes made outside this process.
func (s *Service) Invalidate(ctx context.Context, resources ...query.Resource) error {
	return s.queries.Invalidate(ctx, resources...)
}

func fetch[T any](ctx context.Context, s *Service, key query.Key, path string, opts ...query.Option) query.Result[T] {
	return query.Fetch[T](ctx, s.queries, key, func(ctx context.Context) (json.RawMessage, error) {
		return s.api.Get(ctx, path, key.Params.Values())
	}, opts...)
}

func fetchPage[T any](ctx context.Context, s *Service, key query.Key, path string, opts ...query.Option) query.Result[models.Page[T]] {
	return query.Fetch[models.Page[T]](ctx, s.queries, key, func(ctx context.Context) (json.RawMessage, error) {
		return s.api.GetList(ctx, path, key.Params.Values())
	}, opts...)
}

func escape(segment string) string {
	return url.PathEscape(segment)
}
