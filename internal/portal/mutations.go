package portal

import (
	"context"

	"github.com/bilgisen/newsportal/internal/contentapi"
	"github.com/bilgisen/newsportal/internal/models"
	"github.com/bilgisen/newsportal/internal/query"
)

var (
	articleWrites  = []query.Resource{Articles, Article, CategoryArticles, AdminArticles, Dashboard}
	categoryWrites = []query.Resource{Categories, Category, AdminCategories}
	adWrites       = []query.Resource{Ads, AdminAds}
	userWrites     = []query.Resource{AdminUsers, Session}
	mediaWrites    = []query.Resource{AdminMedia}
)

// save creates when id is empty and updates otherwise.
func save[T any](ctx context.Context, s *Service, m query.Mutation, collection, id string, payload any) (*T, error) {
	return query.Mutate(ctx, s.queries, m, func(ctx context.Context) (*T, error) {
		var (
			out T
			err error
		)
		if id != "" {
			out, err = contentapi.Decode[T](s.api.Put(ctx, collection+"/"+escape(id), payload))
		} else {
			out, err = contentapi.Decode[T](s.api.Post(ctx, collection, payload))
		}
		if err != nil {
			return nil, err
		}
		return &out, nil
	})
}

func remove(ctx context.Context, s *Service, m query.Mutation, collection, id string) error {
	_, err := query.Mutate(ctx, s.queries, m, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.api.Delete(ctx, collection+"/"+escape(id))
	})
	return err
}

func (s *Service) SaveArticle(ctx context.Context, p models.ArticlePayload) (*models.Article, error) {
	return save[models.Article](ctx, s, query.Mutation{Name: "save article", Invalidates: articleWrites}, "/articles", p.ID, p)
}

func (s *Service) DeleteArticle(ctx context.Context, id string) error {
	return remove(ctx, s, query.Mutation{Name: "delete article", Invalidates: articleWrites}, "/articles", id)
}

func (s *Service) SaveCategory(ctx context.Context, p models.CategoryPayload) (*models.Category, error) {
	return save[models.Category](ctx, s, query.Mutation{Name: "save category", Invalidates: categoryWrites}, "/categories", p.ID, p)
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	return remove(ctx, s, query.Mutation{Name: "delete category", Invalidates: categoryWrites}, "/categories", id)
}

func (s *Service) SaveAd(ctx context.Context, p models.AdvertisementPayload) (*models.Advertisement, error) {
	return save[models.Advertisement](ctx, s, query.Mutation{Name: "save advertisement", Invalidates: adWrites}, "/advertisements", p.ID, p)
}

func (s *Service) DeleteAd(ctx context.Context, id string) error {
	return remove(ctx, s, query.Mutation{Name: "delete advertisement", Invalidates: adWrites}, "/advertisements", id)
}

func (s *Service) SaveUser(ctx context.Context, p models.UserPayload) (*models.User, error) {
	return save[models.User](ctx, s, query.Mutation{Name: "save user", Invalidates: userWrites}, "/users", p.ID, p)
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	return remove(ctx, s, query.Mutation{Name: "delete user", Invalidates: userWrites}, "/users", id)
}

func (s *Service) UploadMedia(ctx context.Context, u models.MediaUpload) (*models.Media, error) {
	return query.Mutate(ctx, s.queries, query.Mutation{Name: "upload media", Invalidates: mediaWrites},
		func(ctx context.Context) (*models.Media, error) {
			return s.uploader.Upload(ctx, s.api, u)
		})
}

func (s *Service) UpdateMedia(ctx context.Context, p models.MediaUpdatePayload) (*models.Media, error) {
	return save[models.Media](ctx, s, query.Mutation{Name: "update media", Invalidates: mediaWrites}, "/media", p.ID, p)
}

func (s *Service) DeleteMedia(ctx context.Context, id string) error {
	return remove(ctx, s, query.Mutation{Name: "delete media", Invalidates: mediaWrites}, "/media", id)
}
