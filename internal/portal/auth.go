package portal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bilgisen/newsportal/internal/models"
	"github.com/bilgisen/newsportal/internal/query"
	"github.com/bilgisen/newsportal/internal/utils"
)

const sessionStaleTime = 30 * time.Second

// CurrentUser returns the signed-in user, or nil for anonymous visitors.
// The lookup is cached briefly per token pair. ctx should carry no render
// budget because the lookup may rotate the viewer's tokens.
func (s *Service) CurrentUser(ctx context.Context) (*models.User, error) {
	t := s.api.Tokens().Tokens()
	if t.Access == "" && t.Refresh == "" {
		return nil, nil
	}

	key := query.NewKey(Session, utils.Hash(t.Access, t.Refresh))
	res := query.Fetch[models.User](ctx, s.queries, key, func(ctx context.Context) (json.RawMessage, error) {
		return s.api.Get(ctx, "/auth/me", nil)
	}, query.StaleTime(sessionStaleTime))

	if res.Failed() {
		return nil, res.Err
	}
	if !res.Ready() || res.Data.ID == "" {
		return nil, nil
	}
	return &res.Data, nil
}

func (s *Service) Login(ctx context.Context, creds models.Credentials) (*models.AuthSession, error) {
	return s.api.Login(ctx, creds)
}

func (s *Service) Register(ctx context.Context, creds models.Credentials) (*models.AuthSession, error) {
	return s.api.Register(ctx, creds)
}

// Logout ends the session. Cached data is shared between users and is not
// touched.
func (s *Service) Logout(ctx context.Context) error {
	return s.api.Logout(ctx)
}

func (s *Service) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.User, error) {
	return query.Mutate(ctx, s.queries, query.Mutation{Name: "update profile", Invalidates: []query.Resource{Session, AdminUsers}},
		func(ctx context.Context) (*models.User, error) {
			return s.api.UpdateProfile(ctx, update)
		})
}

func (s *Service) ChangePassword(ctx context.Context, change models.PasswordChangePayload) error {
	return s.api.ChangePassword(ctx, change)
}

// TrackImpression and TrackClick feed ad statistics. Failures are logged
// by the caller and never shown to readers.
func (s *Service) TrackImpression(ctx context.Context, adID string) error {
	return s.api.TrackImpression(ctx, adID)
}

func (s *Service) TrackClick(ctx context.Context, adID string) error {
	return s.api.TrackClick(ctx, adID)
}
