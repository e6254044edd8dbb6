package contentapi

import (
	"context"
	"net/http"

	"github.com/bilgisen/newsportal/internal/models"
)

// Login authenticates and stores the issued tokens.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.AuthSession, error) {
	return c.startSession(ctx, "/auth/login", creds)
}

// Register creates a reader account and stores the issued tokens.
func (c *Client) Register(ctx context.Context, creds models.Credentials) (*models.AuthSession, error) {
	return c.startSession(ctx, "/auth/register", creds)
}

func (c *Client) startSession(ctx context.Context, path string, creds models.Credentials) (*models.AuthSession, error) {
	session, err := Decode[models.AuthSession](c.Post(ctx, path, creds))
	if err != nil {
		return nil, err
	}
	c.tokens.SetTokens(Tokens{Access: session.AccessToken, Refresh: session.RefreshToken})
	return &session, nil
}

// Logout tells the API to revoke the session. The local tokens are cleared
// whatever the API answers.
func (c *Client) Logout(ctx context.Context) error {
	t := c.tokens.Tokens()
	defer c.tokens.Clear()

	if t.Access == "" && t.Refresh == "" {
		return nil
	}
	_, err := c.send(ctx, http.MethodPost, "/auth/logout", nil, map[string]string{"refreshToken": t.Refresh}, nil, t.Access)
	if err != nil {
		c.log.Debug().Err(err).Msg("Logout call failed")
	}
	return err
}

// Me returns the signed-in user.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	user, err := Decode[models.User](c.Get(ctx, "/auth/me", nil))
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateProfile(ctx context.Context, update models.ProfileUpdate) (*models.User, error) {
	user, err := Decode[models.User](c.Put(ctx, "/auth/profile", update))
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ChangePassword(ctx context.Context, change models.PasswordChangePayload) error {
	_, err := c.Put(ctx, "/auth/change-password", change)
	return err
}
