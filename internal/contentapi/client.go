package contentapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/bilgisen/newsportal/internal/logger"
	"github.com/bilgisen/newsportal/internal/models"
)

// refreshWindow is how close to expiry an access token is refreshed before
// it is sent.
const refreshWindow = 30 * time.Second

// Config configures the content API client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	RetryCount int
	RetryWait  time.Duration
}

// Client talks to the content API. A Client is safe for concurrent use;
// As and WithLanguage return request-scoped copies sharing the transport.
type Client struct {
	http    *resty.Client
	tokens  TokenStore
	lang    string
	refresh *singleflight.Group
	log     *zerolog.Logger
	now     func() time.Time
}

type envelope struct {
	Success    *bool              `json:"success"`
	Message    string             `json:"message"`
	Error      string             `json:"error"`
	Data       json.RawMessage    `json:"data"`
	Pagination *models.Pagination `json:"pagination"`
}

// New creates a client for cfg.BaseURL.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.RetryCount < 0 {
		cfg.RetryCount = 0
	}
	if cfg.RetryWait <= 0 {
		cfg.RetryWait = 500 * time.Millisecond
	}

	log := logger.Get()
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(4 * cfg.RetryWait).
		AddRetryCondition(retryableRead).
		SetHeader("Accept", "application/json")

	httpClient.OnAfterResponse(func(_ *resty.Client, r *resty.Response) error {
		log.Debug().
			Str("method", r.Request.Method).
			Str("url", r.Request.URL).
			Int("status", r.StatusCode()).
			Dur("latency", r.Time()).
			Msg("content api")
		return nil
	})

	return &Client{
		http:    httpClient,
		tokens:  anonymous{},
		refresh: &singleflight.Group{},
		log:     log,
		now:     time.Now,
	}
}

// retryableRead retries GETs once more on network errors, 5xx and 429.
// Writes are never retried.
func retryableRead(r *resty.Response, err error) bool {
	if r == nil || r.Request == nil || r.Request.Method != http.MethodGet {
		return false
	}
	if err != nil {
		return true
	}
	return r.StatusCode() >= http.StatusInternalServerError || r.StatusCode() == http.StatusTooManyRequests
}

// As returns a copy of the client that authenticates with tokens.
func (c *Client) As(tokens TokenStore) *Client {
	clone := *c
	if tokens == nil {
		tokens = anonymous{}
	}
	clone.tokens = tokens
	return &clone
}

// WithLanguage returns a copy of the client that sends lang as
// Accept-Language.
func (c *Client) WithLanguage(lang string) *Client {
	clone := *c
	clone.lang = lang
	return &clone
}

// Tokens returns the store the client authenticates with.
func (c *Client) Tokens() TokenStore {
	return c.tokens
}

// Get performs a GET and returns the unwrapped data.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	env, err := c.do(ctx, http.MethodGet, path, query, nil, nil)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// GetList performs a GET and returns the data together with the envelope's
// pagination, encoded as a models.Page.
func (c *Client) GetList(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	env, err := c.do(ctx, http.MethodGet, path, query, nil, nil)
	if err != nil {
		return nil, err
	}
	items := env.Data
	if len(items) == 0 || string(items) == "null" {
		items = json.RawMessage("[]")
	}
	return json.Marshal(struct {
		Items      json.RawMessage    `json:"items"`
		Pagination *models.Pagination `json:"pagination,omitempty"`
	}{items, env.Pagination})
}

func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	env, err := c.do(ctx, http.MethodPost, path, nil, body, nil)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *Client) Put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	env, err := c.do(ctx, http.MethodPut, path, nil, body, nil)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil, nil)
	return err
}

// Decode unmarshals a data payload. It takes the results of Get, Post or
// Put directly.
func Decode[T any](raw json.RawMessage, err error) (T, error) {
	var out T
	if err != nil {
		return out, err
	}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, prepare func(*resty.Request)) (*envelope, error) {
	if !isAuthPath(path) {
		c.refreshIfExpiring(ctx)
	}

	resp, err := c.send(ctx, method, path, query, body, prepare, c.tokens.Tokens().Access)
	if err != nil {
		return nil, err
	}

	// A multipart body cannot be replayed, so uploads are not retried.
	if resp.StatusCode() == http.StatusUnauthorized && prepare == nil && !isAuthPath(path) && c.tokens.Tokens().Refresh != "" {
		if err := c.refreshTokens(ctx); err == nil {
			resp, err = c.send(ctx, method, path, query, body, nil, c.tokens.Tokens().Access)
			if err != nil {
				return nil, err
			}
		}
	}

	return decode(method, path, resp)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any, prepare func(*resty.Request), token string) (*resty.Response, error) {
	req := c.http.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	if c.lang != "" {
		req.SetHeader("Accept-Language", c.lang)
	}
	if token != "" {
		req.SetAuthToken(token)
	}
	if body != nil {
		req.SetBody(body)
	}
	if prepare != nil {
		prepare(req)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

func decode(method, path string, resp *resty.Response) (*envelope, error) {
	var env envelope
	var decodeErr error
	if body := resp.Body(); len(body) > 0 {
		decodeErr = json.Unmarshal(body, &env)
	}

	message := env.Message
	if message == "" {
		message = env.Error
	}

	if resp.IsError() {
		if message == "" {
			message = http.StatusText(resp.StatusCode())
		}
		return nil, &APIError{Method: method, Path: path, Status: resp.StatusCode(), Message: message}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%s %s: decode envelope: %w", method, path, decodeErr)
	}
	if env.Success != nil && !*env.Success {
		return nil, &APIError{Method: method, Path: path, Status: resp.StatusCode(), Message: message}
	}
	return &env, nil
}

func (c *Client) refreshIfExpiring(ctx context.Context) {
	t := c.tokens.Tokens()
	if t.Access == "" || t.Refresh == "" {
		return
	}
	exp, ok := ExpiresAt(t.Access)
	if !ok || c.now().Add(refreshWindow).Before(exp) {
		return
	}
	if err := c.refreshTokens(ctx); err != nil {
		c.log.Debug().Err(err).Msg("Token refresh before request failed")
	}
}

// refreshTokens exchanges the refresh token for a new pair. Concurrent
// refreshes of the same token share one call. A rejected refresh token
// clears the store.
func (c *Client) refreshTokens(ctx context.Context) error {
	current := c.tokens.Tokens()

	v, err, _ := c.refresh.Do(current.Refresh, func() (any, error) {
		resp, err := c.send(ctx, http.MethodPost, "/auth/refresh", nil,
			map[string]string{"refreshToken": current.Refresh}, nil, "")
		if err != nil {
			return nil, err
		}
		env, err := decode(http.MethodPost, "/auth/refresh", resp)
		if err != nil {
			return nil, err
		}
		next, err := Decode[Tokens](env.Data, nil)
		if err != nil {
			return nil, err
		}
		if next.Access == "" {
			return nil, errors.New("refresh response carried no access token")
		}
		if next.Refresh == "" {
			next.Refresh = current.Refresh
		}
		return next, nil
	})
	if err != nil {
		if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden) {
			c.tokens.Clear()
		}
		return err
	}

	c.tokens.SetTokens(v.(Tokens))
	return nil
}

func isAuthPath(path string) bool {
	switch path {
	case "/auth/login", "/auth/register", "/auth/refresh", "/auth/logout":
		return true
	}
	return false
}
