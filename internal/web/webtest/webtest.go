// Package webtest runs page handlers against a fake content API.
package webtest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/bilgisen/newsportal/internal/cache"
	"github.com/bilgisen/newsportal/internal/contentapi"
	"github.com/bilgisen/newsportal/internal/media"
	"github.com/bilgisen/newsportal/internal/portal"
	"github.com/bilgisen/newsportal/internal/query"
	"github.com/bilgisen/newsportal/internal/web"
)

// API is a fake content API. Unregistered routes answer 404.
type API struct {
	*httptest.Server

	mu     sync.Mutex
	routes map[string]response
	calls  []string
}

type response struct {
	status int
	body   any
	delay  time.Duration
}

func NewAPI(t *testing.T) *API {
	t.Helper()
	api := &API{routes: make(map[string]response)}
	api.Server = httptest.NewServer(http.HandlerFunc(api.serve))
	t.Cleanup(api.Close)
	return api
}

// Handle answers method and path with data wrapped in the API envelope.
func (a *API) Handle(method, path string, data any) {
	a.HandleStatus(method, path, http.StatusOK, map[string]any{"success": true, "data": data})
}

// HandleStatus answers method and path with a raw body.
func (a *API) HandleStatus(method, path string, status int, body any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.routes[method+" "+path] = response{status: status, body: body}
}

// Delay holds the answer to a route registered with Handle back for d.
func (a *API) Delay(method, path string, d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	resp := a.routes[method+" "+path]
	resp.delay = d
	a.routes[method+" "+path] = resp
}

// Called reports whether method and path were requested.
func (a *API) Called(method, path string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, c := range a.calls {
		if c == method+" "+path {
			return true
		}
	}
	return false
}

func (a *API) Calls() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.calls...)
}

func (a *API) serve(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	a.mu.Lock()
	a.calls = append(a.calls, key)
	resp, ok := a.routes[key]
	a.mu.Unlock()

	if resp.delay > 0 {
		time.Sleep(resp.delay)
	}

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Not found"})
		return
	}
	w.WriteHeader(resp.status)
	json.NewEncoder(w).Encode(resp.body)
}

// Env is a wired page server over a fake API.
type Env struct {
	API     *API
	Queries *query.Client
	Server  *web.Server
	Tasks   *web.Background
	App     *fiber.App
}

// Option adjusts the server options of an Env.
type Option func(*web.Options)

// RenderBudget sets how long pages wait for their data.
func RenderBudget(d time.Duration) Option {
	return func(o *web.Options) { o.RenderBudget = d }
}

// New builds the web stack against api with a fresh memory cache. Callers
// register their routes on env.App.
func New(t *testing.T, api *API, opts ...Option) *Env {
	t.Helper()
	queries := query.New(cache.NewMemoryStore(), query.Config{StaleTime: time.Minute})
	client := contentapi.New(contentapi.Config{BaseURL: api.URL, Timeout: 2 * time.Second})
	service := portal.New(client, queries, nil)
	resolver := media.NewResolver("https://files.example.com", api.URL)

	options := web.Options{
		Site:         web.SiteInfo{Name: "Newsportal", URL: "https://news.example.com"},
		RenderBudget: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(&options)
	}
	srv := web.NewServer(service, options)
	tasks := web.NewBackground(4)

	app := fiber.New(fiber.Config{
		Views:     web.NewEngine(resolver),
		Immutable: true,
	})
	app.Use(srv.Session())

	t.Cleanup(func() {
		tasks.Wait()
		queries.Wait()
	})
	return &Env{API: api, Queries: queries, Server: srv, Tasks: tasks, App: app}
}

// Request is a test request. Cookies are sent as given.
type Request struct {
	Method  string
	Path    string
	Form    url.Values
	Cookies map[string]string
	Header  map[string]string
}

// Do runs r through the app.
func (e *Env) Do(t *testing.T, r Request) *http.Response {
	t.Helper()
	if r.Method == "" {
		r.Method = http.MethodGet
	}
	var body io.Reader
	if r.Form != nil {
		body = strings.NewReader(r.Form.Encode())
	}
	req := httptest.NewRequest(r.Method, r.Path, body)
	if r.Form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for k, v := range r.Header {
		req.Header.Set(k, v)
	}
	for name, value := range r.Cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}
	resp, err := e.App.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// Body reads and closes the response body.
func Body(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

// SignedIn returns the session cookies of a signed-in user. The fake API
// must answer GET /auth/me.
func SignedIn() map[string]string {
	return map[string]string{web.AccessCookie: "access-token", web.RefreshCookie: "refresh-token"}
}
