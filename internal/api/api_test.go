package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilgisen/newsportal/internal/cache"
	"github.com/bilgisen/newsportal/internal/contentapi"
	"github.com/bilgisen/newsportal/internal/portal"
	"github.com/bilgisen/newsportal/internal/query"
)

const adminKey = "ops-secret"

func newApp(t *testing.T, store cache.Store) (*fiber.App, *query.Client) {
	t.Helper()
	queries := query.New(store, query.Config{})
	service := portal.New(contentapi.New(contentapi.Config{BaseURL: "http://127.0.0.1:0"}), queries, nil)

	app := fiber.New()
	SetupRoutes(app, service, adminKey)
	return app, queries
}

func invalidate(t *testing.T, app *fiber.App, key, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cache/invalidate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestHealthCheck(t *testing.T) {
	app, _ := newApp(t, cache.NewMemoryStore())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "ok", body["cache"])
	assert.Equal(t, Version, body["version"])
}

func TestHealthCheckReportsRedisOutage(t *testing.T) {
	mr := miniredis.RunT(t)
	store := cache.NewRedisStoreWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test:")
	app, _ := newApp(t, store)
	mr.Close()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/health", nil), 5000)
	require.NoError(t, err)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "degraded", body["status"])
}

func TestInvalidateRequiresKey(t *testing.T) {
	app, _ := newApp(t, cache.NewMemoryStore())

	assert.Equal(t, fiber.StatusUnauthorized, invalidate(t, app, "", `{"resources":["articles"]}`).StatusCode)
	assert.Equal(t, fiber.StatusUnauthorized, invalidate(t, app, "wrong", `{"resources":["articles"]}`).StatusCode)
}

func TestInvalidateRejectsUnknownResources(t *testing.T) {
	app, _ := newApp(t, cache.NewMemoryStore())

	resp := invalidate(t, app, adminKey, `{"resources":["articles","weather"]}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp = invalidate(t, app, adminKey, `{"resources":[]}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestInvalidateBumpsGeneration(t *testing.T) {
	store := cache.NewMemoryStore()
	app, _ := newApp(t, store)
	ctx := context.Background()

	before, err := store.Generation(ctx, string(portal.Articles))
	require.NoError(t, err)

	resp := invalidate(t, app, adminKey, `{"resources":["articles","ads"]}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	after, err := store.Generation(ctx, string(portal.Articles))
	require.NoError(t, err)
	assert.Greater(t, after, before)

	ok, err := store.Put(ctx, string(portal.Ads), "ads|active", 0, cache.Entry{FetchedAt: time.Now()}, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "a put racing the invalidation must be dropped")
}

func TestUnknownEndpoint(t *testing.T) {
	app, _ := newApp(t, cache.NewMemoryStore())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
