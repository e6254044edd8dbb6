package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }

func TestAdminOnly(t *testing.T) {
	tests := []struct {
		name     string
		adminKey string
		header   string
		want     int
	}{
		{"missing key", "secret", "", fiber.StatusUnauthorized},
		{"wrong key", "secret", "guess", fiber.StatusUnauthorized},
		{"right key", "secret", "secret", fiber.StatusOK},
		{"bearer prefix", "secret", "Bearer secret", fiber.StatusOK},
		{"unconfigured", "", "anything", fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Post("/", AdminOnly(tt.adminKey), ok)

			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.header != "" {
				req.Header.Set("X-API-Key", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

type invalidateBody struct {
	Resources []string `json:"resources" form:"resources" validate:"required,min=1,dive,required"`
}

func TestValidateBody(t *testing.T) {
	app := fiber.New()
	app.Post("/", ValidateBody[invalidateBody](), func(c *fiber.Ctx) error {
		return c.JSON(Validated[invalidateBody](c).Resources)
	})

	send := func(body string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	resp := send(`{"resources":["articles"]}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = send(`{"resources":[]}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	var out struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Contains(t, out.Fields, "resources")

	resp = send(`{"resources":`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestErrorHandlerAnswersJSONForAPI(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(nil)})
	app.Get("/api/v1/boom", func(c *fiber.Ctx) error { return fiber.ErrServiceUnavailable })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"error":"Service Unavailable"}`, string(body))
}

func TestLoggerWritesRequestFields(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	app := fiber.New()
	app.Use(NewLogger(LoggerConfig{Logger: &log, Fields: []string{"method", "path", "status"}}))
	app.Get("/article/:slug", ok)

	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/article/padma", nil))
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/article/padma", entry["path"])
	assert.Equal(t, float64(200), entry["status"])
	assert.Equal(t, "info", entry["level"])
	assert.NotContains(t, entry, "ip")
}

func TestRequestLoggerSkipsStatic(t *testing.T) {
	app := fiber.New()
	app.Use(RequestLogger())
	app.Get("/static/app.css", ok)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/static/app.css", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
