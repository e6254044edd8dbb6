package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/bilgisen/newsportal/internal/admin"
	"github.com/bilgisen/newsportal/internal/api"
	"github.com/bilgisen/newsportal/internal/cache"
	"github.com/bilgisen/newsportal/internal/config"
	"github.com/bilgisen/newsportal/internal/contentapi"
	"github.com/bilgisen/newsportal/internal/i18n"
	"github.com/bilgisen/newsportal/internal/logger"
	"github.com/bilgisen/newsportal/internal/media"
	"github.com/bilgisen/newsportal/internal/middleware"
	"github.com/bilgisen/newsportal/internal/portal"
	"github.com/bilgisen/newsportal/internal/query"
	"github.com/bilgisen/newsportal/internal/site"
	"github.com/bilgisen/newsportal/internal/web"
)

func main() {
	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	output := cfg.LogFile
	if output == "" {
		output = "stdout"
	}
	logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: output,
		Pretty: cfg.LogPretty,
	})
	defer logger.Close()

	log := logger.Get()
	log.Info().Str("env", cfg.Env).Str("api", cfg.APIBaseURL).Msg("Starting news portal...")

	// Shared query cache. Redis lets several instances share results and
	// invalidations; otherwise the cache lives in process memory.
	var store cache.Store
	if cfg.RedisURL != "" {
		redisStore, err := cache.NewRedisStore(cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Redis cache")
		}
		store = redisStore
	} else {
		log.Warn().Msg("REDIS_URL not set, caching in process memory")
		store = cache.NewMemoryStore()
	}
	defer func() {
		log.Info().Msg("Closing cache store...")
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing cache store")
		}
	}()

	queries := query.New(store, query.Config{
		StaleTime:    cfg.CacheStaleTime,
		TTL:          cfg.CacheTTL,
		FetchTimeout: cfg.APITimeout,
	})

	client := contentapi.New(contentapi.Config{
		BaseURL:    cfg.APIBaseURL,
		Timeout:    cfg.APITimeout,
		RetryCount: cfg.APIRetryCount,
	})

	var uploader media.Uploader = media.APIUploader{}
	if cfg.BucketEnabled() {
		bucket, err := media.NewBucketUploader(context.Background(), media.BucketConfig{
			Endpoint:  cfg.R2Endpoint,
			AccessKey: cfg.R2AccessKey,
			SecretKey: cfg.R2SecretKey,
			Bucket:    cfg.R2Bucket,
			PublicURL: cfg.R2PublicURL,
			MaxSize:   cfg.MaxFileSize,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize media bucket")
		}
		uploader = bucket
		log.Info().Str("bucket", cfg.R2Bucket).Msg("Uploading media to bucket")
	}

	service := portal.New(client, queries, uploader)
	resolver := media.NewResolver(cfg.MediaBaseURL(), cfg.APIBaseURL)

	lang, _ := i18n.ParseLanguage(cfg.DefaultLanguage)
	srv := web.NewServer(service, web.Options{
		Site:            web.SiteInfo{Name: cfg.SiteName, URL: cfg.SiteURL},
		DefaultLanguage: lang,
		RenderBudget:    cfg.RenderBudget,
		CookieSecure:    cfg.CookieSecure,
	})
	tasks := web.NewBackground(16)

	// Create Fiber app with custom config
	app := fiber.New(fiber.Config{
		AppName:      cfg.SiteName,
		Views:        web.NewEngine(resolver),
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    int(cfg.MaxFileSize) + 1<<20,
		ErrorHandler: middleware.ErrorHandler(srv),
		// Params, queries and cookies outlive the handler in detached
		// fetches and background tracking.
		Immutable: true,
	})

	cookieKey := cfg.CookieSecret
	if cookieKey == "" {
		cookieKey = encryptcookie.GenerateKey()
		log.Warn().Msg("COOKIE_SECRET not set, sessions end on restart")
	}

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger())
	app.Use(encryptcookie.New(encryptcookie.Config{
		Key:    cookieKey,
		Except: web.PlainCookies,
	}))

	app.Use("/static", web.Static())

	api.SetupRoutes(app, service, cfg.AdminAPIKey)

	app.Use(srv.Session())
	site.New(srv, tasks).Register(app)
	admin.New(srv).Register(app)

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Let tracking calls and background refreshes finish before the
	// store closes.
	tasks.Wait()
	queries.Wait()

	log.Info().Msg("Server exited properly")
}
