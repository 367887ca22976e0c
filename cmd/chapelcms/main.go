package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/gracechapel/chapelcms/app/controllers"
	"github.com/gracechapel/chapelcms/app/repository"
	"github.com/gracechapel/chapelcms/internal/pkg/apperrors"
	"github.com/gracechapel/chapelcms/internal/pkg/auth"
	"github.com/gracechapel/chapelcms/internal/pkg/cache"
	"github.com/gracechapel/chapelcms/internal/pkg/cdn"
	"github.com/gracechapel/chapelcms/internal/pkg/database"
	"github.com/gracechapel/chapelcms/internal/pkg/env"
	"github.com/gracechapel/chapelcms/internal/pkg/imageprocessor"
	"github.com/gracechapel/chapelcms/internal/pkg/router"
	"github.com/gracechapel/chapelcms/internal/pkg/upload"
)

const shutdownTimeout = 10 * time.Second

func main() {
	app, cleanup, err := NewApplication()
	if err != nil {
		log.Fatalf("[Server] startup failed: %v", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000"))
	go func() {
		if err := app.Listen(addr); err != nil {
			log.Errorf("[Server] listen: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("[Server] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Errorf("[Server] shutdown: %v", err)
	}
}

// NewApplication wires configuration, storage and routes. The returned
// cleanup closes the database and cache connections.
func NewApplication() (*fiber.App, func(), error) {
	env.SetupEnvFile()

	tokenCfg, err := auth.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	db, err := database.Open(database.LoadConfig())
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("access sql.DB: %w", err)
	}

	redisCache := cache.New(cache.LoadConfig())
	cleanup := func() {
		if err := redisCache.Close(); err != nil {
			log.Warnf("[Cache] close: %v", err)
		}
		if err := sqlDB.Close(); err != nil {
			log.Warnf("[Database] close: %v", err)
		}
	}

	files := upload.NewLocalStoreFromEnv()
	deps := router.Dependencies{
		Repos:          repository.NewRepositories(db),
		Tokens:         auth.NewManager(tokenCfg),
		Files:          files,
		Database:       controllers.PingFunc(sqlDB.PingContext),
		LimiterStorage: redisCache.LimiterStorage(),
		RequestTimeout: env.GetEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		SettingsTTL:    env.GetEnvDuration("SETTINGS_TTL", controllers.DefaultSettingsTTL),
	}
	// a nil *Cache must not end up as a non-nil interface
	if redisCache != nil {
		deps.Cache = redisCache
	}

	cdnCfg, err := cdn.LoadConfig()
	if err != nil {
		log.Warnf("[CDN] image uploads disabled: %v", err)
	} else {
		provider, err := cdn.NewProvider(cdnCfg)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		optimizer := imageprocessor.NewOptimizer(imageprocessor.LoadConfig())
		deps.Images = cdn.NewService(provider, optimizer, cdnCfg.DefaultFolder)
		log.Infof("[CDN] using %s, folder %s", provider.Name(), cdnCfg.DefaultFolder)
	}

	app := fiber.New(fiber.Config{
		AppName:      "Chapel CMS",
		ErrorHandler: apperrors.Handler,
		BodyLimit:    env.GetEnvInt("BODY_LIMIT_MB", 10) * 1024 * 1024,
	})

	app.Use(recover.New(), requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(env.GetEnvList("CORS_ALLOWED_ORIGINS"), ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	// fiber metrics
	if user, pass := env.GetEnv("METRICS_USER", ""), env.GetEnv("METRICS_PASSWORD", ""); user != "" && pass != "" {
		app.Get("/metrics", basicauth.New(basicauth.Config{
			Users: map[string]string{user: pass},
		}), monitor.New(monitor.Config{Title: "Chapel CMS Metrics"}))
	}

	// static uploads
	app.Static("/uploads", files.BaseDir(), fiber.Static{
		CacheDuration: 10 * time.Second,
		MaxAge:        604800, // 7 days
	})

	// SWAGGER / OPENAPI
	if file := env.GetEnv("OPENAPI_FILE", "./docs/openapi.yml"); openAPIUsable(file) {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: file,
			Path:     "docs",
			Title:    "Chapel CMS API",
		}))
	}

	// ROUTER
	router.InstallRouter(app, deps)

	return app, cleanup, nil
}

// openAPIUsable loads and validates the document so a broken file is
// reported at startup instead of failing inside the swagger middleware.
func openAPIUsable(file string) bool {
	if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
		return false
	}
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(file)
	if err != nil {
		log.Warnf("[OpenAPI] cannot load %s: %v", file, err)
		return false
	}
	if err := doc.Validate(loader.Context); err != nil {
		log.Warnf("[OpenAPI] %s is invalid: %v", file, err)
		return false
	}
	return true
}
