package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/timeout"

	"github.com/gracechapel/chapelcms/app/controllers"
	"github.com/gracechapel/chapelcms/app/repository"
	"github.com/gracechapel/chapelcms/internal/pkg/auth"
)

// Router registers a set of routes on the app.
type Router interface {
	InstallRouter(app *fiber.App)
}

// Dependencies are the services the routes are built from. Images and
// Cache may be nil.
type Dependencies struct {
	Repos  *repository.Repositories
	Tokens *auth.Manager
	Images controllers.ImageUploader
	Files  controllers.FileStore

	Database controllers.Pinger
	Cache    controllers.Pinger

	LimiterStorage fiber.Storage
	LoginLimit     int
	LoginWindow    time.Duration

	RequestTimeout time.Duration
	SettingsTTL    time.Duration

	// shared by the public and admin routes so writes invalidate reads
	settings *controllers.SettingsController
}

func (d Dependencies) withDefaults() Dependencies {
	if d.LoginLimit <= 0 {
		d.LoginLimit = 5
	}
	if d.LoginWindow <= 0 {
		d.LoginWindow = time.Minute
	}
	if d.settings == nil {
		d.settings = controllers.NewSettingsController(d.Repos.Setting, d.SettingsTTL)
	}
	return d
}

func (d Dependencies) imageDeleter() controllers.ImageDeleter {
	if d.Images == nil {
		return nil
	}
	return d.Images
}

// withTimeout gives the handler a context deadline; a handler that runs
// past it answers 408.
func (d Dependencies) withTimeout(h fiber.Handler) fiber.Handler {
	if d.RequestTimeout <= 0 {
		return h
	}
	return timeout.NewWithContext(h, d.RequestTimeout)
}

func InstallRouter(app *fiber.App, deps Dependencies) {
	deps = deps.withDefaults()
	setup(app, NewApiRouter(deps), NewAdminRouter(deps))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
