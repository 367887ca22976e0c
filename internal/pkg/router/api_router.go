package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/gracechapel/chapelcms/app/controllers"
	"github.com/gracechapel/chapelcms/internal/pkg/middleware"
)

// ApiRouter installs the public API plus login.
type ApiRouter struct {
	deps Dependencies
}

func NewApiRouter(deps Dependencies) *ApiRouter {
	return &ApiRouter{deps: deps}
}

func (r ApiRouter) InstallRouter(app *fiber.App) {
	d := r.deps
	t := d.withTimeout

	health := controllers.NewHealthController(d.Database, d.Cache)
	app.Get("/health", health.HandleHealth)

	api := app.Group("/api")
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Chapel CMS API",
		})
	})

	authController := controllers.NewAuthController(d.Repos.User, d.Tokens)
	api.Post("/auth/login", limiter.New(limiter.Config{
		Max:        d.LoginLimit,
		Expiration: d.LoginWindow,
		Storage:    d.LimiterStorage,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many login attempts, please try again later",
			})
		},
	}), t(authController.HandleLogin))
	api.Get("/auth/me", middleware.RequireToken(d.Tokens), t(authController.HandleMe))

	blogController := controllers.NewBlogController(d.Repos.Post)
	blog := api.Group("/blog")
	blog.Get("/", t(blogController.HandleList))
	blog.Get("/recent", t(blogController.HandleRecent))
	blog.Get("/category/:slug", t(blogController.HandleByCategory))
	blog.Get("/:idOrSlug", t(blogController.HandleGet))
	blog.Post("/:id/like", t(blogController.HandleLike))

	sermonController := controllers.NewSermonController(d.Repos.Sermon)
	sermons := api.Group("/sermons")
	sermons.Get("/", t(sermonController.HandleList))
	sermons.Get("/:idOrSlug", t(sermonController.HandleGet))
	sermons.Post("/:id/listen", t(sermonController.HandleListen))
	sermons.Post("/:id/download", t(sermonController.HandleDownload))

	categoryController := controllers.NewCategoryController(d.Repos.Category)
	api.Get("/categories", t(categoryController.HandleList))

	api.Get("/settings", t(d.settings.HandlePublic))
}
