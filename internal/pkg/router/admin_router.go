package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gracechapel/chapelcms/app/controllers"
	"github.com/gracechapel/chapelcms/app/models"
	"github.com/gracechapel/chapelcms/internal/pkg/middleware"
)

// AdminRouter installs every route behind the bearer token.
type AdminRouter struct {
	deps Dependencies
}

func NewAdminRouter(deps Dependencies) *AdminRouter {
	return &AdminRouter{deps: deps}
}

func (r AdminRouter) InstallRouter(app *fiber.App) {
	d := r.deps
	t := d.withTimeout
	requireToken := middleware.RequireToken(d.Tokens)

	admin := app.Group("/api/admin", requireToken)

	postController := controllers.NewAdminPostController(d.Repos.Post, d.imageDeleter())
	posts := admin.Group("/posts")
	posts.Get("/", t(postController.HandleList))
	posts.Get("/:id", t(postController.HandleGet))
	posts.Post("/", t(postController.HandleCreate))
	posts.Put("/:id", t(postController.HandleUpdate))
	posts.Delete("/:id", t(postController.HandleDelete))

	categoryController := controllers.NewCategoryController(d.Repos.Category)
	categories := admin.Group("/categories")
	categories.Post("/", t(categoryController.HandleCreate))
	categories.Put("/:id", t(categoryController.HandleUpdate))
	categories.Delete("/:id", t(categoryController.HandleDelete))

	sermonController := controllers.NewSermonController(d.Repos.Sermon)
	sermons := admin.Group("/sermons")
	sermons.Get("/", t(sermonController.HandleAdminList))
	sermons.Get("/:id", t(sermonController.HandleAdminGet))
	sermons.Post("/", t(sermonController.HandleCreate))
	sermons.Put("/:id", t(sermonController.HandleUpdate))
	sermons.Delete("/:id", t(sermonController.HandleDelete))

	settingsController := d.settings
	admin.Get("/settings", t(settingsController.HandleAdminList))
	admin.Put("/settings", middleware.RequireRole(models.ROLE_ADMIN), t(settingsController.HandleUpdate))

	// uploads live outside /api/admin but need the same token
	uploadController := controllers.NewUploadController(d.Images, d.Files)
	uploads := app.Group("/api/upload", requireToken)
	uploads.Post("/", t(uploadController.HandleLocalUpload))
	uploads.Post("/image", t(uploadController.HandleImageUpload))
	uploads.Delete("/image/*", t(uploadController.HandleImageDelete))
}
