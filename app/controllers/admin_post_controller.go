package controllers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/gracechapel/chapelcms/app/models"
	"github.com/gracechapel/chapelcms/app/repository"
	"github.com/gracechapel/chapelcms/internal/pkg/apperrors"
	"github.com/gracechapel/chapelcms/internal/pkg/cdn"
	"github.com/gracechapel/chapelcms/internal/pkg/slugify"
	"github.com/gracechapel/chapelcms/internal/pkg/usercontext"
)

// ImageDeleter removes an uploaded image from the CDN.
type ImageDeleter interface {
	Delete(ctx context.Context, publicID string) error
}

// AdminPostController manages blog posts for authenticated editors.
type AdminPostController struct {
	posts  repository.PostRepository
	images ImageDeleter
	now    func() time.Time
}

// NewAdminPostController creates the controller. images may be nil when no
// CDN is configured.
func NewAdminPostController(posts repository.PostRepository, images ImageDeleter) *AdminPostController {
	return &AdminPostController{posts: posts, images: images, now: time.Now}
}

type postRequest struct {
	Title         string             `json:"title" validate:"required,max=255"`
	Content       string             `json:"content" validate:"required"`
	Excerpt       string             `json:"excerpt"`
	CategoryID    *uint              `json:"category_id"`
	Status        string             `json:"status" validate:"omitempty,oneof=draft published scheduled"`
	FeaturedImage string             `json:"featured_image" validate:"max=500"`
	ImagePublicID string             `json:"image_public_id" validate:"max=255"`
	ImageURLs     *models.ImageURLs  `json:"image_urls"`
	Image         *cdn.UploadedImage `json:"image"`
	PublishedAt   *time.Time         `json:"published_at"`
}

func (ac *AdminPostController) bind(c *fiber.Ctx) (*postRequest, error) {
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, apperrors.Validation("Invalid request body")
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if req.Title == "" || req.Content == "" {
		return nil, apperrors.Validation("Title and content are required")
	}
	if err := validate.Struct(&req); err != nil {
		return nil, apperrors.Validation(validationMessage(err))
	}
	if req.Status == "" {
		req.Status = models.STATUS_DRAFT
	}
	if req.CategoryID != nil && *req.CategoryID == 0 {
		req.CategoryID = nil
	}
	return &req, nil
}

// apply copies the request onto post. An uploaded image payload wins over
// the individual image fields.
func (req *postRequest) apply(post *models.BlogPost) error {
	slug := slugify.Generate(req.Title)
	if slug == "" {
		return apperrors.Validation("Title must contain letters or digits")
	}

	post.Title = req.Title
	post.Slug = slug
	post.Content = req.Content
	post.Excerpt = strings.TrimSpace(req.Excerpt)
	if post.Excerpt == "" {
		post.Excerpt = deriveExcerpt(req.Content)
	}
	post.CategoryID = req.CategoryID
	post.Status = req.Status

	switch {
	case req.Image != nil:
		post.FeaturedImage = req.Image.URL
		post.ImagePublicID = req.Image.PublicID
		post.ImageURLs = req.Image.URLs
	default:
		post.FeaturedImage = req.FeaturedImage
		post.ImagePublicID = req.ImagePublicID
		post.ImageURLs = models.ImageURLs{}
		if req.ImageURLs != nil {
			post.ImageURLs = *req.ImageURLs
		}
	}
	return nil
}

// HandleList lists posts of every status unless a status filter is given.
func (ac *AdminPostController) HandleList(c *fiber.Ctx) error {
	opts := repository.PostListOptions{
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", repository.DefaultPageSize),
		Status:    c.Query("status", "all"),
		Category:  c.Query("category"),
		Search:    c.Query("search"),
		SortBy:    c.Query("sortBy", "created_at"),
		SortOrder: c.Query("sortOrder", "desc"),
	}
	return listPosts(c, ac.posts, opts)
}

func (ac *AdminPostController) HandleGet(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	post, err := ac.posts.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(post)
}

func (ac *AdminPostController) HandleCreate(c *fiber.Ctx) error {
	req, err := ac.bind(c)
	if err != nil {
		return err
	}

	post := &models.BlogPost{}
	if err := req.apply(post); err != nil {
		return err
	}
	if uid := usercontext.GetUserID(c); uid != 0 {
		post.AuthorID = &uid
	}
	post.PublishedAt = req.PublishedAt
	if post.IsPublished() && post.PublishedAt == nil {
		now := ac.now()
		post.PublishedAt = &now
	}

	id, err := ac.posts.Create(c.UserContext(), post)
	if err != nil {
		return err
	}
	log.Infof("[AdminPost] post %d %q created by %s", id, post.Slug, usercontext.GetUsername(c))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Post created successfully",
		"postId":  id,
	})
}

// HandleUpdate replaces a post. The slug follows the title on every update.
func (ac *AdminPostController) HandleUpdate(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	req, err := ac.bind(c)
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	var previous *models.BlogPost
	if existing, err := ac.posts.GetByID(ctx, id); err == nil {
		previous = existing
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	post := &models.BlogPost{ID: id}
	if err := req.apply(post); err != nil {
		return err
	}
	post.PublishedAt = req.PublishedAt
	if post.IsPublished() && post.PublishedAt == nil {
		if previous != nil && previous.PublishedAt != nil {
			post.PublishedAt = previous.PublishedAt
		} else {
			now := ac.now()
			post.PublishedAt = &now
		}
	}

	affected, err := ac.posts.Update(ctx, post)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NotFound("Post not found")
	}

	if previous != nil && previous.ImagePublicID != "" && previous.ImagePublicID != post.ImagePublicID {
		ac.deleteImage(ctx, previous.ImagePublicID)
	}
	return c.JSON(fiber.Map{"message": "Post updated successfully"})
}

func (ac *AdminPostController) HandleDelete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	var publicID string
	if existing, err := ac.posts.GetByID(ctx, id); err == nil {
		publicID = existing.ImagePublicID
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	affected, err := ac.posts.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.NotFound("Post not found")
	}

	if publicID != "" {
		ac.deleteImage(ctx, publicID)
	}
	return c.JSON(fiber.Map{"message": "Post deleted successfully"})
}

// deleteImage is best effort; the post change has already been committed.
func (ac *AdminPostController) deleteImage(ctx context.Context, publicID string) {
	if ac.images == nil {
		return
	}
	if err := ac.images.Delete(ctx, publicID); err != nil {
		log.Warnf("[AdminPost] failed to delete CDN image %s: %v", publicID, err)
	}
}
