package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gracechapel/chapelcms/app/models"
	"github.com/gracechapel/chapelcms/app/repository"
	"github.com/gracechapel/chapelcms/internal/pkg/apperrors"
)

const (
	defaultRecentLimit   = 5
	defaultCategoryLimit = 10
)

// BlogController serves published posts to the public site.
type BlogController struct {
	posts repository.PostRepository
}

func NewBlogController(posts repository.PostRepository) *BlogController {
	return &BlogController{posts: posts}
}

// HandleList lists published posts with pagination.
func (bc *BlogController) HandleList(c *fiber.Ctx) error {
	opts := repository.PostListOptions{
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", repository.DefaultPageSize),
		Category:  c.Query("category"),
		Search:    c.Query("search"),
		SortBy:    c.Query("sortBy", "published_at"),
		SortOrder: c.Query("sortOrder", "desc"),
		Status:    models.STATUS_PUBLISHED,
	}
	return listPosts(c, bc.posts, opts)
}

func listPosts(c *fiber.Ctx, posts repository.PostRepository, opts repository.PostListOptions) error {
	ctx := c.UserContext()
	list, err := posts.List(ctx, opts)
	if err != nil {
		return err
	}
	total, err := posts.Count(ctx, opts)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"posts":      list,
		"pagination": repository.NewPagination(opts.Page, opts.Limit, total),
	})
}

func (bc *BlogController) HandleRecent(c *fiber.Ctx) error {
	posts, err := bc.posts.Recent(c.UserContext(), c.QueryInt("limit", defaultRecentLimit))
	if err != nil {
		return err
	}
	return c.JSON(posts)
}

func (bc *BlogController) HandleByCategory(c *fiber.Ctx) error {
	posts, err := bc.posts.ByCategory(c.UserContext(), c.Params("slug"), c.QueryInt("limit", defaultCategoryLimit))
	if err != nil {
		return err
	}
	return c.JSON(posts)
}

// HandleGet resolves a post by numeric id or slug. Unpublished posts are
// reported as missing. Every successful fetch counts one view.
func (bc *BlogController) HandleGet(c *fiber.Ctx) error {
	ctx := c.UserContext()
	ident := c.Params("idOrSlug")

	var (
		post *models.BlogPost
		err  error
	)
	if id, ok := parseID(ident); ok {
		post, err = bc.posts.GetByID(ctx, id)
	} else {
		post, err = bc.posts.GetBySlug(ctx, ident)
	}
	if err != nil {
		return err
	}
	if !post.IsPublished() {
		return apperrors.NotFound("Post not found")
	}

	if err := bc.posts.IncrementViews(ctx, post.ID); err != nil {
		return err
	}
	post.Views++
	return c.JSON(post)
}

func (bc *BlogController) HandleLike(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	likes, err := bc.posts.IncrementLikes(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"likes": likes})
}
