package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/gracechapel/chapelcms/app/models"
	"github.com/gracechapel/chapelcms/internal/pkg/apperrors"
	"github.com/gracechapel/chapelcms/internal/pkg/contentstore"
)

const postSelect = `SELECT p.*, c.name AS category_name, c.slug AS category_slug, u.username AS author_name
FROM blog_posts p
LEFT JOIN categories c ON c.id = p.category_id
LEFT JOIN users u ON u.id = p.author_id`

const postCountSelect = `SELECT COUNT(*) AS total
FROM blog_posts p
LEFT JOIN categories c ON c.id = p.category_id`

// postRepository implements PostRepository with hand-written SQL.
type postRepository struct {
	store *contentstore.Store
	now   func() time.Time
}

// NewPostRepository creates a new post repository instance
func NewPostRepository(store *contentstore.Store) PostRepository {
	return &postRepository{store: store, now: time.Now}
}

type countResult struct {
	Total int64 `gorm:"column:total"`
}

type likesResult struct {
	Likes int64 `gorm:"column:likes"`
}

func (r *postRepository) List(ctx context.Context, opts PostListOptions) ([]models.BlogPost, error) {
	_, limit, offset := normalizePage(opts.Page, opts.Limit)
	f := buildPostFilter(opts)

	query := postSelect + f.where() + postOrder(opts.SortBy, opts.SortOrder) + " LIMIT ? OFFSET ?"
	args := append(f.args, limit, offset)

	posts := []models.BlogPost{}
	if err := r.store.All(ctx, &posts, query, args...); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func (r *postRepository) Count(ctx context.Context, opts PostListOptions) (int64, error) {
	f := buildPostFilter(opts)

	var res countResult
	if _, err := r.store.Get(ctx, &res, postCountSelect+f.where(), f.args...); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return res.Total, nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.BlogPost, error) {
	return r.getOne(ctx, "p.id = ?", id)
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	return r.getOne(ctx, "p.slug = ?", slug)
}

func (r *postRepository) getOne(ctx context.Context, clause string, arg any) (*models.BlogPost, error) {
	var post models.BlogPost
	found, err := r.store.Get(ctx, &post, postSelect+" WHERE "+clause+" LIMIT 1", arg)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if !found {
		return nil, apperrors.NotFound("Post not found")
	}
	return &post, nil
}

// Create inserts the post and returns its id. A taken slug is a conflict
// and leaves no row behind.
func (r *postRepository) Create(ctx context.Context, post *models.BlogPost) (uint, error) {
	now := r.now()
	res, err := r.store.Run(ctx, `INSERT INTO blog_posts
(title, slug, excerpt, content, featured_image, image_public_id, image_urls, author_id, category_id, status, published_at, views, likes, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0, ?, ?)`,
		post.Title, post.Slug, post.Excerpt, post.Content, post.FeaturedImage, post.ImagePublicID, post.ImageURLs,
		post.AuthorID, post.CategoryID, post.Status, post.PublishedAt, now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("create post: %w", err)
	}

	post.ID = uint(res.InsertedID)
	post.CreatedAt = now
	post.UpdatedAt = now
	return post.ID, nil
}

// Update replaces every editable field. Counters and author are untouched.
func (r *postRepository) Update(ctx context.Context, post *models.BlogPost) (int64, error) {
	now := r.now()
	res, err := r.store.Run(ctx, `UPDATE blog_posts SET
title = ?, slug = ?, excerpt = ?, content = ?, featured_image = ?, image_public_id = ?, image_urls = ?,
category_id = ?, status = ?, published_at = ?, updated_at = ?
WHERE id = ?`,
		post.Title, post.Slug, post.Excerpt, post.Content, post.FeaturedImage, post.ImagePublicID, post.ImageURLs,
		post.CategoryID, post.Status, post.PublishedAt, now, post.ID,
	)
	if err != nil {
		return 0, fmt.Errorf("update post %d: %w", post.ID, err)
	}
	post.UpdatedAt = now
	return res.AffectedRows, nil
}

// Delete hard-deletes the post together with its comments and shares.
func (r *postRepository) Delete(ctx context.Context, id uint) (int64, error) {
	var affected int64
	err := r.store.Tx(ctx, func(tx *contentstore.Store) error {
		if _, err := tx.Run(ctx, `DELETE FROM comments WHERE post_id = ?`, id); err != nil {
			return err
		}
		if _, err := tx.Run(ctx, `DELETE FROM social_shares WHERE post_id = ?`, id); err != nil {
			return err
		}
		res, err := tx.Run(ctx, `DELETE FROM blog_posts WHERE id = ?`, id)
		if err != nil {
			return err
		}
		affected = res.AffectedRows
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete post %d: %w", id, err)
	}
	return affected, nil
}

// IncrementViews is a single atomic statement, safe under concurrent readers.
func (r *postRepository) IncrementViews(ctx context.Context, id uint) error {
	res, err := r.store.Run(ctx, `UPDATE blog_posts SET views = views + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("increment views for post %d: %w", id, err)
	}
	if res.AffectedRows == 0 {
		return apperrors.NotFound("Post not found")
	}
	return nil
}

// IncrementLikes bumps the like counter of a published post and returns the
// new total.
func (r *postRepository) IncrementLikes(ctx context.Context, id uint) (int64, error) {
	res, err := r.store.Run(ctx, `UPDATE blog_posts SET likes = likes + 1 WHERE id = ? AND status = ?`, id, models.STATUS_PUBLISHED)
	if err != nil {
		return 0, fmt.Errorf("increment likes for post %d: %w", id, err)
	}
	if res.AffectedRows == 0 {
		return 0, apperrors.NotFound("Post not found")
	}

	var likes likesResult
	if _, err := r.store.Get(ctx, &likes, `SELECT likes FROM blog_posts WHERE id = ?`, id); err != nil {
		return 0, fmt.Errorf("read likes for post %d: %w", id, err)
	}
	return likes.Likes, nil
}

func (r *postRepository) Recent(ctx context.Context, limit int) ([]models.BlogPost, error) {
	_, limit, _ = normalizePage(1, limit)
	f := publishedOnly()

	posts := []models.BlogPost{}
	query := postSelect + f.where() + " ORDER BY p.published_at DESC, p.id DESC LIMIT ?"
	if err := r.store.All(ctx, &posts, query, append(f.args, limit)...); err != nil {
		return nil, fmt.Errorf("recent posts: %w", err)
	}
	return posts, nil
}

func (r *postRepository) ByCategory(ctx context.Context, categorySlug string, limit int) ([]models.BlogPost, error) {
	_, limit, _ = normalizePage(1, limit)
	f := publishedOnly()
	f.add("c.slug = ?", categorySlug)

	posts := []models.BlogPost{}
	query := postSelect + f.where() + " ORDER BY p.published_at DESC, p.id DESC LIMIT ?"
	if err := r.store.All(ctx, &posts, query, append(f.args, limit)...); err != nil {
		return nil, fmt.Errorf("posts in category %s: %w", categorySlug, err)
	}
	return posts, nil
}
