package repository

import (
	"context"

	"github.com/gracechapel/chapelcms/app/models"
)

// PostListOptions filters and pages blog post listings. An empty Status
// (or "all") matches every status.
type PostListOptions struct {
	Page      int
	Limit     int
	Category  string
	Status    string
	Search    string
	SortBy    string
	SortOrder string
}

// SermonListOptions filters and pages sermon listings.
type SermonListOptions struct {
	Page      int
	Limit     int
	Status    string
	Speaker   string
	Series    string
	Search    string
	SortOrder string
}

// PostRepository defines blog post persistence. Missing rows come back as
// apperrors not-found errors; Update and Delete report affected rows instead.
type PostRepository interface {
	List(ctx context.Context, opts PostListOptions) ([]models.BlogPost, error)
	Count(ctx context.Context, opts PostListOptions) (int64, error)
	GetByID(ctx context.Context, id uint) (*models.BlogPost, error)
	GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
	Create(ctx context.Context, post *models.BlogPost) (uint, error)
	Update(ctx context.Context, post *models.BlogPost) (int64, error)
	Delete(ctx context.Context, id uint) (int64, error)
	IncrementViews(ctx context.Context, id uint) error
	IncrementLikes(ctx context.Context, id uint) (int64, error)
	Recent(ctx context.Context, limit int) ([]models.BlogPost, error)
	ByCategory(ctx context.Context, categorySlug string, limit int) ([]models.BlogPost, error)
}

// CategoryRepository defines category persistence.
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) (int64, error)
	Delete(ctx context.Context, id uint) (int64, error)
}

// SermonRepository defines sermon persistence.
type SermonRepository interface {
	List(ctx context.Context, opts SermonListOptions) ([]models.Sermon, error)
	Count(ctx context.Context, opts SermonListOptions) (int64, error)
	GetByID(ctx context.Context, id uint) (*models.Sermon, error)
	GetBySlug(ctx context.Context, slug string) (*models.Sermon, error)
	Create(ctx context.Context, sermon *models.Sermon) error
	Update(ctx context.Context, sermon *models.Sermon) (int64, error)
	Delete(ctx context.Context, id uint) (int64, error)
	IncrementListens(ctx context.Context, id uint) (int64, error)
	IncrementDownloads(ctx context.Context, id uint) (int64, error)
}

// UserRepository defines user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByLogin(ctx context.Context, identifier string) (*models.User, error)
	TouchLastLogin(ctx context.Context, id uint) error
}

// SettingRepository defines settings persistence.
type SettingRepository interface {
	All(ctx context.Context) ([]models.Setting, error)
	Get(ctx context.Context, key string) (*models.Setting, error)
	Upsert(ctx context.Context, settings []models.Setting) error
}
