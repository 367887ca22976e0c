package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/gracechapel/chapelcms/app/models"
	"github.com/gracechapel/chapelcms/internal/pkg/apperrors"
	"github.com/gracechapel/chapelcms/internal/pkg/contentstore"
)

// sermonRepository implements the SermonRepository interface
type sermonRepository struct {
	db *gorm.DB
}

// NewSermonRepository creates a new sermon repository instance
func NewSermonRepository(db *gorm.DB) SermonRepository {
	return &sermonRepository{db: db}
}

// filter is the scope shared by List and Count.
func (o SermonListOptions) filter(db *gorm.DB) *gorm.DB {
	if status := strings.TrimSpace(o.Status); status != "" && status != "all" {
		db = db.Where("status = ?", status)
	}
	if speaker := strings.TrimSpace(o.Speaker); speaker != "" {
		db = db.Where("speaker = ?", speaker)
	}
	if series := strings.TrimSpace(o.Series); series != "" {
		db = db.Where("series = ?", series)
	}
	if search := strings.TrimSpace(o.Search); search != "" {
		like := "%" + search + "%"
		db = db.Where("(title LIKE ? OR description LIKE ? OR scripture LIKE ?)", like, like, like)
	}
	return db
}

func (r *sermonRepository) List(ctx context.Context, opts SermonListOptions) ([]models.Sermon, error) {
	_, limit, offset := normalizePage(opts.Page, opts.Limit)
	dir := "DESC"
	if strings.EqualFold(opts.SortOrder, "asc") {
		dir = "ASC"
	}

	sermons := []models.Sermon{}
	err := r.db.WithContext(ctx).
		Scopes(opts.filter).
		Order("sermon_date " + dir).
		Order("id " + dir).
		Offset(offset).Limit(limit).
		Find(&sermons).Error
	if err != nil {
		return nil, fmt.Errorf("list sermons: %w", err)
	}
	return sermons, nil
}

func (r *sermonRepository) Count(ctx context.Context, opts SermonListOptions) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Sermon{}).Scopes(opts.filter).Count(&total).Error
	if err != nil {
		return 0, fmt.Errorf("count sermons: %w", err)
	}
	return total, nil
}

func (r *sermonRepository) GetByID(ctx context.Context, id uint) (*models.Sermon, error) {
	var sermon models.Sermon
	err := r.db.WithContext(ctx).First(&sermon, id).Error
	return sermonOrNotFound(&sermon, err)
}

func (r *sermonRepository) GetBySlug(ctx context.Context, slug string) (*models.Sermon, error) {
	var sermon models.Sermon
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&sermon).Error
	return sermonOrNotFound(&sermon, err)
}

func sermonOrNotFound(sermon *models.Sermon, err error) (*models.Sermon, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Sermon not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get sermon: %w", err)
	}
	return sermon, nil
}

func (r *sermonRepository) Create(ctx context.Context, sermon *models.Sermon) error {
	if err := r.db.WithContext(ctx).Create(sermon).Error; err != nil {
		if contentstore.IsDuplicateKey(err) {
			return apperrors.Conflict("A sermon with this slug already exists", err)
		}
		return fmt.Errorf("create sermon: %w", err)
	}
	return nil
}

// Update replaces the editable fields; counters are left alone.
func (r *sermonRepository) Update(ctx context.Context, sermon *models.Sermon) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Sermon{}).
		Where("id = ?", sermon.ID).
		Updates(map[string]any{
			"title":          sermon.Title,
			"slug":           sermon.Slug,
			"speaker":        sermon.Speaker,
			"series":         sermon.Series,
			"scripture":      sermon.Scripture,
			"description":    sermon.Description,
			"audio_url":      sermon.AudioURL,
			"video_url":      sermon.VideoURL,
			"featured_image": sermon.FeaturedImage,
			"sermon_date":    sermon.SermonDate,
			"status":         sermon.Status,
		})
	if res.Error != nil {
		if contentstore.IsDuplicateKey(res.Error) {
			return 0, apperrors.Conflict("A sermon with this slug already exists", res.Error)
		}
		return 0, fmt.Errorf("update sermon %d: %w", sermon.ID, res.Error)
	}
	return res.RowsAffected, nil
}

func (r *sermonRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&models.Sermon{}, id)
	if res.Error != nil {
		return 0, fmt.Errorf("delete sermon %d: %w", id, res.Error)
	}
	return res.RowsAffected, nil
}

func (r *sermonRepository) IncrementListens(ctx context.Context, id uint) (int64, error) {
	return r.increment(ctx, id, "listens")
}

func (r *sermonRepository) IncrementDownloads(ctx context.Context, id uint) (int64, error) {
	return r.increment(ctx, id, "downloads")
}

// increment bumps a counter column on a published sermon and returns the new value.
func (r *sermonRepository) increment(ctx context.Context, id uint, column string) (int64, error) {
	db := r.db.WithContext(ctx)
	res := db.Model(&models.Sermon{}).
		Where("id = ? AND status = ?", id, models.STATUS_PUBLISHED).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if res.Error != nil {
		return 0, fmt.Errorf("increment %s for sermon %d: %w", column, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, apperrors.NotFound("Sermon not found")
	}

	var value int64
	if err := db.Model(&models.Sermon{}).Select(column).Where("id = ?", id).Scan(&value).Error; err != nil {
		return 0, fmt.Errorf("read %s for sermon %d: %w", column, id, err)
	}
	return value, nil
}
