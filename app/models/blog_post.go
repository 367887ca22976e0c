package models

import (
	"time"
)

const (
	STATUS_DRAFT     = "draft"
	STATUS_PUBLISHED = "published"
	STATUS_SCHEDULED = "scheduled"
)

// ValidStatus reports whether s is one of the content statuses.
func ValidStatus(s string) bool {
	switch s {
	case STATUS_DRAFT, STATUS_PUBLISHED, STATUS_SCHEDULED:
		return true
	}
	return false
}

// BlogPost is a blog article. Category and author names are joined in by
// the read queries and never written.
type BlogPost struct {
	ID            uint       `gorm:"column:id;primaryKey" json:"id"`
	Title         string     `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Slug          string     `gorm:"column:slug;uniqueIndex;type:varchar(255);not null" json:"slug"`
	Excerpt       string     `gorm:"column:excerpt;type:text" json:"excerpt"`
	Content       string     `gorm:"column:content;type:longtext" json:"content"`
	FeaturedImage string     `gorm:"column:featured_image;type:varchar(500)" json:"featured_image"`
	ImagePublicID string     `gorm:"column:image_public_id;type:varchar(255)" json:"image_public_id"`
	ImageURLs     ImageURLs  `gorm:"column:image_urls" json:"image_urls"`
	AuthorID      *uint      `gorm:"column:author_id;index" json:"author_id"`
	CategoryID    *uint      `gorm:"column:category_id;index" json:"category_id"`
	Status        string     `gorm:"column:status;type:varchar(20);default:'draft';index" json:"status"`
	PublishedAt   *time.Time `gorm:"column:published_at;index" json:"published_at"`
	Views         int64      `gorm:"column:views;default:0" json:"views"`
	Likes         int64      `gorm:"column:likes;default:0" json:"likes"`
	CreatedAt     time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at" json:"updated_at"`

	CategoryName string `gorm:"column:category_name;->;-:migration" json:"category_name,omitempty"`
	CategorySlug string `gorm:"column:category_slug;->;-:migration" json:"category_slug,omitempty"`
	AuthorName   string `gorm:"column:author_name;->;-:migration" json:"author_name,omitempty"`
}

func (BlogPost) TableName() string {
	return "blog_posts"
}

// IsPublished reports whether the post may be shown publicly.
func (p *BlogPost) IsPublished() bool {
	return p.Status == STATUS_PUBLISHED
}
