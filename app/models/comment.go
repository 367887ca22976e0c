package models

import "time"

// Comment belongs to a blog post and is removed together with it.
type Comment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PostID      uint      `gorm:"index;not null" json:"post_id"`
	AuthorName  string    `gorm:"type:varchar(150)" json:"author_name"`
	AuthorEmail string    `gorm:"type:varchar(200)" json:"-"`
	Content     string    `gorm:"type:text" json:"content"`
	Approved    bool      `gorm:"default:false" json:"approved"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// SocialShare records a share of a blog post on a social platform.
type SocialShare struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"index;not null" json:"post_id"`
	Platform  string    `gorm:"type:varchar(50)" json:"platform"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
