package models

import "time"

// Sermon mirrors BlogPost for recorded preaching. FeaturedImage is a plain URL.
type Sermon struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Title         string     `gorm:"type:varchar(255);not null" json:"title"`
	Slug          string     `gorm:"uniqueIndex;type:varchar(255);not null" json:"slug"`
	Speaker       string     `gorm:"type:varchar(150);index" json:"speaker"`
	Series        string     `gorm:"type:varchar(150);index" json:"series"`
	Scripture     string     `gorm:"type:varchar(255)" json:"scripture"`
	Description   string     `gorm:"type:text" json:"description"`
	AudioURL      string     `gorm:"column:audio_url;type:varchar(500)" json:"audio_url"`
	VideoURL      string     `gorm:"column:video_url;type:varchar(500)" json:"video_url"`
	FeaturedImage string     `gorm:"type:varchar(500)" json:"featured_image"`
	SermonDate    *time.Time `gorm:"index" json:"sermon_date"`
	Status        string     `gorm:"type:varchar(20);default:'draft';index" json:"status"`
	Listens       int64      `gorm:"default:0" json:"listens"`
	Downloads     int64      `gorm:"default:0" json:"downloads"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s *Sermon) IsPublished() bool {
	return s.Status == STATUS_PUBLISHED
}
