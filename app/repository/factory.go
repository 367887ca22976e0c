package repository

import (
	"gorm.io/gorm"

	"github.com/gracechapel/chapelcms/internal/pkg/contentstore"
)

// Repositories bundles every repository over one database handle.
type Repositories struct {
	Post     PostRepository
	Category CategoryRepository
	Sermon   SermonRepository
	User     UserRepository
	Setting  SettingRepository
}

// NewRepositories wires all repositories to db.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Post:     NewPostRepository(contentstore.New(db)),
		Category: NewCategoryRepository(db),
		Sermon:   NewSermonRepository(db),
		User:     NewUserRepository(db),
		Setting:  NewSettingRepository(db),
	}
}
