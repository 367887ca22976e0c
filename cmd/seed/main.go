package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2/log"

	"github.com/gracechapel/chapelcms/app/models"
	"github.com/gracechapel/chapelcms/app/repository"
	"github.com/gracechapel/chapelcms/internal/pkg/apperrors"
	"github.com/gracechapel/chapelcms/internal/pkg/database"
	"github.com/gracechapel/chapelcms/internal/pkg/env"
	"github.com/gracechapel/chapelcms/internal/pkg/slugify"
)

// Admin is the account created on first run.
type Admin struct {
	Username string
	Email    string
	Password string
}

var defaultCategories = []string{"Announcements", "Devotionals", "Events", "Missions", "Youth"}

// defaultSettings are JSON tokens, the same form the settings API accepts.
var defaultSettings = map[string]string{
	"site_title":       `"Grace Chapel"`,
	"site_tagline":     `"A church family in the heart of the city"`,
	"service_times":    `[{"day":"Sunday","time":"10:00"},{"day":"Wednesday","time":"19:00"}]`,
	"posts_per_page":   `10`,
	"comments_enabled": `false`,
}

func main() {
	env.SetupEnvFile()

	admin := Admin{
		Username: env.GetEnv("SEED_ADMIN_USERNAME", "admin"),
		Email:    env.GetEnv("SEED_ADMIN_EMAIL", "admin@example.org"),
		Password: env.GetEnv("SEED_ADMIN_PASSWORD", ""),
	}
	if admin.Password == "" {
		fmt.Println("SEED_ADMIN_PASSWORD must be set")
		os.Exit(1)
	}

	db, err := database.Open(database.LoadConfig())
	if err != nil {
		log.Fatalf("[Seed] %v", err)
	}
	if err := Seed(context.Background(), repository.NewRepositories(db), admin); err != nil {
		log.Fatalf("[Seed] %v", err)
	}
	log.Info("[Seed] done")
}

// Seed creates what is missing and leaves existing rows alone, so it can be
// run on every deploy.
func Seed(ctx context.Context, repos *repository.Repositories, admin Admin) error {
	if _, err := repos.User.GetByLogin(ctx, admin.Username); errors.Is(err, apperrors.ErrNotFound) {
		user, err := models.NewUser(admin.Username, admin.Email, admin.Password, models.ROLE_ADMIN)
		if err != nil {
			return fmt.Errorf("admin user: %w", err)
		}
		if err := repos.User.Create(ctx, user); err != nil {
			return err
		}
		log.Infof("[Seed] created admin %s", admin.Username)
	} else if err != nil {
		return err
	}

	for _, name := range defaultCategories {
		s := slugify.Generate(name)
		if _, err := repos.Category.GetBySlug(ctx, s); errors.Is(err, apperrors.ErrNotFound) {
			if err := repos.Category.Create(ctx, &models.Category{Name: name, Slug: s}); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}

	var missing []models.Setting
	for key, token := range defaultSettings {
		if _, err := repos.Setting.Get(ctx, key); errors.Is(err, apperrors.ErrNotFound) {
			v, err := models.NewSettingValue([]byte(token))
			if err != nil {
				return fmt.Errorf("default setting %s: %w", key, err)
			}
			missing = append(missing, models.Setting{Key: key, Value: v.Raw, Type: v.Kind})
		} else if err != nil {
			return err
		}
	}
	return repos.Setting.Upsert(ctx, missing)
}
