package database

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gracechapel/chapelcms/app/models"
	"github.com/gracechapel/chapelcms/internal/pkg/env"
)

const maxRetries = 5
const retryDelay = 5 * time.Second

// Config is the MySQL connection and pool configuration.
type Config struct {
	Driver          string // mysql or sqlite
	SQLitePath      string
	User            string
	Password        string
	Host            string
	Port            string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
}

func LoadConfig() Config {
	return Config{
		Driver:          env.GetEnv("DB_DRIVER", "mysql"),
		SQLitePath:      env.GetEnv("DB_SQLITE_PATH", "chapelcms.db"),
		User:            env.GetEnv("DB_USER", "chapel"),
		Password:        env.GetEnv("DB_PASSWORD", ""),
		Host:            env.GetEnv("DB_HOST", "127.0.0.1"),
		Port:            env.GetEnv("DB_PORT", "3306"),
		Name:            env.GetEnv("DB_NAME", "chapel_cms"),
		MaxOpenConns:    env.GetEnvInt("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    env.GetEnvInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: env.GetEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		AutoMigrate:     env.GetEnvBool("DB_AUTOMIGRATE", false),
	}
}

// DSN builds the go-sql-driver DSN. clientFoundRows makes UPDATE report
// matched rows, so an unchanged row still counts as found.
func (c Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local&clientFoundRows=true",
		c.User, c.Password, c.Host, c.Port, c.Name)
}

// Open connects with retries, bounds the pool and optionally runs AutoMigrate.
func Open(cfg Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}
	if env.IsDev() {
		gormCfg.Logger = logger.Default.LogMode(logger.Info)
	}

	if cfg.Driver == "sqlite" {
		return OpenSQLite(cfg.SQLitePath, cfg)
	}

	var (
		db  *gorm.DB
		err error
	)
	for i := 0; i < maxRetries; i++ {
		db, err = gorm.Open(mysql.New(mysql.Config{
			DSN:                       cfg.DSN(),
			DefaultStringSize:         256,
			DisableDatetimePrecision:  true,
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		}), gormCfg)
		if err == nil {
			break
		}

		log.Warnf("[Database] failed to connect (try %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connect to mysql at %s:%s: %w", cfg.Host, cfg.Port, err)
	}

	if err := ConfigurePool(db, cfg); err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}

	log.Infof("[Database] connected to %s@%s:%s/%s", cfg.User, cfg.Host, cfg.Port, cfg.Name)
	return db, nil
}

// OpenSQLite opens a file or in-memory SQLite database. It backs local
// development without MySQL and the package tests.
func OpenSQLite(path string, cfg Config) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := ConfigurePool(db, cfg); err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// ConfigurePool applies the connection pool bounds to the underlying sql.DB.
func ConfigurePool(db *gorm.DB, cfg Config) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("access sql.DB: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	return nil
}

// Migrate creates or updates all tables the CMS uses.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.BlogPost{},
		&models.Comment{},
		&models.SocialShare{},
		&models.Sermon{},
		&models.Setting{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
