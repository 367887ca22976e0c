package cdn

import (
	"errors"
	"fmt"

	"github.com/gracechapel/chapelcms/internal/pkg/env"
)

const (
	ProviderCloudinary = "cloudinary"
	ProviderS3         = "s3"
)

// Config selects and configures the CDN provider.
type Config struct {
	Provider      string
	DefaultFolder string

	CloudName string
	APIKey    string
	APISecret string

	AccessKeyID     string
	SecretAccessKey string
	Region          string
	BucketName      string
	EndpointURL     string // optional, for S3-compatible services
	PublicBaseURL   string
}

// LoadConfig loads CDN configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Provider:        env.GetEnv("CDN_PROVIDER", ProviderCloudinary),
		DefaultFolder:   env.GetEnv("CDN_FOLDER", "church-website"),
		CloudName:       env.GetEnv("CLOUDINARY_CLOUD_NAME", ""),
		APIKey:          env.GetEnv("CLOUDINARY_API_KEY", ""),
		APISecret:       env.GetEnv("CLOUDINARY_API_SECRET", ""),
		AccessKeyID:     env.GetEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
		Region:          env.GetEnv("S3_REGION", "us-east-1"),
		BucketName:      env.GetEnv("S3_BUCKET_NAME", ""),
		EndpointURL:     env.GetEnv("S3_ENDPOINT_URL", ""),
		PublicBaseURL:   env.GetEnv("S3_PUBLIC_BASE_URL", ""),
	}
	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderCloudinary:
		if c.CloudName == "" || c.APIKey == "" || c.APISecret == "" {
			return errors.New("CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required")
		}
	case ProviderS3:
		if c.AccessKeyID == "" || c.SecretAccessKey == "" {
			return errors.New("S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY are required")
		}
		if c.BucketName == "" {
			return errors.New("S3_BUCKET_NAME is required")
		}
		if c.PublicBaseURL == "" {
			return errors.New("S3_PUBLIC_BASE_URL is required")
		}
	default:
		return fmt.Errorf("unknown CDN_PROVIDER %q", c.Provider)
	}
	return nil
}

// NewProvider builds the configured provider.
func NewProvider(cfg *Config) (Provider, error) {
	switch cfg.Provider {
	case ProviderS3:
		return NewS3Provider(cfg)
	default:
		return NewCloudinaryProvider(cfg)
	}
}
