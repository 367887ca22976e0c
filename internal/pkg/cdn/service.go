package cdn

import (
	"context"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2/log"

	"github.com/gracechapel/chapelcms/app/models"
	"github.com/gracechapel/chapelcms/internal/pkg/apperrors"
	"github.com/gracechapel/chapelcms/internal/pkg/imageprocessor"
	"github.com/gracechapel/chapelcms/internal/pkg/shortener"
	"github.com/gracechapel/chapelcms/internal/pkg/slugify"
)

const publicIDSuffixLength = 8

// UploadOptions controls a single upload.
type UploadOptions struct {
	Folder          string
	Type            string
	OptimizeLocally bool
}

// DefaultUploadOptions optimizes locally and stores into the default folder.
func DefaultUploadOptions() UploadOptions {
	return UploadOptions{Type: TypeGeneral, OptimizeLocally: true}
}

// UploadedImage is returned to the admin UI after an upload. Nothing is
// persisted; the caller copies what it needs onto the post.
type UploadedImage struct {
	PublicID string                   `json:"public_id"`
	URL      string                   `json:"url"`
	URLs     models.ImageURLs         `json:"urls"`
	Width    int                      `json:"width"`
	Height   int                      `json:"height"`
	Format   string                   `json:"format"`
	Bytes    int                      `json:"bytes"`
	Metadata *imageprocessor.Metadata `json:"metadata,omitempty"`
}

// Service optimizes images and pushes them to the CDN provider.
type Service struct {
	provider  Provider
	optimizer *imageprocessor.Optimizer
	folder    string
}

func NewService(provider Provider, optimizer *imageprocessor.Optimizer, defaultFolder string) *Service {
	return &Service{provider: provider, optimizer: optimizer, folder: defaultFolder}
}

func (s *Service) Provider() Provider { return s.provider }

// Upload optimizes data (unless disabled), uploads it and builds the
// variant URLs. A failed optimization falls back to the original bytes.
func (s *Service) Upload(ctx context.Context, data []byte, filename string, opts UploadOptions) (*UploadedImage, error) {
	if len(data) == 0 {
		return nil, apperrors.Validation("No image file provided")
	}
	folder := opts.Folder
	if folder == "" {
		folder = s.folder
	}

	payload := data
	var meta *imageprocessor.Metadata
	if opts.OptimizeLocally && s.optimizer != nil {
		res, err := s.optimizer.Optimize(ctx, data, filename)
		if err != nil {
			log.Warnf("[CDN] optimization of %s failed, uploading original: %v", filename, err)
		} else {
			payload = res.Data
			meta = res.Metadata
			log.Infof("[CDN] %s: %d bytes before, %d bytes after optimization", filename, res.OriginalBytes, res.OptimizedBytes)
		}
	}

	publicID, err := newPublicID(filename)
	if err != nil {
		return nil, apperrors.Upload("Failed to upload image", err)
	}

	asset, err := s.provider.Upload(ctx, payload, ProviderUpload{
		PublicID:    publicID,
		Folder:      folder,
		Filename:    filename,
		ContentType: http.DetectContentType(payload),
	})
	if err != nil {
		return nil, apperrors.Upload("Failed to upload image", err)
	}

	return &UploadedImage{
		PublicID: asset.PublicID,
		URL:      asset.URL,
		URLs:     BuildVariants(s.provider, asset.PublicID, opts.Type),
		Width:    asset.Width,
		Height:   asset.Height,
		Format:   asset.Format,
		Bytes:    asset.Bytes,
		Metadata: meta,
	}, nil
}

// Delete removes an asset from the CDN.
func (s *Service) Delete(ctx context.Context, publicID string) error {
	publicID = strings.Trim(strings.TrimSpace(publicID), "/")
	if publicID == "" {
		return apperrors.Validation("Public ID is required")
	}
	if err := s.provider.Destroy(ctx, publicID); err != nil {
		return apperrors.Upload("Failed to delete image", err)
	}
	return nil
}

// newPublicID names an upload after its file, plus a random base62 suffix so
// two "bulletin.jpg" uploads never overwrite each other on the CDN.
func newPublicID(filename string) (string, error) {
	base := strings.TrimSuffix(path.Base(filepath.ToSlash(filename)), filepath.Ext(filename))
	name := slugify.Generate(base)
	if name == "" {
		name = "image"
	}
	suffix, err := shortener.GenerateSecureSlug(publicIDSuffixLength)
	if err != nil {
		return "", err
	}
	return name + "-" + suffix, nil
}
