package upload

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/gracechapel/chapelcms/internal/pkg/apperrors"
	"github.com/gracechapel/chapelcms/internal/pkg/env"
	"github.com/gracechapel/chapelcms/internal/pkg/imageprocessor"
)

// StoredFile is the response of a local upload.
type StoredFile struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	WebPURL  string `json:"webp_url,omitempty"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// LocalStore keeps uploads on disk under baseDir/YYYY/MM and serves them
// from urlPrefix.
type LocalStore struct {
	baseDir   string
	urlPrefix string
	quality   int
	now       func() time.Time
}

func NewLocalStore(baseDir, urlPrefix string, quality int) *LocalStore {
	return &LocalStore{
		baseDir:   baseDir,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
		quality:   quality,
		now:       time.Now,
	}
}

// NewLocalStoreFromEnv reads UPLOADS_DIR and IMAGE_QUALITY.
func NewLocalStoreFromEnv() *LocalStore {
	return NewLocalStore(
		env.GetEnv("UPLOADS_DIR", "./uploads"),
		"/uploads",
		env.GetEnvInt("IMAGE_QUALITY", imageprocessor.DefaultQuality),
	)
}

func (s *LocalStore) BaseDir() string { return s.baseDir }

// Save validates and writes data, then writes a WebP companion next to it.
// A failed companion is logged and leaves WebPURL empty.
func (s *LocalStore) Save(ctx context.Context, data []byte, filename string) (*StoredFile, error) {
	if len(data) == 0 {
		return nil, apperrors.Validation("No file uploaded")
	}
	head := data
	if len(head) > SniffLength {
		head = head[:SniffLength]
	}
	if _, err := ValidateImageBySniff(filename, head); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".jpeg" {
		ext = ".jpg"
	}
	now := s.now()
	relDir := filepath.Join(now.Format("2006"), now.Format("01"))
	name := uuid.New().String()
	rel := filepath.Join(relDir, name+ext)
	fullPath := filepath.Join(s.baseDir, rel)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, apperrors.Internal("Failed to store file", fmt.Errorf("failed to create directory: %w", err))
	}
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		os.Remove(fullPath)
		return nil, apperrors.Internal("Failed to store file", fmt.Errorf("failed to write file %s: %w", fullPath, err))
	}

	out := &StoredFile{
		URL:      s.url(rel),
		Filename: name + ext,
	}
	if w, h, _, err := imageprocessor.Dimensions(data); err == nil {
		out.Width, out.Height = w, h
	}

	if ext != ".webp" && ext != ".gif" {
		webpRel := filepath.Join(relDir, name+".webp")
		if err := s.writeWebP(data, filepath.Join(s.baseDir, webpRel)); err != nil {
			log.Warnf("[Upload] WebP companion for %s failed: %v", out.Filename, err)
		} else {
			out.WebPURL = s.url(webpRel)
		}
	}

	log.Infof("[Upload] stored %s (%d bytes)", fullPath, len(data))
	return out, nil
}

func (s *LocalStore) writeWebP(data []byte, path string) error {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return err
	}
	return imageprocessor.SaveWebP(img, path, s.quality)
}

func (s *LocalStore) url(rel string) string {
	return s.urlPrefix + "/" + filepath.ToSlash(rel)
}
