package controllers

import (
	"context"
	"io"
	"mime/multipart"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/gracechapel/chapelcms/internal/pkg/apperrors"
	"github.com/gracechapel/chapelcms/internal/pkg/cdn"
	"github.com/gracechapel/chapelcms/internal/pkg/upload"
)

// ImageUploader pushes images to the CDN.
type ImageUploader interface {
	Upload(ctx context.Context, data []byte, filename string, opts cdn.UploadOptions) (*cdn.UploadedImage, error)
	Delete(ctx context.Context, publicID string) error
}

// FileStore keeps uploads on local disk.
type FileStore interface {
	Save(ctx context.Context, data []byte, filename string) (*upload.StoredFile, error)
}

var folderPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+(/[A-Za-z0-9_-]+)*$`)

type UploadController struct {
	images ImageUploader
	files  FileStore
}

// NewUploadController creates the controller. images is nil when no CDN is
// configured; CDN routes then answer 503.
func NewUploadController(images ImageUploader, files FileStore) *UploadController {
	return &UploadController{images: images, files: files}
}

func readFormFile(c *fiber.Ctx, field string) ([]byte, string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, "", apperrors.Validation("No file uploaded")
	}
	data, err := readMultipart(fh)
	if err != nil {
		return nil, "", apperrors.Validation("Failed to read uploaded file")
	}
	return data, fh.Filename, nil
}

func readMultipart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// HandleLocalUpload stores a file under /uploads and returns its URLs.
func (uc *UploadController) HandleLocalUpload(c *fiber.Ctx) error {
	data, name, err := readFormFile(c, "file")
	if err != nil {
		return err
	}
	stored, err := uc.files.Save(c.UserContext(), data, name)
	if err != nil {
		return err
	}
	return c.JSON(stored)
}

// HandleImageUpload optimizes an image and uploads it to the CDN. Query
// parameters: type (general|blog|sermon), folder and optimize (default true).
func (uc *UploadController) HandleImageUpload(c *fiber.Ctx) error {
	if uc.images == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "Image CDN is not configured")
	}
	data, name, err := readFormFile(c, "image")
	if err != nil {
		return err
	}

	head := data
	if len(head) > upload.SniffLength {
		head = head[:upload.SniffLength]
	}
	if _, err := upload.ValidateImageBySniff(name, head); err != nil {
		return err
	}

	opts := cdn.DefaultUploadOptions()
	if t := c.Query("type"); t != "" {
		opts.Type = t
	}
	opts.Folder = strings.Trim(c.Query("folder"), "/ ")
	if opts.Folder != "" && !folderPattern.MatchString(opts.Folder) {
		return apperrors.Validation("Invalid folder")
	}
	opts.OptimizeLocally = c.QueryBool("optimize", true)

	img, err := uc.images.Upload(c.UserContext(), data, name, opts)
	if err != nil {
		return err
	}
	return c.JSON(img)
}

// HandleImageDelete removes an image by public id; the id may contain slashes.
func (uc *UploadController) HandleImageDelete(c *fiber.Ctx) error {
	if uc.images == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "Image CDN is not configured")
	}
	if err := uc.images.Delete(c.UserContext(), c.Params("*")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Image deleted successfully"})
}
