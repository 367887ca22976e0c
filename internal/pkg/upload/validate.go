package upload

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gracechapel/chapelcms/internal/pkg/apperrors"
)

// SniffLength is how many leading bytes ValidateImageBySniff needs.
const SniffLength = 512

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".avif": true,
	".bmp":  true,
	// SVG stays out until there is a sanitizer (XSS)
}

var allowedMime = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/avif": true,
	"image/bmp":  true,
}

// ValidateImageBySniff checks the provided filename (extension) and the first bytes (head)
// against a whitelist of image types. Returns detected mime or a validation error.
func ValidateImageBySniff(filename string, head []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return "", apperrors.Validation("Only image files are allowed (JPG, JPEG, PNG, GIF, WEBP, AVIF, BMP)")
	}

	detected := http.DetectContentType(head)

	// Block obvious scriptable types regardless of extension
	if strings.HasPrefix(detected, "text/html") || strings.HasPrefix(detected, "application/xhtml") {
		return "", apperrors.Validation("Invalid file type: HTML content is not allowed")
	}
	if strings.HasPrefix(detected, "text/xml") || strings.HasPrefix(detected, "application/xml") || detected == "image/svg+xml" {
		return "", apperrors.Validation("SVG/XML files are not supported")
	}

	// AVIF is reported as octet-stream by net/http; trust the extension
	if detected == "application/octet-stream" {
		return detected, nil
	}

	if allowedMime[detected] {
		return detected, nil
	}
	return "", apperrors.Validation("Only image files are allowed")
}
