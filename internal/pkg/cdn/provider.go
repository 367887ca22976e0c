// Package cdn uploads images to the hosted image CDN and derives the
// resized variant URLs from the returned public id.
package cdn

import (
	"context"
)

// Crop modes understood by every provider.
const (
	CropFill  = "fill"  // exact size, cropped to fit
	CropLimit = "limit" // scaled down to fit, never up
)

// Transformation describes one delivery variant.
type Transformation struct {
	Crop   string
	Width  int
	Height int
	Format string // "auto" or an explicit format such as "webp"
}

// ProviderUpload is what a provider needs to store one image.
type ProviderUpload struct {
	PublicID    string
	Folder      string
	Filename    string
	ContentType string
}

// Asset is the provider's view of a stored image.
type Asset struct {
	PublicID string
	URL      string
	Width    int
	Height   int
	Format   string
	Bytes    int
}

// Provider is a CDN backend.
type Provider interface {
	Name() string
	Upload(ctx context.Context, data []byte, req ProviderUpload) (*Asset, error)
	Destroy(ctx context.Context, publicID string) error
	VariantURL(publicID string, t Transformation) string
}
