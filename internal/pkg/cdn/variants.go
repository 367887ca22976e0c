package cdn

import (
	"github.com/gracechapel/chapelcms/app/models"
)

// Upload types that select a variant preset.
const (
	TypeGeneral = "general"
	TypeBlog    = "blog"
	TypeSermon  = "sermon"
)

// Variant is one named delivery size.
type Variant struct {
	Name   string
	Crop   string
	Width  int
	Height int
}

var baseVariants = []Variant{
	{Name: "thumbnail", Crop: CropFill, Width: 200, Height: 200},
	{Name: "small", Crop: CropFill, Width: 400, Height: 300},
	{Name: "medium", Crop: CropLimit, Width: 800, Height: 600},
	{Name: "large", Crop: CropLimit, Width: 1200, Height: 900},
}

var blogVariants = []Variant{
	{Name: "featured", Crop: CropFill, Width: 1200, Height: 630},
	{Name: "card", Crop: CropFill, Width: 600, Height: 400},
}

// VariantsFor returns the presets for an upload type. Blog images also get
// the featured and card sizes.
func VariantsFor(uploadType string) []Variant {
	out := make([]Variant, 0, len(baseVariants)+len(blogVariants))
	out = append(out, baseVariants...)
	if uploadType == TypeBlog {
		out = append(out, blogVariants...)
	}
	return out
}

// BuildVariants derives every variant URL, plus a WebP set of the same
// sizes, from the public id. No network calls are made.
func BuildVariants(p Provider, publicID, uploadType string) models.ImageURLs {
	var urls models.ImageURLs
	for _, v := range VariantsFor(uploadType) {
		t := Transformation{Crop: v.Crop, Width: v.Width, Height: v.Height}

		t.Format = "auto"
		urls.Set(v.Name, p.VariantURL(publicID, t))

		t.Format = "webp"
		if urls.WebP == nil {
			urls.WebP = map[string]string{}
		}
		urls.WebP[v.Name] = p.VariantURL(publicID, t)
	}
	return urls
}
