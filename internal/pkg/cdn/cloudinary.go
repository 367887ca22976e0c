package cdn

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gofiber/fiber/v2/log"
)

const cloudinaryDeliveryBase = "https://res.cloudinary.com"

// responsiveWidths bounds the breakpoints Cloudinary precomputes on upload.
const (
	breakpointMinWidth = 200
	breakpointMaxWidth = 2000
	breakpointMaxCount = 5
)

// CloudinaryProvider stores images in Cloudinary and builds delivery URLs
// with on-the-fly transformations.
type CloudinaryProvider struct {
	cld       *cloudinary.Cloudinary
	cloudName string
}

func NewCloudinaryProvider(cfg *Config) (*CloudinaryProvider, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true

	log.Infof("[CDN] Cloudinary provider ready for cloud %s", cfg.CloudName)
	return &CloudinaryProvider{cld: cld, cloudName: cfg.CloudName}, nil
}

func (p *CloudinaryProvider) Name() string { return ProviderCloudinary }

func (p *CloudinaryProvider) Upload(ctx context.Context, data []byte, req ProviderUpload) (*Asset, error) {
	createDerived := true
	res, err := p.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID:       req.PublicID,
		Folder:         req.Folder,
		Transformation: "q_auto,f_auto",
		ResponsiveBreakpoints: uploader.ResponsiveBreakpointsParams{{
			CreateDerived: &createDerived,
			MinWidth:      breakpointMinWidth,
			MaxWidth:      breakpointMaxWidth,
			MaxImages:     breakpointMaxCount,
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	if msg := res.Error.Message; msg != "" {
		return nil, fmt.Errorf("cloudinary upload: %s", msg)
	}

	return &Asset{
		PublicID: res.PublicID,
		URL:      res.SecureURL,
		Width:    res.Width,
		Height:   res.Height,
		Format:   res.Format,
		Bytes:    res.Bytes,
	}, nil
}

func (p *CloudinaryProvider) Destroy(ctx context.Context, publicID string) error {
	res, err := p.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("cloudinary destroy %s: %w", publicID, err)
	}
	return destroyResultError(publicID, res.Result, res.Error)
}

func destroyResultError(publicID, result string, apiErr api.ErrorResp) error {
	if apiErr.Message != "" {
		return fmt.Errorf("cloudinary destroy %s: %s", publicID, apiErr.Message)
	}
	// "not found" means it is already gone
	if result != "ok" && result != "not found" {
		return errors.New("cloudinary destroy " + publicID + ": " + result)
	}
	return nil
}

func (p *CloudinaryProvider) VariantURL(publicID string, t Transformation) string {
	return CloudinaryURL(p.cloudName, publicID, t)
}

// CloudinaryURL renders https://res.cloudinary.com/<cloud>/image/upload/<t>/<public_id>.
func CloudinaryURL(cloudName, publicID string, t Transformation) string {
	return fmt.Sprintf("%s/%s/image/upload/%s/%s", cloudinaryDeliveryBase, cloudName, cloudinaryTransformation(t), publicID)
}

func cloudinaryTransformation(t Transformation) string {
	parts := make([]string, 0, 5)
	if t.Crop != "" {
		parts = append(parts, "c_"+t.Crop)
	}
	if t.Width > 0 {
		parts = append(parts, fmt.Sprintf("w_%d", t.Width))
	}
	if t.Height > 0 {
		parts = append(parts, fmt.Sprintf("h_%d", t.Height))
	}
	format := t.Format
	if format == "" {
		format = "auto"
	}
	parts = append(parts, "q_auto", "f_"+format)
	return strings.Join(parts, ",")
}
