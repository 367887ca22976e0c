package cdn

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofiber/fiber/v2/log"

	"github.com/gracechapel/chapelcms/internal/pkg/imageprocessor"
)

// s3API is the part of the S3 client the provider uses.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Provider stores originals in an S3-compatible bucket served through an
// image-resizing CDN that takes size parameters in the query string.
type S3Provider struct {
	client     s3API
	bucketName string
	publicBase string
}

func NewS3Provider(cfg *Config) (*S3Provider, error) {
	awsConfig, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.EndpointURL != "" {
			o.BaseEndpoint = aws.String(cfg.EndpointURL)
			// S3-compatible services (B2, MinIO) need path-style URLs
			o.UsePathStyle = true
		}
	})

	log.Infof("[CDN] S3 provider ready for bucket %s", cfg.BucketName)
	return newS3Provider(client, cfg.BucketName, cfg.PublicBaseURL), nil
}

func newS3Provider(client s3API, bucket, publicBase string) *S3Provider {
	return &S3Provider{
		client:     client,
		bucketName: bucket,
		publicBase: strings.TrimRight(publicBase, "/"),
	}
}

func (p *S3Provider) Name() string { return ProviderS3 }

// Upload stores the object under folder/public_id plus the file extension;
// the key is the asset's public id.
func (p *S3Provider) Upload(ctx context.Context, data []byte, req ProviderUpload) (*Asset, error) {
	ext := extensionFor(req.ContentType, req.Filename)
	key := path.Join(req.Folder, req.PublicID) + ext

	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucketName),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(req.ContentType),
		ContentLength: aws.Int64(int64(len(data))),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
		Metadata: map[string]string{
			"original-filename": req.Filename,
			"upload-source":     "chapelcms",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	asset := &Asset{
		PublicID: key,
		URL:      p.objectURL(key),
		Format:   strings.TrimPrefix(ext, "."),
		Bytes:    len(data),
	}
	if w, h, _, err := imageprocessor.Dimensions(data); err == nil {
		asset.Width, asset.Height = w, h
	}

	log.Infof("[CDN] uploaded s3://%s/%s (%d bytes)", p.bucketName, key, len(data))
	return asset, nil
}

func (p *S3Provider) Destroy(ctx context.Context, publicID string) error {
	_, err := p.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(p.bucketName),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object from S3: %w", err)
	}
	log.Infof("[CDN] deleted s3://%s/%s", p.bucketName, publicID)
	return nil
}

func (p *S3Provider) objectURL(key string) string {
	return p.publicBase + "/" + key
}

// VariantURL renders query-string resizing: fill maps to fit=crop and
// limit to fit=max.
func (p *S3Provider) VariantURL(publicID string, t Transformation) string {
	q := url.Values{}
	if t.Width > 0 {
		q.Set("w", strconv.Itoa(t.Width))
	}
	if t.Height > 0 {
		q.Set("h", strconv.Itoa(t.Height))
	}
	switch t.Crop {
	case CropFill:
		q.Set("fit", "crop")
	case CropLimit:
		q.Set("fit", "max")
	}
	if t.Format == "" || t.Format == "auto" {
		q.Set("auto", "format,compress")
	} else {
		q.Set("fm", t.Format)
	}
	return p.objectURL(publicID) + "?" + q.Encode()
}

func extensionFor(contentType, filename string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/avif":
		return ".avif"
	case "image/bmp":
		return ".bmp"
	}
	if ext := strings.ToLower(path.Ext(filename)); ext != "" {
		return ext
	}
	return ".bin"
}
