package cdn

import (
	"context"
	"io"
	"net/url"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloudinaryURL(t *testing.T) {
	tests := []struct {
		name string
		t    Transformation
		want string
	}{
		{"thumbnail", Transformation{Crop: CropFill, Width: 200, Height: 200, Format: "auto"},
			"https://res.cloudinary.com/demo/image/upload/c_fill,w_200,h_200,q_auto,f_auto/church/a"},
		{"bounded webp", Transformation{Crop: CropLimit, Width: 800, Height: 600, Format: "webp"},
			"https://res.cloudinary.com/demo/image/upload/c_limit,w_800,h_600,q_auto,f_webp/church/a"},
		{"no format", Transformation{Width: 50},
			"https://res.cloudinary.com/demo/image/upload/w_50,q_auto,f_auto/church/a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CloudinaryURL("demo", "church/a", tt.t))
		})
	}
}

func TestDestroyResultError(t *testing.T) {
	assert.NoError(t, destroyResultError("a", "ok", api.ErrorResp{}))
	assert.NoError(t, destroyResultError("a", "not found", api.ErrorResp{}))
	assert.Error(t, destroyResultError("a", "error", api.ErrorResp{}))
	assert.Error(t, destroyResultError("a", "", api.ErrorResp{Message: "Invalid Signature"}))
}

type fakeS3 struct {
	put     *s3.PutObjectInput
	body    []byte
	deleted []string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = in
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = b
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Provider_UploadAndDestroy(t *testing.T) {
	fake := &fakeS3{}
	p := newS3Provider(fake, "church-media", "https://img.example.org/")
	data := pngBytes(t, 30, 20)

	asset, err := p.Upload(context.Background(), data, ProviderUpload{
		PublicID: "easter-abc", Folder: "church-website", Filename: "easter.png", ContentType: "image/png",
	})
	require.NoError(t, err)
	assert.Equal(t, "church-website/easter-abc.png", asset.PublicID)
	assert.Equal(t, "https://img.example.org/church-website/easter-abc.png", asset.URL)
	assert.Equal(t, 30, asset.Width)
	assert.Equal(t, 20, asset.Height)
	assert.Equal(t, "church-media", aws.ToString(fake.put.Bucket))
	assert.Equal(t, data, fake.body)

	require.NoError(t, p.Destroy(context.Background(), asset.PublicID))
	assert.Equal(t, []string{"church-website/easter-abc.png"}, fake.deleted)
}

func TestS3Provider_VariantURL(t *testing.T) {
	p := newS3Provider(&fakeS3{}, "b", "https://img.example.org")

	u, err := url.Parse(p.VariantURL("church/a.jpg", Transformation{Crop: CropFill, Width: 200, Height: 200, Format: "auto"}))
	require.NoError(t, err)
	assert.Equal(t, "/church/a.jpg", u.Path)
	assert.Equal(t, "200", u.Query().Get("w"))
	assert.Equal(t, "200", u.Query().Get("h"))
	assert.Equal(t, "crop", u.Query().Get("fit"))

	u, err = url.Parse(p.VariantURL("church/a.jpg", Transformation{Crop: CropLimit, Width: 800, Format: "webp"}))
	require.NoError(t, err)
	assert.Equal(t, "max", u.Query().Get("fit"))
	assert.Equal(t, "webp", u.Query().Get("fm"))
	assert.Empty(t, u.Query().Get("h"))
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"cloudinary ok", Config{Provider: ProviderCloudinary, CloudName: "c", APIKey: "k", APISecret: "s"}, false},
		{"cloudinary missing secret", Config{Provider: ProviderCloudinary, CloudName: "c", APIKey: "k"}, true},
		{"s3 ok", Config{Provider: ProviderS3, AccessKeyID: "a", SecretAccessKey: "s", BucketName: "b", PublicBaseURL: "https://x"}, false},
		{"s3 missing bucket", Config{Provider: ProviderS3, AccessKeyID: "a", SecretAccessKey: "s", PublicBaseURL: "https://x"}, true},
		{"unknown provider", Config{Provider: "ftp"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
