package imageprocessor

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeTestImage(t *testing.T, w, h int, format imaging.Format) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x % 256), G: uint8(y % 256), B: uint8((x * y) % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, format, imaging.JPEGQuality(100)))
	return buf.Bytes()
}

func TestOptimize_DownsizesWideJPEG(t *testing.T) {
	t.Parallel()

	o := NewOptimizer(Config{MaxWidth: 800, Quality: 85, Workers: 2})
	data := encodeTestImage(t, 1600, 900, imaging.JPEG)

	res, err := o.Optimize(context.Background(), data, "sunrise.jpg")
	require.NoError(t, err)
	assert.True(t, res.Optimized)
	assert.Equal(t, "jpeg", res.Format)
	assert.Equal(t, 800, res.Width)
	assert.Equal(t, 450, res.Height)
	assert.Equal(t, len(data), res.OriginalBytes)
	assert.Less(t, res.OptimizedBytes, res.OriginalBytes)

	w, h, format, err := Dimensions(res.Data)
	require.NoError(t, err)
	assert.Equal(t, [3]any{800, 450, "jpeg"}, [3]any{w, h, format})
}

func TestOptimize_PNGStaysPNG(t *testing.T) {
	t.Parallel()

	o := NewOptimizer(Config{MaxWidth: 100})
	data := encodeTestImage(t, 300, 200, imaging.PNG)

	res, err := o.Optimize(context.Background(), data, "logo.png")
	require.NoError(t, err)
	assert.Equal(t, "png", res.Format)
	assert.Equal(t, 100, res.Width)

	_, _, format, err := Dimensions(res.Data)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
}

func TestOptimize_SkipsAlreadyCompressedFormats(t *testing.T) {
	t.Parallel()

	o := NewOptimizer(Config{})
	for _, name := range []string{"party.gif", "photo.WEBP", "drawing.svg", "scan.avif"} {
		data := []byte("not decoded at all")
		res, err := o.Optimize(context.Background(), data, name)
		require.NoError(t, err, name)
		assert.False(t, res.Optimized, name)
		assert.Equal(t, data, res.Data, name)
	}
}

func TestOptimize_CorruptBufferFails(t *testing.T) {
	t.Parallel()

	o := NewOptimizer(Config{})
	_, err := o.Optimize(context.Background(), []byte("\xff\xd8\xff garbage"), "broken.jpg")
	assert.Error(t, err)
	assert.Equal(t, 0, o.Active(), "worker slot must be released")
}

func TestOptimize_HonorsContextWhileWaitingForWorker(t *testing.T) {
	t.Parallel()

	o := NewOptimizer(Config{Workers: 1})
	o.memoryThrottle <- struct{}{}
	defer func() { <-o.memoryThrottle }()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.Optimize(ctx, encodeTestImage(t, 10, 10, imaging.JPEG), "tiny.jpg")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewOptimizerDefaults(t *testing.T) {
	t.Parallel()

	o := NewOptimizer(Config{Quality: 250})
	assert.Equal(t, DefaultMaxWidth, o.maxWidth)
	assert.Equal(t, DefaultQuality, o.quality)
	assert.Equal(t, MaxWorkers, cap(o.memoryThrottle))
}

func TestExtractMetadataWithoutEXIF(t *testing.T) {
	t.Parallel()

	assert.Nil(t, ExtractMetadata(encodeTestImage(t, 8, 8, imaging.JPEG)))
}
