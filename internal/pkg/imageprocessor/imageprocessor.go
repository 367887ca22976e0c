package imageprocessor

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2/log"
	_ "golang.org/x/image/webp"

	"github.com/gracechapel/chapelcms/internal/pkg/env"
)

const (
	DefaultMaxWidth = 2000
	DefaultQuality  = 85
	MaxWorkers      = 3
)

// Config bounds the optimizer's output and concurrency.
type Config struct {
	MaxWidth int
	Quality  int
	Workers  int
}

func LoadConfig() Config {
	return Config{
		MaxWidth: env.GetEnvInt("IMAGE_MAX_WIDTH", DefaultMaxWidth),
		Quality:  env.GetEnvInt("IMAGE_QUALITY", DefaultQuality),
		Workers:  env.GetEnvInt("IMAGE_WORKERS", MaxWorkers),
	}
}

// Optimizer re-encodes uploads before they leave the server. At most
// Workers images are decoded at once; decoding a large photo holds
// width*height*4 bytes, so the limit is what keeps memory bounded.
type Optimizer struct {
	maxWidth        int
	quality         int
	memoryThrottle  chan struct{}
	activeProcesses int32
}

// Result describes one optimization run.
type Result struct {
	Data           []byte
	Format         string
	Width          int
	Height         int
	OriginalBytes  int
	OptimizedBytes int
	Optimized      bool
	Metadata       *Metadata
}

func NewOptimizer(cfg Config) *Optimizer {
	if cfg.MaxWidth <= 0 {
		cfg.MaxWidth = DefaultMaxWidth
	}
	if cfg.Quality <= 0 || cfg.Quality > 100 {
		cfg.Quality = DefaultQuality
	}
	if cfg.Workers <= 0 {
		cfg.Workers = MaxWorkers
	}
	return &Optimizer{
		maxWidth:       cfg.MaxWidth,
		quality:        cfg.Quality,
		memoryThrottle: make(chan struct{}, cfg.Workers),
	}
}

// SkipOptimization reports formats that are passed through untouched:
// animated GIFs would lose frames, WebP/AVIF are already compressed and
// SVG is not raster.
func SkipOptimization(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".gif", ".svg", ".webp", ".avif":
		return true
	}
	return false
}

// Active returns the number of images currently being re-encoded.
func (o *Optimizer) Active() int {
	return int(atomic.LoadInt32(&o.activeProcesses))
}

// Optimize downsizes data to the configured width and re-encodes it (JPEG at
// the configured quality, PNG at best compression). It waits for a worker
// slot and gives up when ctx ends. Errors leave the caller's buffer unused.
func (o *Optimizer) Optimize(ctx context.Context, data []byte, filename string) (*Result, error) {
	res := &Result{Data: data, OriginalBytes: len(data), OptimizedBytes: len(data)}
	if SkipOptimization(filename) {
		return res, nil
	}

	select {
	case o.memoryThrottle <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for image worker: %w", ctx.Err())
	}
	atomic.AddInt32(&o.activeProcesses, 1)
	defer func() {
		atomic.AddInt32(&o.activeProcesses, -1)
		<-o.memoryThrottle
	}()

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unrecognized image %s: %w", filename, err)
	}
	if format == "gif" || format == "webp" {
		return res, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filename, err)
	}
	if format == "jpeg" {
		res.Metadata = ExtractMetadata(data)
	}

	resized := false
	if img.Bounds().Dx() > o.maxWidth {
		img = imaging.Resize(img, o.maxWidth, 0, imaging.Lanczos)
		resized = true
	}

	var buf bytes.Buffer
	outFormat := "jpeg"
	if format == "png" {
		outFormat = "png"
		err = imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression))
	} else {
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(o.quality))
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", filename, err)
	}

	res.Width = img.Bounds().Dx()
	res.Height = img.Bounds().Dy()

	// a re-encode that only grew the file is not worth keeping
	if !resized && buf.Len() >= len(data) {
		res.Format = format
		log.Infof("[ImageProcessor] %s kept original (%d bytes, re-encode gave %d)", filename, len(data), buf.Len())
		return res, nil
	}

	res.Data = buf.Bytes()
	res.Format = outFormat
	res.OptimizedBytes = buf.Len()
	res.Optimized = true
	log.Infof("[ImageProcessor] %s optimized: %d -> %d bytes (%dx%d)",
		filename, res.OriginalBytes, res.OptimizedBytes, res.Width, res.Height)
	return res, nil
}

// Dimensions reads width and height from the image header only.
func Dimensions(data []byte) (int, int, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, "", err
	}
	return cfg.Width, cfg.Height, format, nil
}
