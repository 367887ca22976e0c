package imageprocessor

import (
	"bytes"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
)

func init() {
	// Register Nikon and Canon maker notes
	exif.RegisterParsers(mknote.All...)
}

// Metadata is the EXIF information worth keeping about an upload. Re-encoding
// drops EXIF, so HasGPS tells editors that a location was stripped.
type Metadata struct {
	CameraMake  string     `json:"camera_make,omitempty"`
	CameraModel string     `json:"camera_model,omitempty"`
	TakenAt     *time.Time `json:"taken_at,omitempty"`
	HasGPS      bool       `json:"has_gps"`
}

// ExtractMetadata returns nil when the image carries no EXIF block.
func ExtractMetadata(data []byte) *Metadata {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		log.Debugf("[ImageProcessor] no EXIF data: %v", err)
		return nil
	}

	meta := &Metadata{}
	if tag, err := x.Get(exif.Make); err == nil {
		meta.CameraMake = strings.TrimSpace(strings.Trim(tag.String(), `"`))
	}
	if tag, err := x.Get(exif.Model); err == nil {
		meta.CameraModel = strings.TrimSpace(strings.Trim(tag.String(), `"`))
	}
	if dt, err := x.DateTime(); err == nil {
		meta.TakenAt = &dt
	}
	if _, _, err := x.LatLong(); err == nil {
		meta.HasGPS = true
	}
	return meta
}
