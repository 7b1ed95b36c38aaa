package imageprocessor

import (
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"
)

func init() {
	// Register Nikon and Canon maker notes
	exif.RegisterParsers(mknote.All...)
}

// Metadata is the subset of EXIF data kept for listing photos
type Metadata struct {
	TakenAt     *time.Time
	CameraModel string
	Orientation int
}

// ExtractMetadata reads EXIF data from filePath. Files without EXIF yield an
// empty Metadata and no error.
func ExtractMetadata(filePath string) (Metadata, error) {
	var meta Metadata

	f, err := os.Open(filePath)
	if err != nil {
		return meta, fmt.Errorf("error opening image file: %w", err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		log.Debugf("[ImageProcessor] No EXIF data in %s: %v", filePath, err)
		return meta, nil
	}

	if dt, err := x.DateTime(); err == nil {
		meta.TakenAt = &dt
	}
	if m, err := x.Get(exif.Model); err == nil {
		if s, err := m.StringVal(); err == nil {
			meta.CameraModel = s
		}
	}
	if o, err := x.Get(exif.Orientation); err == nil {
		if v, err := o.Int(0); err == nil {
			meta.Orientation = v
		}
	}
	return meta, nil
}
