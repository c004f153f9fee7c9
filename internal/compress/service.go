package compress

import (
	"image"
	"image/jpeg"
	"io"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/image/draw"
)

// Encoding constants
const (
	DefaultQuality = 100 // best JPEG quality
	MinQuality     = 1
	MaxQuality     = 100

	// MaxDimension 0 keeps the original size
	DefaultMaxDimension = 0

	ExtensionJPEG = ".jpg"
)

// Service encodes decoded images as JPEG
type Service struct {
	quality      int
	maxDimension int
}

// NewService creates a new encoder. quality is clamped to 1..100;
// maxDimension <= 0 disables downscaling.
func NewService(quality, maxDimension int) Compressor {
	return &Service{
		quality:      clampQuality(quality),
		maxDimension: maxDimension,
	}
}

// Extension returns the file extension for encoded output
func (s *Service) Extension() string {
	return ExtensionJPEG
}

// Prepare applies the configured downscale
func (s *Service) Prepare(img image.Image) image.Image {
	return Downscale(img, s.maxDimension)
}

// Encode writes img as JPEG. img is expected to have been through Prepare.
func (s *Service) Encode(w io.Writer, img image.Image) error {
	if img == nil {
		return goerr.New("nothing to encode")
	}
	return EncodeJPEG(w, img, s.quality)
}

// EncodeJPEG writes img to w at the given quality
func EncodeJPEG(w io.Writer, img image.Image, quality int) error {
	if err := jpeg.Encode(w, img, &jpeg.Options{Quality: clampQuality(quality)}); err != nil {
		return goerr.Wrap(err, "failed to encode jpeg", goerr.V("quality", quality))
	}
	return nil
}

// Downscale shrinks img so that its longest edge is at most maxDim,
// preserving aspect ratio. Images already small enough are returned as is.
func Downscale(img image.Image, maxDim int) image.Image {
	if img == nil || maxDim <= 0 {
		return img
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	var nw, nh int
	if w >= h {
		nw = maxDim
		nh = h * maxDim / w
	} else {
		nh = maxDim
		nw = w * maxDim / h
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// clampQuality keeps quality inside the range accepted by image/jpeg
func clampQuality(q int) int {
	if q < MinQuality {
		return MinQuality
	}
	if q > MaxQuality {
		return MaxQuality
	}
	return q
}
