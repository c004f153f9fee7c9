package compress

import (
	"image"
	"io"
)

// Compressor defines the interface for the image encoder used by the stores.
type Compressor interface {
	// Encode writes img to w as is; pass it through Prepare first
	Encode(w io.Writer, img image.Image) error
	// Prepare applies the configured downscale
	Prepare(img image.Image) image.Image
	Extension() string
}
