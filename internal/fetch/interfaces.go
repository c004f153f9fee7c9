package fetch

import (
	"context"
	"image"
)

// Result is a successfully decoded image
type Result struct {
	Image  image.Image
	Format string // codec name reported by image.Decode (jpeg, png, webp, ...)
	Size   int64  // bytes read from the response body
}

// Fetcher defines the interface for the image fetcher.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Result, error)
}
