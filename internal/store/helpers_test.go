package store

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ytget/image-saver/internal/compress"
	"github.com/ytget/image-saver/internal/model"
)

// blocks builds an image of flat 8x8 colour blocks, which JPEG at quality
// 100 reproduces almost exactly
func blocks(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	palette := []color.RGBA{
		{R: 220, G: 30, B: 30, A: 255},
		{R: 30, G: 200, B: 40, A: 255},
		{R: 20, G: 40, B: 210, A: 255},
		{R: 240, G: 240, B: 240, A: 255},
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, palette[((x/8)+(y/8))%len(palette)])
		}
	}
	return img
}

// requireSimilar compares block centres within a small tolerance
func requireSimilar(t *testing.T, want, got image.Image) {
	t.Helper()
	require.Equal(t, want.Bounds().Dx(), got.Bounds().Dx())
	require.Equal(t, want.Bounds().Dy(), got.Bounds().Dy())

	for y := 4; y < want.Bounds().Dy(); y += 8 {
		for x := 4; x < want.Bounds().Dx(); x += 8 {
			wr, wg, wb, _ := want.At(x, y).RGBA()
			gr, gg, gb, _ := got.At(x, y).RGBA()
			require.InDelta(t, int(wr>>8), int(gr>>8), 10, "red at %d,%d", x, y)
			require.InDelta(t, int(wg>>8), int(gg>>8), 10, "green at %d,%d", x, y)
			require.InDelta(t, int(wb>>8), int(gb>>8), 10, "blue at %d,%d", x, y)
		}
	}
}

func newEncoder() compress.Compressor {
	return compress.NewService(compress.DefaultQuality, compress.DefaultMaxDimension)
}

// fixedClock returns the same instant on every call
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newRecord(url string, img image.Image) *model.ImageRecord {
	return model.NewImageRecord(url, img)
}
