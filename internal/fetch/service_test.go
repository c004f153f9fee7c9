package fetch

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 10), G: uint8(y * 10), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newImageServer(t *testing.T, body []byte) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ok.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(body)
	})
	mux.HandleFunc("/garbage", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not an image</html>"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch_Success(t *testing.T) {
	body := encodePNG(t, 12, 8)
	srv := newImageServer(t, body)

	svc := NewService(WithHTTPClient(srv.Client()))
	res, err := svc.Fetch(context.Background(), srv.URL+"/ok.png")
	require.NoError(t, err)
	require.Equal(t, "png", res.Format)
	require.Equal(t, int64(len(body)), res.Size)
	require.Equal(t, 12, res.Image.Bounds().Dx())
	require.Equal(t, 8, res.Image.Bounds().Dy())
}

func TestFetch_NotFound(t *testing.T) {
	srv := newImageServer(t, nil)

	_, err := NewService().Fetch(context.Background(), srv.URL+"/missing.png")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrBadStatus), "got %v", err)
}

func TestFetch_NotAnImage(t *testing.T) {
	srv := newImageServer(t, nil)

	_, err := NewService().Fetch(context.Background(), srv.URL+"/garbage")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrDecode), "got %v", err)
}

func TestFetch_InvalidURL(t *testing.T) {
	svc := NewService()
	for _, raw := range []string{"", "not a url", "ftp://example.com/a.png", "https://", "::"} {
		_, err := svc.Fetch(context.Background(), raw)
		require.Error(t, err, "url %q", raw)
		require.True(t, errors.Is(err, ErrInvalidURL), "url %q: got %v", raw, err)
	}
}

func TestFetch_CanceledContext(t *testing.T) {
	srv := newImageServer(t, encodePNG(t, 2, 2))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewService().Fetch(ctx, srv.URL+"/ok.png")
	require.Error(t, err)
	require.True(t, errors.Is(err, context.Canceled), "got %v", err)
}
