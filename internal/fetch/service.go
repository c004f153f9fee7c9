package fetch

import (
	"context"
	"image"
	"io"
	"net/http"
	"net/url"

	// Register decoders for image.Decode
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/m-mizutani/goerr/v2"
)

// Errors returned by Fetch. Callers that only care about success can ignore
// the distinction; the gallery collapses all of them into one outcome.
var (
	ErrInvalidURL = goerr.New("invalid image URL")
	ErrBadStatus  = goerr.New("unexpected HTTP status")
	ErrDecode     = goerr.New("failed to decode image")
)

// Service fetches images with a plain HTTP client
type Service struct {
	client *http.Client
}

// Option configures the fetch Service
type Option func(*Service)

// WithHTTPClient overrides the HTTP client (tests, proxies)
func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) {
		if client != nil {
			s.client = client
		}
	}
}

// NewService creates a new fetch service using library defaults:
// no explicit timeout, headers or retries.
func NewService(opts ...Option) *Service {
	s := &Service{client: http.DefaultClient}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch downloads rawURL and decodes the body as an image
func (s *Service) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidURL, err.Error(), goerr.V("url", rawURL))
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" || parsed.Host == "" {
		return nil, goerr.Wrap(ErrInvalidURL, "scheme must be http or https with a host", goerr.V("url", rawURL))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build request", goerr.V("url", rawURL))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to download image", goerr.V("url", rawURL))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, goerr.Wrap(ErrBadStatus, resp.Status, goerr.V("url", rawURL), goerr.V("status", resp.StatusCode))
	}

	body := &countingReader{r: resp.Body}
	img, format, err := image.Decode(body)
	if err != nil {
		return nil, goerr.Wrap(ErrDecode, err.Error(), goerr.V("url", rawURL), goerr.V("content_type", resp.Header.Get("Content-Type")))
	}

	// Drain the rest so the connection can be reused
	_, _ = io.Copy(io.Discard, body)

	return &Result{Image: img, Format: format, Size: body.n}, nil
}

// countingReader counts bytes passing through it
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
