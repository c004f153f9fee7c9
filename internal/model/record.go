package model

import (
	"image"
	"path/filepath"
	"strings"
	"time"
)

// ImageRecord is one saved image. Image holds the decoded pixels and is never
// serialized; Path is empty for records that live inside a record file.
type ImageRecord struct {
	ID        string      `json:"id"`
	SourceURL string      `json:"url,omitempty"`
	Path      string      `json:"path,omitempty"`
	Format    string      `json:"format,omitempty"`
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	Size      int64       `json:"size,omitempty"` // encoded size in bytes
	SavedAt   time.Time   `json:"saved_at"`
	Image     image.Image `json:"-"`
}

// NewImageRecord creates a record for a freshly decoded image
func NewImageRecord(sourceURL string, img image.Image) *ImageRecord {
	rec := &ImageRecord{
		SourceURL: sourceURL,
		Image:     img,
		SavedAt:   time.Now(),
	}
	rec.SetImage(img)
	return rec
}

// SetImage replaces the decoded image and refreshes its dimensions
func (r *ImageRecord) SetImage(img image.Image) {
	r.Image = img
	if img == nil {
		r.Width, r.Height = 0, 0
		return
	}
	b := img.Bounds()
	r.Width, r.Height = b.Dx(), b.Dy()
}

// GetDisplayName returns the file name, the URL, or the ID in order of preference
func (r *ImageRecord) GetDisplayName() string {
	if r.Path != "" {
		return strings.TrimSuffix(filepath.Base(r.Path), filepath.Ext(r.Path))
	}
	if r.SourceURL != "" {
		return r.SourceURL
	}
	return r.ID
}
