package store

import (
	"context"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	// Decoders for files written by this package or dropped in by hand
	_ "image/jpeg"
	_ "image/png"

	"github.com/m-mizutani/goerr/v2"

	"github.com/ytget/image-saver/internal/model"
)

// Store persists image records and loads them back
type Store interface {
	Save(ctx context.Context, rec *model.ImageRecord) (*model.ImageRecord, error)
	LoadAll(ctx context.Context) ([]*model.ImageRecord, error)
}

// Mode selects the storage layout
type Mode string

const (
	ModeFiles    Mode = "files"
	ModeManifest Mode = "manifest"
	ModeRecords  Mode = "records"
)

// File permissions
const (
	DefaultDirPermissions  = 0o755
	DefaultFilePermissions = 0o644
)

// ErrNoImage is returned when a record without decoded pixels is saved
var ErrNoImage = goerr.New("record has no image")

// Modes returns the supported storage layouts
func Modes() []Mode {
	return []Mode{ModeFiles, ModeManifest, ModeRecords}
}

// ParseMode converts a user-supplied string into a Mode
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Modes() {
		if m == known {
			return m, nil
		}
	}
	return "", goerr.New("unknown storage mode", goerr.V("mode", s))
}

// Option configures a store
type Option func(*options)

type options struct {
	logger *slog.Logger
	now    func() time.Time
}

func buildOptions(opts []Option) options {
	o := options{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger used for skipped entries
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock overrides the clock used for file names and timestamps
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// decodeFile reads and decodes one image file into a record
func decodeFile(path string) (*model.ImageRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open image", goerr.V("path", path))
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode image", goerr.V("path", path))
	}

	info, err := f.Stat()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to stat image", goerr.V("path", path))
	}

	rec := &model.ImageRecord{
		ID:      strings.TrimSuffix(info.Name(), filepath.Ext(info.Name())),
		Path:    path,
		Format:  format,
		Size:    info.Size(),
		SavedAt: info.ModTime(),
	}
	rec.SetImage(img)
	return rec, nil
}
