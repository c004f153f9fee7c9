package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/ytget/image-saver/internal/compress"
	"github.com/ytget/image-saver/internal/model"
)

// File naming
const (
	FilePrefix = "image_"

	// maxNameAttempts bounds the _NN suffixes tried when two saves land in
	// the same millisecond. Suffixed names sort after the bare one.
	maxNameAttempts = 100
)

// LoadExtensions lists the file extensions picked up by LoadAll
var LoadExtensions = []string{".jpg", ".jpeg", ".png"}

// FileStore writes each image to its own timestamp-named JPEG file
type FileStore struct {
	dir     string
	encoder compress.Compressor
	logger  *slog.Logger
	now     func() time.Time
}

// NewFileStore creates a store rooted at dir
func NewFileStore(dir string, encoder compress.Compressor, opts ...Option) *FileStore {
	o := buildOptions(opts)
	return &FileStore{
		dir:     dir,
		encoder: encoder,
		logger:  o.logger,
		now:     o.now,
	}
}

// Save encodes rec.Image into a new file and fills in Path, Size and ID
func (s *FileStore) Save(ctx context.Context, rec *model.ImageRecord) (*model.ImageRecord, error) {
	if rec == nil || rec.Image == nil {
		return nil, ErrNoImage
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.dir, DefaultDirPermissions); err != nil {
		return nil, goerr.Wrap(err, "failed to create storage directory", goerr.V("dir", s.dir))
	}

	savedAt := s.now()
	f, path, err := s.createUnique(savedAt)
	if err != nil {
		return nil, err
	}

	prepared := s.encoder.Prepare(rec.Image)
	if err := s.encoder.Encode(f, prepared); err != nil {
		f.Close()
		os.Remove(path)
		return nil, goerr.Wrap(err, "failed to write image", goerr.V("path", path))
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, goerr.Wrap(err, "failed to close image file", goerr.V("path", path))
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to stat saved image", goerr.V("path", path))
	}

	out := *rec
	out.SetImage(prepared)
	out.Path = path
	out.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	out.Format = "jpeg"
	out.Size = info.Size()
	out.SavedAt = savedAt

	s.logger.Debug("image saved", "path", path, "size", out.Size)
	return &out, nil
}

// createUnique opens a fresh file named after t, adding a _NN suffix on collision
func (s *FileStore) createUnique(t time.Time) (*os.File, string, error) {
	base := fmt.Sprintf("%s%d", FilePrefix, t.UnixMilli())
	ext := s.encoder.Extension()

	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		name := base + ext
		if attempt > 0 {
			name = fmt.Sprintf("%s_%02d%s", base, attempt, ext)
		}
		path := filepath.Join(s.dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, DefaultFilePermissions)
		if err == nil {
			return f, path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", goerr.Wrap(err, "failed to create image file", goerr.V("path", path))
		}
	}

	return nil, "", goerr.New("no free file name", goerr.V("base", base), goerr.V("dir", s.dir))
}

// LoadAll decodes every image file in the directory, in name order.
// A missing directory yields an empty list; unreadable files are skipped.
func (s *FileStore) LoadAll(ctx context.Context) ([]*model.ImageRecord, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []*model.ImageRecord{}, nil
		}
		return nil, goerr.Wrap(err, "failed to read storage directory", goerr.V("dir", s.dir))
	}

	records := make([]*model.ImageRecord, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return records, err
		}
		if entry.IsDir() || !hasImageExtension(entry.Name()) {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		rec, err := decodeFile(path)
		if err != nil {
			s.logger.Warn("skipping unreadable image", "path", path, "error", err)
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

// hasImageExtension checks name against LoadExtensions, case-insensitively
func hasImageExtension(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, known := range LoadExtensions {
		if ext == known {
			return true
		}
	}
	return false
}
