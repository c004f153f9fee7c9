package store

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/ytget/image-saver/internal/compress"
	"github.com/ytget/image-saver/internal/model"
)

// ManifestKey is the preference key holding saved image paths
const ManifestKey = "saved_image_paths"

// Preferences is the slice of a key-value preference store the manifest
// needs. fyne.Preferences satisfies it.
type Preferences interface {
	StringList(key string) []string
	SetStringList(key string, value []string)
}

// persistErrer is implemented by preference stores whose writes can fail,
// such as the CLI's TOML file. fyne.Preferences does not report errors.
type persistErrer interface {
	Err() error
}

// ManifestStore saves files like FileStore and remembers their paths in a
// preference string list. Loading walks the manifest, not the directory.
type ManifestStore struct {
	files  *FileStore
	prefs  Preferences
	logger *slog.Logger

	mu sync.Mutex
}

// NewManifestStore creates a manifest-backed store writing files into dir
func NewManifestStore(dir string, encoder compress.Compressor, prefs Preferences, opts ...Option) *ManifestStore {
	o := buildOptions(opts)
	return &ManifestStore{
		files:  NewFileStore(dir, encoder, opts...),
		prefs:  prefs,
		logger: o.logger,
	}
}

// Save writes the file and appends its path to the manifest. When the
// manifest cannot be written the file is removed again and Save fails.
func (s *ManifestStore) Save(ctx context.Context, rec *model.ImageRecord) (*model.ImageRecord, error) {
	saved, err := s.files.Save(ctx, rec)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	paths := s.prefs.StringList(ManifestKey)
	for _, p := range paths {
		if p == saved.Path {
			return saved, nil
		}
	}
	updated := make([]string, 0, len(paths)+1)
	updated = append(updated, paths...)
	updated = append(updated, saved.Path)
	s.prefs.SetStringList(ManifestKey, updated)

	if pe, ok := s.prefs.(persistErrer); ok {
		if err := pe.Err(); err != nil {
			s.prefs.SetStringList(ManifestKey, paths)
			if rmErr := os.Remove(saved.Path); rmErr != nil {
				s.logger.Warn("failed to remove unlisted image", "path", saved.Path, "error", rmErr)
			}
			return nil, goerr.Wrap(err, "failed to update manifest", goerr.V("path", saved.Path))
		}
	}

	return saved, nil
}

// Paths returns the manifest as stored, including entries whose file is gone
func (s *ManifestStore) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths := s.prefs.StringList(ManifestKey)
	out := make([]string, len(paths))
	copy(out, paths)
	return out
}

// LoadAll decodes every path in the manifest, in manifest order.
// Paths without a backing file are skipped silently.
func (s *ManifestStore) LoadAll(ctx context.Context) ([]*model.ImageRecord, error) {
	paths := s.Paths()

	records := make([]*model.ImageRecord, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return records, err
		}

		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("manifest entry has no file", "path", path)
			continue
		}

		rec, err := decodeFile(path)
		if err != nil {
			s.logger.Warn("skipping unreadable image", "path", path, "error", err)
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}
