package config

import (
	"log/slog"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/ytget/image-saver/internal/compress"
	appconfig "github.com/ytget/image-saver/internal/config"
	"github.com/ytget/image-saver/internal/platform"
	"github.com/ytget/image-saver/internal/store"
)

// Storage holds where and how images are persisted
type Storage struct {
	Dir          string
	Mode         string
	Quality      int
	MaxDimension int
}

// Flags returns CLI flags for storage configuration
func (c *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "dir",
			Aliases:     []string{"d"},
			Usage:       "Storage directory (default: user config dir)",
			Destination: &c.Dir,
			Sources:     cli.EnvVars("IMAGE_SAVER_DIR"),
		},
		&cli.StringFlag{
			Name:        "store",
			Usage:       "Storage mode (files, manifest, records)",
			Value:       string(appconfig.DefaultStorageMode),
			Destination: &c.Mode,
			Sources:     cli.EnvVars("IMAGE_SAVER_STORE"),
		},
		&cli.IntFlag{
			Name:        "quality",
			Usage:       "JPEG quality 1-100",
			Value:       compress.DefaultQuality,
			Destination: &c.Quality,
			Sources:     cli.EnvVars("IMAGE_SAVER_QUALITY"),
		},
		&cli.IntFlag{
			Name:        "max-dimension",
			Usage:       "Downscale so the longest edge fits, 0 keeps the original size",
			Value:       compress.DefaultMaxDimension,
			Destination: &c.MaxDimension,
			Sources:     cli.EnvVars("IMAGE_SAVER_MAX_DIMENSION"),
		},
	}
}

// Directory returns the configured directory or the default app storage location
func (c *Storage) Directory() (string, error) {
	if c.Dir != "" {
		return c.Dir, nil
	}
	dir, err := platform.GetAppStorageDir(nil)
	if err != nil {
		return "", goerr.Wrap(err, "failed to resolve storage directory")
	}
	return dir, nil
}

// Build validates the configuration and creates the store. The manifest
// layout keeps its path list in a TOML preferences file inside the directory.
func (c *Storage) Build(logger *slog.Logger) (store.Store, error) {
	mode, err := store.ParseMode(c.Mode)
	if err != nil {
		return nil, err
	}
	if c.Quality < compress.MinQuality || c.Quality > compress.MaxQuality {
		return nil, goerr.New("quality out of range", goerr.V("quality", c.Quality))
	}
	if c.MaxDimension < 0 || c.MaxDimension > appconfig.MaxDimensionLimit {
		return nil, goerr.New("max dimension out of range", goerr.V("max_dimension", c.MaxDimension))
	}

	dir, err := c.Directory()
	if err != nil {
		return nil, err
	}
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return nil, goerr.Wrap(err, "failed to create storage directory", goerr.V("dir", dir))
	}

	var prefs store.Preferences
	if mode == store.ModeManifest {
		filePrefs, err := appconfig.LoadFilePreferences(filepath.Join(dir, appconfig.PreferencesFileName))
		if err != nil {
			return nil, err
		}
		logger.Debug("using manifest file", "path", filePrefs.Path())
		prefs = filePrefs
	}

	encoder := compress.NewService(c.Quality, c.MaxDimension)
	return appconfig.BuildStore(mode, dir, encoder, prefs, store.WithLogger(logger)), nil
}
