package config

import (
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"

	"github.com/ytget/image-saver/internal/compress"
	"github.com/ytget/image-saver/internal/platform"
	"github.com/ytget/image-saver/internal/store"
)

// Settings keys for Fyne preferences
const (
	KeyStorageDir   = "storage_directory"
	KeyStorageMode  = "storage_mode"
	KeyJPEGQuality  = "jpeg_quality"
	KeyMaxDimension = "max_dimension"
	KeyLanguage     = "app_language"
)

// Default values
const (
	DefaultStorageMode  = store.ModeFiles
	DefaultJPEGQuality  = compress.DefaultQuality
	DefaultMaxDimension = compress.DefaultMaxDimension
	DefaultLanguage     = "system"

	MaxDimensionLimit = 8192
)

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// Preferences exposes the underlying preference store (used for the path manifest)
func (s *Settings) Preferences() fyne.Preferences {
	return s.app.Preferences()
}

// GetStorageDirectory returns the configured storage directory,
// defaulting to the app-private images directory
func (s *Settings) GetStorageDirectory() string {
	dir := s.app.Preferences().String(KeyStorageDir)
	if dir == "" {
		defaultDir, err := platform.GetAppStorageDir(s.app)
		if err != nil {
			defaultDir = filepath.Join(os.TempDir(), "image-saver")
		}
		s.SetStorageDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetStorageDirectory sets the storage directory
func (s *Settings) SetStorageDirectory(dir string) {
	s.app.Preferences().SetString(KeyStorageDir, dir)
}

// GetStorageMode returns the configured storage layout
func (s *Settings) GetStorageMode() store.Mode {
	mode, err := store.ParseMode(s.app.Preferences().String(KeyStorageMode))
	if err != nil {
		s.SetStorageMode(DefaultStorageMode)
		return DefaultStorageMode
	}
	return mode
}

// SetStorageMode sets the storage layout
func (s *Settings) SetStorageMode(mode store.Mode) {
	if _, err := store.ParseMode(string(mode)); err != nil {
		mode = DefaultStorageMode
	}
	s.app.Preferences().SetString(KeyStorageMode, string(mode))
}

// GetStorageModeOptions returns available storage layouts
func (s *Settings) GetStorageModeOptions() []store.Mode {
	return store.Modes()
}

// GetJPEGQuality returns the JPEG quality used when saving
func (s *Settings) GetJPEGQuality() int {
	value := s.app.Preferences().Int(KeyJPEGQuality)
	if value <= 0 {
		s.SetJPEGQuality(DefaultJPEGQuality)
		return DefaultJPEGQuality
	}
	return value
}

// SetJPEGQuality sets the JPEG quality, clamped to 1..100
func (s *Settings) SetJPEGQuality(quality int) {
	if quality < compress.MinQuality {
		quality = compress.MinQuality
	}
	if quality > compress.MaxQuality {
		quality = compress.MaxQuality
	}
	s.app.Preferences().SetInt(KeyJPEGQuality, quality)
}

// GetMaxDimension returns the longest-edge limit for saved images, 0 = off
func (s *Settings) GetMaxDimension() int {
	return s.app.Preferences().IntWithFallback(KeyMaxDimension, DefaultMaxDimension)
}

// SetMaxDimension sets the longest-edge limit, clamped to 0..MaxDimensionLimit
func (s *Settings) SetMaxDimension(dim int) {
	if dim < 0 {
		dim = 0
	}
	if dim > MaxDimensionLimit {
		dim = MaxDimensionLimit
	}
	s.app.Preferences().SetInt(KeyMaxDimension, dim)
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}

// NewEncoder builds the image encoder from the current settings
func (s *Settings) NewEncoder() compress.Compressor {
	return compress.NewService(s.GetJPEGQuality(), s.GetMaxDimension())
}

// NewStore builds the store selected by the current settings
func (s *Settings) NewStore(opts ...store.Option) store.Store {
	return BuildStore(s.GetStorageMode(), s.GetStorageDirectory(), s.NewEncoder(), s.Preferences(), opts...)
}

// BuildStore creates the store for mode. prefs is only used by the manifest layout.
func BuildStore(mode store.Mode, dir string, encoder compress.Compressor, prefs store.Preferences, opts ...store.Option) store.Store {
	switch mode {
	case store.ModeManifest:
		return store.NewManifestStore(dir, encoder, prefs, opts...)
	case store.ModeRecords:
		return store.NewRecordStore(dir, encoder, opts...)
	default:
		return store.NewFileStore(dir, encoder, opts...)
	}
}
