package config

import (
	"context"
	"image"
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/require"

	"github.com/ytget/image-saver/internal/model"
	"github.com/ytget/image-saver/internal/store"
)

func TestNewSettings(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.app != app {
		t.Error("Settings app reference should match provided app")
	}
}

func TestStorageDirectory(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Test default value
	dir := settings.GetStorageDirectory()
	if dir == "" {
		t.Error("Storage directory should not be empty")
	}

	// Default is remembered
	if settings.GetStorageDirectory() != dir {
		t.Error("Default storage directory should be stable")
	}

	// Test setting custom value
	customDir := "/custom/images"
	settings.SetStorageDirectory(customDir)

	retrievedDir := settings.GetStorageDirectory()
	if retrievedDir != customDir {
		t.Errorf("Expected storage directory %s, got %s", customDir, retrievedDir)
	}
}

func TestStorageMode(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Test default value
	if mode := settings.GetStorageMode(); mode != DefaultStorageMode {
		t.Errorf("Expected default storage mode %s, got %s", DefaultStorageMode, mode)
	}

	settings.SetStorageMode(store.ModeRecords)
	if mode := settings.GetStorageMode(); mode != store.ModeRecords {
		t.Errorf("Expected storage mode %s, got %s", store.ModeRecords, mode)
	}

	// Unknown values fall back to the default
	settings.SetStorageMode(store.Mode("sqlite"))
	if mode := settings.GetStorageMode(); mode != DefaultStorageMode {
		t.Errorf("Unknown mode should fall back to %s, got %s", DefaultStorageMode, mode)
	}

	app.Preferences().SetString(KeyStorageMode, "garbage")
	if mode := settings.GetStorageMode(); mode != DefaultStorageMode {
		t.Errorf("Corrupt preference should fall back to %s, got %s", DefaultStorageMode, mode)
	}
}

func TestJPEGQuality(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if q := settings.GetJPEGQuality(); q != DefaultJPEGQuality {
		t.Errorf("Expected default quality %d, got %d", DefaultJPEGQuality, q)
	}

	settings.SetJPEGQuality(80)
	if q := settings.GetJPEGQuality(); q != 80 {
		t.Errorf("Expected quality 80, got %d", q)
	}

	settings.SetJPEGQuality(0) // Should be clamped to 1
	if settings.GetJPEGQuality() != 1 {
		t.Error("Quality should be clamped to minimum 1")
	}

	settings.SetJPEGQuality(150) // Should be clamped to 100
	if settings.GetJPEGQuality() != 100 {
		t.Error("Quality should be clamped to maximum 100")
	}
}

func TestMaxDimension(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if d := settings.GetMaxDimension(); d != DefaultMaxDimension {
		t.Errorf("Expected default max dimension %d, got %d", DefaultMaxDimension, d)
	}

	settings.SetMaxDimension(1024)
	if d := settings.GetMaxDimension(); d != 1024 {
		t.Errorf("Expected max dimension 1024, got %d", d)
	}

	settings.SetMaxDimension(-3)
	if settings.GetMaxDimension() != 0 {
		t.Error("Negative max dimension should be clamped to 0")
	}

	settings.SetMaxDimension(MaxDimensionLimit + 1)
	if settings.GetMaxDimension() != MaxDimensionLimit {
		t.Errorf("Max dimension should be clamped to %d", MaxDimensionLimit)
	}
}

func TestLanguage(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Test default value
	lang := settings.GetLanguage()
	if lang != DefaultLanguage {
		t.Errorf("Expected default language %s, got %s", DefaultLanguage, lang)
	}

	// Test setting custom value
	settings.SetLanguage("ru")

	retrievedLang := settings.GetLanguage()
	if retrievedLang != "ru" {
		t.Errorf("Expected language 'ru', got %s", retrievedLang)
	}
}

func TestGetLanguageOptions(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	options := settings.GetLanguageOptions()

	expectedLangs := []string{"system", "en", "ru", "pt"}
	for _, lang := range expectedLangs {
		if _, exists := options[lang]; !exists {
			t.Errorf("Expected language option '%s' to exist", lang)
		}
	}

	if len(options) != len(expectedLangs) {
		t.Errorf("Expected %d language options, got %d", len(expectedLangs), len(options))
	}
}

func TestNewStore_FollowsMode(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)
	settings.SetStorageDirectory(t.TempDir())

	tests := []struct {
		mode store.Mode
		want any
	}{
		{store.ModeFiles, &store.FileStore{}},
		{store.ModeManifest, &store.ManifestStore{}},
		{store.ModeRecords, &store.RecordStore{}},
	}

	for _, test := range tests {
		settings.SetStorageMode(test.mode)
		require.IsType(t, test.want, settings.NewStore(), "mode %s", test.mode)
	}
}

func TestNewStore_ManifestUsesAppPreferences(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)
	settings.SetStorageDirectory(t.TempDir())
	settings.SetStorageMode(store.ModeManifest)

	saved, err := settings.NewStore().Save(context.Background(),
		model.NewImageRecord("https://example.com/a.png", image.NewRGBA(image.Rect(0, 0, 4, 4))))
	require.NoError(t, err)

	require.Equal(t, []string{saved.Path}, app.Preferences().StringList(store.ManifestKey))
	require.Equal(t, settings.GetStorageDirectory(), filepath.Dir(saved.Path))
}
