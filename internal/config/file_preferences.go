package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// PreferencesFileName is the CLI's preference file inside the storage directory
const PreferencesFileName = "preferences.toml"

// filePreferencesData is the TOML layout of the preference file
type filePreferencesData struct {
	Lists map[string][]string `toml:"lists,omitempty"`
}

// FilePreferences is a TOML-file key-value store for running without the
// Fyne driver. It implements the string-list half of fyne.Preferences that
// the path manifest needs. Every setter writes the file through.
type FilePreferences struct {
	path string

	mu      sync.Mutex
	data    filePreferencesData
	lastErr error
}

// LoadFilePreferences reads path, treating a missing file as empty
func LoadFilePreferences(path string) (*FilePreferences, error) {
	p := &FilePreferences{
		path: path,
		data: filePreferencesData{
			Lists: map[string][]string{},
		},
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return p, nil
		}
		return nil, goerr.Wrap(err, "failed to read preferences", goerr.V("path", path))
	}

	if err := toml.Unmarshal(raw, &p.data); err != nil {
		return nil, goerr.Wrap(err, "failed to parse preferences", goerr.V("path", path))
	}
	if p.data.Lists == nil {
		p.data.Lists = map[string][]string{}
	}
	return p, nil
}

// Path returns the backing file
func (p *FilePreferences) Path() string {
	return p.path
}

// StringList returns a copy of the list stored under key
func (p *FilePreferences) StringList(key string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	list := p.data.Lists[key]
	out := make([]string, len(list))
	copy(out, list)
	return out
}

// SetStringList stores value under key
func (p *FilePreferences) SetStringList(key string, value []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	list := make([]string, len(value))
	copy(list, value)
	p.data.Lists[key] = list
	p.persist()
}

// Err reports the failure of the most recent write, if any. The manifest
// store checks it after every SetStringList.
func (p *FilePreferences) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// persist writes the file atomically; callers hold p.mu
func (p *FilePreferences) persist() {
	p.lastErr = nil

	raw, err := toml.Marshal(p.data)
	if err != nil {
		p.lastErr = goerr.Wrap(err, "failed to encode preferences")
		return
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		p.lastErr = goerr.Wrap(err, "failed to create preferences directory", goerr.V("path", p.path))
		return
	}

	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		p.lastErr = goerr.Wrap(err, "failed to write preferences", goerr.V("path", tmp))
		return
	}
	if err := os.Rename(tmp, p.path); err != nil {
		p.lastErr = goerr.Wrap(err, "failed to replace preferences", goerr.V("path", p.path))
	}
}
