package config

// Package config holds user settings. The GUI keeps them in Fyne preferences;
// the CLI uses FilePreferences, a TOML file with the same string-list contract.
