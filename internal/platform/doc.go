package platform

// Package platform contains OS/platform integration: app storage location,
// filesystem helpers, and opening saved images with the system viewer.
