package compress

// Package compress turns decoded images into the bytes that get persisted:
// optional longest-edge downscaling (golang.org/x/image/draw) followed by
// JPEG encoding at a configurable quality.
