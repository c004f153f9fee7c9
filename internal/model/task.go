package model

import (
	"strings"
	"time"
)

// FetchTask represents a single "download image" button press
type FetchTask struct {
	ID         string
	URL        string
	Status     TaskStatus
	LastError  string       // last error message if any
	Record     *ImageRecord // set once the image is saved
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration returns how long the task ran, or zero while it is unfinished
func (ft *FetchTask) Duration() time.Duration {
	if ft.FinishedAt.IsZero() || ft.StartedAt.IsZero() {
		return 0
	}
	return ft.FinishedAt.Sub(ft.StartedAt)
}

// GetDisplayTitle returns the saved file name, or the URL without query string
func (ft *FetchTask) GetDisplayTitle() string {
	if ft.Record != nil && ft.Record.Path != "" {
		return ft.Record.GetDisplayName()
	}

	if ft.URL == "" {
		return ""
	}

	// Keep it short: drop query and fragment, keep the last path segment
	u := ft.URL
	if idx := strings.IndexAny(u, "?#"); idx >= 0 {
		u = u[:idx]
	}
	parts := strings.FieldsFunc(u, func(r rune) bool { return r == '/' })
	if len(parts) > 1 {
		return parts[len(parts)-1]
	}
	return ft.URL
}
