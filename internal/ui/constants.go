package ui

import (
	"image/color"
	"time"
)

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconRefresh  = "⟳"
	IconFolder   = "📁"
)

// Text fragments
const (
	MiddleDotSeparator = " · "
	DimensionSeparator = "×"
)

// Image card sizing
const (
	CardImageHeight float32 = 200
	CardMinWidth    float32 = 240
)

// CardBackgroundColor is the light grey behind each image
var CardBackgroundColor = color.NRGBA{R: 0xCC, G: 0xCC, B: 0xCC, A: 0xFF}

// Layout sizing
const (
	WindowWidth  float32 = 480
	WindowHeight float32 = 800

	// Touch target minimum sizes (iOS/Android guidelines)
	MinTouchTargetSize float32 = 44
	MobileButtonHeight float32 = 48
	MobileButtonWidth  float32 = 60

	SettingsDialogWidth  float32 = 500
	SettingsDialogHeight float32 = 420
)

// Notification panel behavior
const (
	NotificationAutoHide = 3 * time.Second
)

// Delays
const (
	RefreshCooldown = 500 * time.Millisecond
)
