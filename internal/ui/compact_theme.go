package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// ColorNameCard is the background behind images in the list
const ColorNameCard fyne.ThemeColorName = "imageCard"

// compactSizes shrink paddings and text so more of each image fits on screen
var compactSizes = map[fyne.ThemeSizeName]float32{
	theme.SizeNamePadding:            3,
	theme.SizeNameInnerPadding:       6,
	theme.SizeNameLineSpacing:        2,
	theme.SizeNameScrollBar:          12,
	theme.SizeNameScrollBarSmall:     3,
	theme.SizeNameSeparatorThickness: 1,
	theme.SizeNameText:               13,
	theme.SizeNameHeadingText:        16,
	theme.SizeNameSubHeadingText:     13,
	theme.SizeNameCaptionText:        10,
	theme.SizeNameInputBorder:        1,
	theme.SizeNameInputRadius:        3,
	theme.SizeNameSelectionRadius:    2,
}

var (
	lightColors = map[fyne.ThemeColorName]color.Color{
		theme.ColorNameBackground: color.NRGBA{R: 250, G: 250, B: 250, A: 255},
		theme.ColorNameForeground: color.NRGBA{R: 33, G: 33, B: 33, A: 255},
		ColorNameCard:             CardBackgroundColor,
	}
	darkColors = map[fyne.ThemeColorName]color.Color{
		theme.ColorNameBackground: color.NRGBA{R: 18, G: 18, B: 18, A: 255},
		theme.ColorNameForeground: color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		ColorNameCard:             color.NRGBA{R: 60, G: 60, B: 60, A: 255},
	}
	sharedColors = map[fyne.ThemeColorName]color.Color{
		theme.ColorNameSuccess: color.NRGBA{R: 46, G: 160, B: 67, A: 255},
		theme.ColorNameError:   color.NRGBA{R: 183, G: 28, B: 28, A: 255},
		theme.ColorNameWarning: color.NRGBA{R: 255, G: 193, B: 7, A: 255},
		theme.ColorNamePrimary: color.NRGBA{R: 25, G: 118, B: 210, A: 255},
	}
)

// CompactTheme is the default theme with tighter spacing and an image card color
type CompactTheme struct {
	fyne.Theme
}

// NewCompactTheme creates a new compact theme
func NewCompactTheme() fyne.Theme {
	return &CompactTheme{Theme: theme.DefaultTheme()}
}

// Color returns theme colors
func (t *CompactTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	byVariant := lightColors
	if variant == theme.VariantDark {
		byVariant = darkColors
	}
	if c, ok := byVariant[name]; ok {
		return c
	}
	if c, ok := sharedColors[name]; ok {
		return c
	}
	return t.Theme.Color(name, variant)
}

// Size returns theme sizes with compact adjustments
func (t *CompactTheme) Size(name fyne.ThemeSizeName) float32 {
	if size, ok := compactSizes[name]; ok {
		return size
	}
	return t.Theme.Size(name)
}

// cardBackground resolves ColorNameCard from the current theme; themes that
// do not know it get the plain grey
func cardBackground() color.Color {
	c := theme.Color(ColorNameCard)
	if c == nil {
		return CardBackgroundColor
	}
	if _, _, _, a := c.RGBA(); a == 0 {
		return CardBackgroundColor
	}
	return c
}
