package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/dustin/go-humanize"

	"github.com/ytget/image-saver/internal/model"
)

// ImageCard shows one saved image at a fixed height on a grey background,
// with a one-line caption underneath
type ImageCard struct {
	widget.BaseWidget

	background *canvas.Rectangle
	image      *canvas.Image
	caption    *widget.Label
}

// NewImageCard creates an empty card; list rows fill it via SetRecord
func NewImageCard() *ImageCard {
	c := &ImageCard{
		background: canvas.NewRectangle(cardBackground()),
		image:      &canvas.Image{FillMode: canvas.ImageFillContain},
		caption:    widget.NewLabel(""),
	}
	c.image.SetMinSize(fyne.NewSize(CardMinWidth, CardImageHeight))
	c.caption.Truncation = fyne.TextTruncateEllipsis
	c.caption.Importance = widget.LowImportance

	c.ExtendBaseWidget(c)
	return c
}

// SetRecord binds the card to rec and redraws it
func (c *ImageCard) SetRecord(rec *model.ImageRecord) {
	if rec == nil {
		c.image.Image = nil
		c.caption.SetText("")
	} else {
		c.image.Image = rec.Image
		c.caption.SetText(formatCaption(rec))
	}
	c.image.Refresh()
}

// CreateRenderer implements fyne.Widget
func (c *ImageCard) CreateRenderer() fyne.WidgetRenderer {
	picture := container.NewStack(c.background, container.NewPadded(c.image))
	return widget.NewSimpleRenderer(container.NewBorder(nil, c.caption, nil, nil, picture))
}

// formatCaption renders "1.2 MB · 800×600 · 3 minutes ago"; unknown parts are left out
func formatCaption(rec *model.ImageRecord) string {
	parts := make([]string, 0, 3)
	if rec.Size > 0 {
		parts = append(parts, humanize.Bytes(uint64(rec.Size)))
	}
	if rec.Width > 0 && rec.Height > 0 {
		parts = append(parts, fmt.Sprintf("%d%s%d", rec.Width, DimensionSeparator, rec.Height))
	}
	if !rec.SavedAt.IsZero() {
		parts = append(parts, humanize.Time(rec.SavedAt))
	}
	if len(parts) == 0 {
		return rec.GetDisplayName()
	}
	return strings.Join(parts, MiddleDotSeparator)
}
