package ui

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/image-saver/internal/config"
	"github.com/ytget/image-saver/internal/gallery"
	"github.com/ytget/image-saver/internal/model"
	"github.com/ytget/image-saver/internal/platform"
)

var (
	errURLScheme = errors.New("URL must start with http:// or https://")
	errURLHost   = errors.New("URL has no host")
)

// RootUI represents the main UI structure
type RootUI struct {
	window       fyne.Window
	urlEntry     *widget.Entry
	downloadBtn  *widget.Button
	refreshBtn   *widget.Button
	imageList    *widget.List
	gallery      gallery.Gallery
	settings     *config.Settings
	localization *Localization
	mobile       *MobileUI
	logger       *slog.Logger

	// records is the list model; only touched on the UI goroutine
	records []*model.ImageRecord

	// last non-error status per task, to tell download from save failures
	stagesMu   sync.Mutex
	taskStages map[string]model.TaskStatus

	// Notification panel
	notificationContainer *fyne.Container
	notificationLabel     *widget.Label
	notificationSpinner   *widget.ProgressBarInfinite
	notificationMu        sync.Mutex
	notificationSeq       uint64

	openFile func(path string) error
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, app fyne.App, settings *config.Settings, gal gallery.Gallery) *RootUI {
	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		window:       window,
		gallery:      gal,
		settings:     settings,
		localization: localization,
		mobile:       NewMobileUI(app),
		logger:       slog.Default().With("component", "ui"),
		taskStages:   make(map[string]model.TaskStatus),
		openFile:     platform.OpenFileWithDefaultApp,
	}

	window.SetTitle(localization.GetText(KeyAppTitle))

	ui.gallery.SetUpdateCallback(ui.onTaskUpdate)
	ui.gallery.SetRecordsCallback(ui.onRecordsChanged)

	ui.setupUI()
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.urlEntry = ui.mobile.CreateMobileEntry(ui.localization.GetText(KeyEnterURL))
	ui.urlEntry.Validator = ui.validateURL
	// Enter in the URL field acts like the button
	ui.urlEntry.OnSubmitted = func(string) {
		ui.onDownloadClick()
	}

	ui.downloadBtn = ui.mobile.CreateMobileButton(ui.localization.GetText(KeyDownloadImage), ui.onDownloadClick)
	ui.downloadBtn.Importance = widget.HighImportance

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	ui.refreshBtn = widget.NewButton(IconRefresh, func() { go ui.onRefresh() })
	ui.refreshBtn.Importance = widget.LowImportance

	urlRow := container.NewBorder(nil, nil, nil, container.NewHBox(ui.refreshBtn, settingsBtn), ui.urlEntry)
	topPanel := container.NewVBox(urlRow, ui.downloadBtn)

	// Notification panel under the URL input (hidden by default)
	ui.notificationLabel = widget.NewLabel("")
	ui.notificationLabel.Alignment = fyne.TextAlignLeading
	ui.notificationLabel.Wrapping = fyne.TextWrapWord
	ui.notificationSpinner = widget.NewProgressBarInfinite()
	ui.notificationSpinner.Hide()
	ui.notificationContainer = container.NewBorder(nil, nil, ui.notificationSpinner, nil, ui.notificationLabel)
	ui.notificationContainer.Hide()

	topCombined := container.NewVBox(topPanel, ui.notificationContainer)

	ui.imageList = widget.NewList(
		func() int {
			return len(ui.records)
		},
		func() fyne.CanvasObject { return NewImageCard() },
		func(id widget.ListItemID, obj fyne.CanvasObject) { ui.updateImageItem(id, obj) },
	)
	ui.imageList.OnSelected = ui.onImageSelected

	content := container.NewBorder(
		topCombined, // top
		nil,         // bottom
		nil,         // left
		nil,         // right
		ui.mobile.WrapRefreshable(ui.imageList, ui.onRefresh),
	)

	ui.window.SetContent(content)
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)
	refreshItem := fyne.NewMenuItem(ui.localization.GetText(KeyRefresh), func() { go ui.onRefresh() })
	openFolderItem := fyne.NewMenuItem(ui.localization.GetText(KeyOpenFolder), ui.onOpenFolder)

	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))
	for code, name := range ui.localization.GetAvailableLanguages() {
		langCode := code
		langItem := fyne.NewMenuItem(name, func() {
			ui.onLanguageChange(langCode)
		})
		langItem.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), refreshItem, openFolderItem, fyne.NewMenuItemSeparator(), settingsItem),
		languageMenu,
	))
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)

	ui.refreshUITexts()
	// Recreate menu to update checkmarks
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	ui.window.SetTitle(ui.localization.GetText(KeyAppTitle))
	ui.urlEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterURL))
	ui.downloadBtn.SetText(ui.localization.GetText(KeyDownloadImage))
}

// validateURL validates the entered URL
func (ui *RootUI) validateURL(input string) error {
	if strings.TrimSpace(input) == "" {
		return nil // Empty is allowed
	}

	parsedURL, err := url.Parse(strings.TrimSpace(input))
	if err != nil {
		return err
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return errURLScheme
	}
	if parsedURL.Host == "" {
		return errURLHost
	}

	return nil
}

// onDownloadClick handles the download button click
func (ui *RootUI) onDownloadClick() {
	urlText := strings.TrimSpace(ui.urlEntry.Text)
	if urlText == "" {
		ui.showNotification(ui.localization.GetText(KeyPleaseEnterURL), false)
		return
	}

	if err := ui.validateURL(urlText); err != nil {
		ui.showNotification(ui.localization.GetText(KeyInvalidURL)+": "+err.Error(), false)
		return
	}

	task, err := ui.gallery.Submit(urlText)
	if err != nil {
		ui.logger.Warn("submit rejected", "url", urlText, "error", err)
		ui.showNotification(ui.localization.GetText(KeyPleaseEnterURL), false)
		return
	}

	ui.logger.Debug("fetch task submitted", "task", task.ID, "url", task.URL)
	ui.showNotification(ui.localization.GetText(KeyDownloading), true)
}

// LoadSaved rehydrates the list from storage in the background and reports
// the outcome in the notification panel
func (ui *RootUI) LoadSaved(ctx context.Context) {
	go func() {
		count, err := ui.gallery.Load(ctx)
		ui.reportLoad(count, err)
	}()
}

// onRefresh reloads the list from storage; it blocks, so callers run it off the UI goroutine
func (ui *RootUI) onRefresh() {
	count, err := ui.gallery.Reload(context.Background())
	ui.reportLoad(count, err)
}

func (ui *RootUI) reportLoad(count int, err error) {
	switch {
	case err != nil:
		ui.logger.Error("failed to load saved images", "error", err)
		ui.showNotification(ui.localization.GetText(KeyLoadError), false)
	case count == 0:
		ui.showNotification(ui.localization.GetText(KeyNoSavedImages), false)
	default:
		ui.showNotification(ui.localization.GetText(KeyImagesLoaded), false)
	}
}

// onTaskUpdate handles task updates from the gallery service
func (ui *RootUI) onTaskUpdate(task *model.FetchTask) {
	ui.stagesMu.Lock()
	failedStage := ui.taskStages[task.ID]
	if task.Status.IsFinished() {
		delete(ui.taskStages, task.ID)
	} else {
		ui.taskStages[task.ID] = task.Status
	}
	ui.stagesMu.Unlock()

	switch task.Status {
	case model.TaskStatusCompleted:
		if task.Record != nil && task.Record.Path != "" {
			platform.NotifyMediaScanner(task.Record.Path)
		}
		ui.logger.Debug("fetch task completed", "task", task.ID, "title", task.GetDisplayTitle(), "duration", task.Duration())
		ui.showNotification(ui.localization.GetText(KeyImageSaved), false)
	case model.TaskStatusError:
		ui.logger.Warn("fetch task failed", "task", task.ID, "title", task.GetDisplayTitle(), "url", task.URL, "error", task.LastError)
		if failedStage == model.TaskStatusSaving {
			ui.showNotification(ui.localization.GetText(KeySaveError), false)
		} else {
			ui.showNotification(ui.localization.GetText(KeyDownloadError), false)
		}
	}
}

// onRecordsChanged swaps in the new list snapshot on the UI goroutine
func (ui *RootUI) onRecordsChanged(records []*model.ImageRecord) {
	fyne.Do(func() {
		ui.records = records
		ui.imageList.Refresh()
	})
}

// updateImageItem binds a list row to its record
func (ui *RootUI) updateImageItem(id widget.ListItemID, item fyne.CanvasObject) {
	card, ok := item.(*ImageCard)
	if !ok || id < 0 || id >= len(ui.records) {
		return
	}
	card.SetRecord(ui.records[id])
}

// onImageSelected opens the tapped image with the system viewer
func (ui *RootUI) onImageSelected(id widget.ListItemID) {
	defer ui.imageList.Unselect(id)

	if id < 0 || id >= len(ui.records) {
		return
	}
	rec := ui.records[id]
	if rec.Path == "" {
		ui.showNotification(ui.localization.GetText(KeyNoFileForImage), false)
		return
	}

	go func() {
		if err := ui.openFile(rec.Path); err != nil {
			ui.logger.Warn("failed to open image", "path", rec.Path, "error", err)
			ui.showNotification(ui.localization.GetText(KeyErrorOpeningFile), false)
		}
	}()
}

// onOpenFolder reveals the storage directory in the file manager
func (ui *RootUI) onOpenFolder() {
	dir := ui.settings.GetStorageDirectory()
	if len(ui.records) > 0 && ui.records[0].Path != "" {
		dir = ui.records[0].Path
	}
	go func() {
		if err := platform.OpenFileInManager(dir); err != nil {
			ui.logger.Warn("failed to open storage folder", "path", dir, "error", err)
			ui.showNotification(ui.localization.GetText(KeyErrorOpeningFile), false)
		}
	}()
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	ShowSettingsDialog(ui.window, ui.settings, ui.localization, func(restartRequired bool) {
		ui.localization.SetLanguage(ui.settings.GetLanguage())
		ui.refreshUITexts()
		ui.createMenu()
		if restartRequired {
			ui.showNotification(ui.localization.GetText(KeyRestartToApply), false)
		}
	})
}

// showNotification displays a message in the notification panel under the URL input.
// When spinning is true, a spinner is shown and the panel stays until the next message;
// otherwise it hides itself after NotificationAutoHide.
func (ui *RootUI) showNotification(message string, spinning bool) {
	if ui.notificationLabel == nil || ui.notificationContainer == nil || ui.notificationSpinner == nil {
		return
	}

	ui.notificationMu.Lock()
	ui.notificationSeq++
	seq := ui.notificationSeq
	ui.notificationMu.Unlock()

	fyne.Do(func() {
		ui.notificationLabel.SetText(message)
		if spinning {
			ui.notificationSpinner.Show()
		} else {
			ui.notificationSpinner.Hide()
		}
		ui.notificationContainer.Show()
		ui.notificationContainer.Refresh()
	})

	if !spinning {
		time.AfterFunc(NotificationAutoHide, func() {
			ui.hideNotification(seq)
		})
	}
}

// hideNotification hides the panel unless a newer message replaced seq
func (ui *RootUI) hideNotification(seq uint64) {
	ui.notificationMu.Lock()
	current := ui.notificationSeq
	ui.notificationMu.Unlock()
	if current != seq {
		return
	}

	fyne.Do(func() {
		ui.notificationSpinner.Hide()
		ui.notificationContainer.Hide()
	})
}

// NotificationText returns the message currently in the notification panel
func (ui *RootUI) NotificationText() string {
	if ui.notificationContainer == nil || !ui.notificationContainer.Visible() {
		return ""
	}
	return ui.notificationLabel.Text
}
