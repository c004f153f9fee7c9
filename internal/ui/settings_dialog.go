package ui

import (
	"sort"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/image-saver/internal/config"
	"github.com/ytget/image-saver/internal/store"
)

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func(restartRequired bool)

	// UI components
	storageDirEntry   *widget.Entry
	storageModeSelect *widget.Select
	qualityEntry      *widget.Entry
	maxDimensionEntry *widget.Entry
	languageSelect    *widget.Select

	// language display name -> code
	languageCodes map[string]string
}

// ShowSettingsDialog builds and shows the settings dialog. onSaved runs after
// the values are stored; restartRequired is true when a setting used to build
// the store (directory, mode, quality, max dimension) changed.
func ShowSettingsDialog(window fyne.Window, settings *config.Settings, localization *Localization, onSaved func(restartRequired bool)) *SettingsDialog {
	sd := NewSettingsDialog(settings, localization, window, onSaved)
	sd.Show()
	return sd
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(settings *config.Settings, localization *Localization, window fyne.Window, onSaved func(bool)) *SettingsDialog {
	sd := &SettingsDialog{
		settings:      settings,
		localization:  localization,
		window:        window,
		onSaved:       onSaved,
		languageCodes: make(map[string]string),
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	t := sd.localization.GetText

	// Storage directory selection
	sd.storageDirEntry = widget.NewEntry()
	browseDirBtn := widget.NewButton(t(KeyBrowse), sd.onBrowseDirectory)
	storageDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.storageDirEntry)

	modeOptions := []string{}
	for _, mode := range sd.settings.GetStorageModeOptions() {
		modeOptions = append(modeOptions, string(mode))
	}
	sd.storageModeSelect = widget.NewSelect(modeOptions, nil)

	sd.qualityEntry = widget.NewEntry()
	sd.qualityEntry.SetPlaceHolder("1-100")

	sd.maxDimensionEntry = widget.NewEntry()
	sd.maxDimensionEntry.SetPlaceHolder("0")

	// Language selection shows names, stores codes
	languageOptions := []string{}
	for code, name := range sd.settings.GetLanguageOptions() {
		sd.languageCodes[name] = code
		languageOptions = append(languageOptions, name)
	}
	sort.Strings(languageOptions)
	sd.languageSelect = widget.NewSelect(languageOptions, nil)

	form := container.NewVBox(
		widget.NewLabel(t(KeyStorageSettings)),
		widget.NewSeparator(),

		widget.NewLabel(t(KeyStorageDirectory)+":"),
		storageDirRow,

		widget.NewLabel(t(KeyStorageMode)+":"),
		sd.storageModeSelect,

		widget.NewLabel(t(KeyJPEGQuality)+":"),
		sd.qualityEntry,

		widget.NewLabel(t(KeyMaxDimension)+":"),
		sd.maxDimensionEntry,

		widget.NewSeparator(),
		widget.NewLabel(t(KeyInterfaceSettings)),
		widget.NewSeparator(),

		widget.NewLabel(t(KeyLanguage)+":"),
		sd.languageSelect,
	)

	sd.dialog = dialog.NewCustomConfirm(
		t(KeySettings),
		t(KeySave),
		t(KeyCancel),
		container.NewVScroll(form),
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.storageDirEntry.SetText(sd.settings.GetStorageDirectory())
	sd.storageModeSelect.SetSelected(string(sd.settings.GetStorageMode()))
	sd.qualityEntry.SetText(strconv.Itoa(sd.settings.GetJPEGQuality()))
	sd.maxDimensionEntry.SetText(strconv.Itoa(sd.settings.GetMaxDimension()))

	current := sd.settings.GetLanguage()
	for name, code := range sd.languageCodes {
		if code == current {
			sd.languageSelect.SetSelected(name)
			break
		}
	}
}

// onBrowseDirectory handles directory browsing
func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.storageDirEntry.SetText(uri.Path())
	}, sd.window)
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	restartRequired := sd.apply()

	dialog.ShowInformation(sd.localization.GetText(KeySettings), sd.localization.GetText(KeySettingsSaved), sd.window)

	if sd.onSaved != nil {
		sd.onSaved(restartRequired)
	}
}

// apply writes the form values to settings. Unparseable numbers keep the old value.
func (sd *SettingsDialog) apply() bool {
	before := storeSettings(sd.settings)

	if dir := strings.TrimSpace(sd.storageDirEntry.Text); dir != "" {
		sd.settings.SetStorageDirectory(dir)
	}

	if sd.storageModeSelect.Selected != "" {
		if mode, err := store.ParseMode(sd.storageModeSelect.Selected); err == nil {
			sd.settings.SetStorageMode(mode)
		}
	}

	if quality, err := strconv.Atoi(strings.TrimSpace(sd.qualityEntry.Text)); err == nil {
		sd.settings.SetJPEGQuality(quality)
	}

	if dim, err := strconv.Atoi(strings.TrimSpace(sd.maxDimensionEntry.Text)); err == nil {
		sd.settings.SetMaxDimension(dim)
	}

	if code, ok := sd.languageCodes[sd.languageSelect.Selected]; ok {
		sd.settings.SetLanguage(code)
	}

	return storeSettings(sd.settings) != before
}

type storeSnapshot struct {
	dir          string
	mode         store.Mode
	quality      int
	maxDimension int
}

func storeSettings(s *config.Settings) storeSnapshot {
	return storeSnapshot{
		dir:          s.GetStorageDirectory(),
		mode:         s.GetStorageMode(),
		quality:      s.GetJPEGQuality(),
		maxDimension: s.GetMaxDimension(),
	}
}
