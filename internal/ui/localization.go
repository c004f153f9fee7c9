package ui

import (
	"strings"

	"fyne.io/fyne/v2/lang"
)

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// LanguageSystem follows the OS locale
const LanguageSystem = "system"

// Text keys for localization
const (
	KeyAppTitle          = "app_title"
	KeyDownloadImage     = "download_image"
	KeyRefresh           = "refresh"
	KeyOpenFolder        = "open_folder"
	KeySettings          = "settings"
	KeyFile              = "file"
	KeyLanguage          = "language"
	KeyStorageDirectory  = "storage_directory"
	KeyStorageMode       = "storage_mode"
	KeyJPEGQuality       = "jpeg_quality"
	KeyMaxDimension      = "max_dimension"
	KeySave              = "save"
	KeyCancel            = "cancel"
	KeyBrowse            = "browse"
	KeyEnterURL          = "enter_url"
	KeySettingsSaved     = "settings_saved"
	KeyRestartToApply    = "restart_to_apply"
	KeyPleaseEnterURL    = "please_enter_url"
	KeyInvalidURL        = "invalid_url"
	KeyDownloading       = "downloading"
	KeyImageSaved        = "image_saved"
	KeyDownloadError     = "download_error"
	KeySaveError         = "save_error"
	KeyImagesLoaded      = "images_loaded"
	KeyNoSavedImages     = "no_saved_images"
	KeyLoadError         = "load_error"
	KeyErrorOpeningFile  = "error_opening_file"
	KeyNoFileForImage    = "no_file_for_image"
	KeyStorageSettings   = "storage_settings"
	KeyInterfaceSettings = "interface_settings"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(code string) {
	if code == LanguageSystem {
		code = systemLanguage()
	}

	if _, exists := l.texts[code]; exists {
		l.currentLanguage = code
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Final fallback - return key itself
	return key
}

// systemLanguage returns the two-letter code of the OS locale, e.g. "ru" for ru-RU
func systemLanguage() string {
	code, _, _ := strings.Cut(lang.SystemLocale().LanguageString(), "-")
	return strings.ToLower(code)
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	// English texts
	l.texts["en"] = map[string]string{
		KeyAppTitle:          "Image Saver",
		KeyDownloadImage:     "Download image",
		KeyRefresh:           "Refresh",
		KeyOpenFolder:        "Open folder",
		KeySettings:          "Settings",
		KeyFile:              "File",
		KeyLanguage:          "Language",
		KeyStorageDirectory:  "Storage Directory",
		KeyStorageMode:       "Storage Mode",
		KeyJPEGQuality:       "JPEG Quality (1-100)",
		KeyMaxDimension:      "Max Dimension (0 = original)",
		KeySave:              "Save",
		KeyCancel:            "Cancel",
		KeyBrowse:            "Browse",
		KeyEnterURL:          "Enter image URL",
		KeySettingsSaved:     "Settings saved successfully!",
		KeyRestartToApply:    "Storage changes apply after restart",
		KeyPleaseEnterURL:    "Enter a URL",
		KeyInvalidURL:        "Invalid URL",
		KeyDownloading:       "Downloading image...",
		KeyImageSaved:        "Image saved",
		KeyDownloadError:     "Download error",
		KeySaveError:         "Save error",
		KeyImagesLoaded:      "Images loaded from storage",
		KeyNoSavedImages:     "No saved images",
		KeyLoadError:         "Could not load saved images",
		KeyErrorOpeningFile:  "Error opening file",
		KeyNoFileForImage:    "This image is stored in the records file",
		KeyStorageSettings:   "Storage",
		KeyInterfaceSettings: "Interface",
	}

	// Russian texts
	l.texts["ru"] = map[string]string{
		KeyAppTitle:          "Сохранение изображений",
		KeyDownloadImage:     "Загрузить изображение",
		KeyRefresh:           "Обновить",
		KeyOpenFolder:        "Открыть папку",
		KeySettings:          "Настройки",
		KeyFile:              "Файл",
		KeyLanguage:          "Язык",
		KeyStorageDirectory:  "Папка хранения",
		KeyStorageMode:       "Способ хранения",
		KeyJPEGQuality:       "Качество JPEG (1-100)",
		KeyMaxDimension:      "Макс. размер (0 = исходный)",
		KeySave:              "Сохранить",
		KeyCancel:            "Отмена",
		KeyBrowse:            "Обзор",
		KeyEnterURL:          "Введите URL изображения",
		KeySettingsSaved:     "Настройки успешно сохранены!",
		KeyRestartToApply:    "Изменения хранилища вступят в силу после перезапуска",
		KeyPleaseEnterURL:    "Введите URL",
		KeyInvalidURL:        "Неверный URL",
		KeyDownloading:       "Загрузка изображения...",
		KeyImageSaved:        "Изображение сохранено",
		KeyDownloadError:     "Ошибка загрузки",
		KeySaveError:         "Ошибка сохранения",
		KeyImagesLoaded:      "Изображения загружены из хранилища",
		KeyNoSavedImages:     "Нет сохраненных изображений",
		KeyLoadError:         "Не удалось загрузить сохраненные изображения",
		KeyErrorOpeningFile:  "Ошибка открытия файла",
		KeyNoFileForImage:    "Это изображение хранится в файле записей",
		KeyStorageSettings:   "Хранилище",
		KeyInterfaceSettings: "Интерфейс",
	}

	// Portuguese texts
	l.texts["pt"] = map[string]string{
		KeyAppTitle:          "Image Saver",
		KeyDownloadImage:     "Baixar imagem",
		KeyRefresh:           "Atualizar",
		KeyOpenFolder:        "Abrir pasta",
		KeySettings:          "Configurações",
		KeyFile:              "Arquivo",
		KeyLanguage:          "Idioma",
		KeyStorageDirectory:  "Diretório de Armazenamento",
		KeyStorageMode:       "Modo de Armazenamento",
		KeyJPEGQuality:       "Qualidade JPEG (1-100)",
		KeyMaxDimension:      "Dimensão Máxima (0 = original)",
		KeySave:              "Salvar",
		KeyCancel:            "Cancelar",
		KeyBrowse:            "Navegar",
		KeyEnterURL:          "Digite a URL da imagem",
		KeySettingsSaved:     "Configurações salvas com sucesso!",
		KeyRestartToApply:    "Alterações de armazenamento valem após reiniciar",
		KeyPleaseEnterURL:    "Digite uma URL",
		KeyInvalidURL:        "URL inválida",
		KeyDownloading:       "Baixando imagem...",
		KeyImageSaved:        "Imagem salva",
		KeyDownloadError:     "Erro ao baixar",
		KeySaveError:         "Erro ao salvar",
		KeyImagesLoaded:      "Imagens carregadas do armazenamento",
		KeyNoSavedImages:     "Nenhuma imagem salva",
		KeyLoadError:         "Não foi possível carregar as imagens salvas",
		KeyErrorOpeningFile:  "Erro ao abrir arquivo",
		KeyNoFileForImage:    "Esta imagem está no arquivo de registros",
		KeyStorageSettings:   "Armazenamento",
		KeyInterfaceSettings: "Interface",
	}
}
