package platform

import (
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"fyne.io/fyne/v2"
	"github.com/m-mizutani/goerr/v2"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
	OSAndroid = "android"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Command constants
const (
	OpenCommand     = "open"
	ExplorerCommand = "explorer"
	XDGOpenCommand  = "xdg-open"
	CmdCommand      = "cmd"
	StartCommand    = "start"
	AndroidCommand  = "am"
)

// Command parameters
const (
	MacOSSelectFlag    = "-R"
	WindowsSelectParam = "/select,"
	WindowsCmdFlag     = "/c"
)

// Storage layout
const (
	ImagesDirName = "images"
	AppDirName    = "image-saver"
	ImageMIMEType = "image/*"
)

// File manager names
var (
	LinuxFileManagers = []string{"nautilus", "dolphin", "thunar", "nemo", "pcmanfm"}
)

// Android viewer activities tried in order before the generic VIEW intent
var (
	AndroidGalleryActivities = []string{
		"com.android.gallery3d/.app.GalleryActivity",
		"com.google.android.apps.photos/.pager.HostPhotoPagerActivity",
	}
)

var (
	ErrEmptyPath         = goerr.New("file path is empty")
	ErrFileNotFound      = goerr.New("file does not exist")
	ErrUnsupportedOS     = goerr.New("unsupported operating system")
	ErrNoViewerAvailable = goerr.New("no suitable application found")
)

// GetAppStorageDir returns the app-private images directory. It lives under
// the Fyne storage root so it is private to the app on mobile; when the app
// has no storage root the user config directory is used instead.
func GetAppStorageDir(app fyne.App) (string, error) {
	if app != nil {
		if st := app.Storage(); st != nil {
			if root := st.RootURI(); root != nil && root.Path() != "" {
				return filepath.Join(root.Path(), ImagesDirName), nil
			}
		}
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", goerr.Wrap(err, "failed to get user config directory")
	}
	return filepath.Join(configDir, AppDirName, ImagesDirName), nil
}

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// resolveExisting validates the path and returns its absolute form
func resolveExisting(filePath string) (string, error) {
	if filePath == "" {
		return "", ErrEmptyPath
	}
	if _, err := os.Stat(filePath); err != nil {
		return "", goerr.Wrap(ErrFileNotFound, err.Error(), goerr.V("path", filePath))
	}

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", goerr.Wrap(err, "failed to get absolute path", goerr.V("path", filePath))
	}
	return absPath, nil
}

// OpenFileInManager opens the file in the system file manager and highlights it
func OpenFileInManager(filePath string) error {
	absPath, err := resolveExisting(filePath)
	if err != nil {
		return err
	}

	switch runtime.GOOS {
	case OSDarwin:
		return exec.Command(OpenCommand, MacOSSelectFlag, absPath).Run()
	case OSWindows:
		return exec.Command(ExplorerCommand, WindowsSelectParam, absPath).Run()
	case OSLinux:
		return openFileInManagerLinux(absPath)
	case OSAndroid:
		return runFirst(
			[]string{"start", "-a", "android.intent.action.VIEW", "-d", "file://" + filepath.Dir(absPath)},
			[]string{"start", "-a", "android.settings.INTERNAL_STORAGE_SETTINGS"},
		)
	default:
		return goerr.Wrap(ErrUnsupportedOS, runtime.GOOS)
	}
}

// openFileInManagerLinux opens directory containing file on Linux.
// File selection is not standardized on Linux, so the parent directory is opened.
func openFileInManagerLinux(filePath string) error {
	dir := filepath.Dir(filePath)

	if err := exec.Command(XDGOpenCommand, dir).Run(); err == nil {
		return nil
	}

	for _, fm := range LinuxFileManagers {
		if _, err := exec.LookPath(fm); err == nil {
			return exec.Command(fm, dir).Run()
		}
	}

	return goerr.Wrap(ErrNoViewerAvailable, "no file manager", goerr.V("dir", dir))
}

// OpenFileWithDefaultApp opens the file with the default system application
func OpenFileWithDefaultApp(filePath string) error {
	absPath, err := resolveExisting(filePath)
	if err != nil {
		return err
	}

	switch runtime.GOOS {
	case OSDarwin:
		return exec.Command(OpenCommand, absPath).Run()
	case OSWindows:
		return exec.Command(CmdCommand, WindowsCmdFlag, StartCommand, "", absPath).Run()
	case OSLinux:
		return exec.Command(XDGOpenCommand, absPath).Run()
	case OSAndroid:
		return runFirst(androidViewerCommands(absPath)...)
	default:
		return goerr.Wrap(ErrUnsupportedOS, runtime.GOOS)
	}
}

// androidViewerCommands lists `am` invocations for viewing an image, most specific first
func androidViewerCommands(filePath string) [][]string {
	uri := "file://" + filePath
	var cmds [][]string
	for _, activity := range AndroidGalleryActivities {
		cmds = append(cmds, []string{"start", "-n", activity, "-d", uri})
	}
	cmds = append(cmds,
		[]string{"start", "-a", "android.intent.action.VIEW", "-d", uri, "-t", ImageMIMEType},
		[]string{"start", "-a", "android.intent.action.VIEW", "-d", uri},
	)
	return cmds
}

// runFirst runs `am` with each argument list until one succeeds
func runFirst(argLists ...[]string) error {
	var lastErr error
	for _, args := range argLists {
		if lastErr = exec.Command(AndroidCommand, args...).Run(); lastErr == nil {
			return nil
		}
	}
	if lastErr == nil {
		return ErrNoViewerAvailable
	}
	return goerr.Wrap(ErrNoViewerAvailable, lastErr.Error())
}

// IsAndroid reports whether the process runs on Android, including Fyne
// builds where GOOS is linux but the Android environment is present.
func IsAndroid() bool {
	return runtime.GOOS == OSAndroid ||
		os.Getenv("ANDROID_DATA") != "" ||
		os.Getenv("ANDROID_ROOT") != "" ||
		filepath.Base(os.Args[0]) == "libdist.so" // Fyne Android apps run as libdist.so
}

// NotifyMediaScanner asks the Android media scanner to index a saved image.
// It is a no-op elsewhere and never blocks the caller.
func NotifyMediaScanner(filePath string) {
	if !IsAndroid() {
		return
	}

	cmd := exec.Command(AndroidCommand, "broadcast", "-a", "android.intent.action.MEDIA_SCANNER_SCAN_FILE", "-d", "file://"+filePath)
	go func() {
		if err := cmd.Run(); err != nil {
			slog.Debug("media scanner notification failed", "path", filePath, "error", err)
		}
	}()
}
