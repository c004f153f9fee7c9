package main

import (
	"context"
	"fmt"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/m-mizutani/clog"

	"github.com/ytget/image-saver/internal/config"
	"github.com/ytget/image-saver/internal/fetch"
	"github.com/ytget/image-saver/internal/gallery"
	"github.com/ytget/image-saver/internal/platform"
	"github.com/ytget/image-saver/internal/store"
	"github.com/ytget/image-saver/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.image-saver"
	AppName = "Image Saver"
)

func main() {
	slog.SetDefault(slog.New(clog.New(
		clog.WithColor(true),
		clog.WithLevel(slog.LevelInfo),
	)))
	logger := slog.Default()
	logger.Info("starting", "app", AppName, "version", version)

	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewCompactTheme())

	myWindow := myApp.NewWindow(fmt.Sprintf("%s v%s", AppName, version))
	myWindow.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))

	// Services
	settings := config.NewSettings(myApp)
	storageDir := settings.GetStorageDirectory()
	if err := platform.CreateDirectoryIfNotExists(storageDir); err != nil {
		logger.Error("failed to ensure storage dir", "dir", storageDir, "error", err)
	}

	st := settings.NewStore(store.WithLogger(logger))
	gal := gallery.NewService(fetch.NewService(), st, gallery.WithLogger(logger))

	root := ui.NewRootUI(myWindow, myApp, settings, gal)
	root.LoadSaved(context.Background())

	myWindow.ShowAndRun()
}
