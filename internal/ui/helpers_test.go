package ui

import (
	"context"
	"sync"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"

	"github.com/ytget/image-saver/internal/config"
	"github.com/ytget/image-saver/internal/model"
)

// fakeGallery records calls and lets tests drive the callbacks
type fakeGallery struct {
	mu        sync.Mutex
	submitted []string
	loadCount int
	loadErr   error
	loads     int

	onUpdate  func(*model.FetchTask)
	onRecords func([]*model.ImageRecord)
}

func (g *fakeGallery) SetUpdateCallback(cb func(*model.FetchTask)) { g.onUpdate = cb }
func (g *fakeGallery) SetRecordsCallback(cb func([]*model.ImageRecord)) { g.onRecords = cb }
func (g *fakeGallery) Records() []*model.ImageRecord { return nil }
func (g *fakeGallery) GetTask(id string) (*model.FetchTask, bool) { return nil, false }
func (g *fakeGallery) GetAllTasks() []*model.FetchTask { return nil }
func (g *fakeGallery) Wait() {}
func (g *fakeGallery) Reload(ctx context.Context) (int, error) { return g.Load(ctx) }

func (g *fakeGallery) Submit(url string) (*model.FetchTask, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.submitted = append(g.submitted, url)
	return &model.FetchTask{ID: "fetch-1", URL: url, Status: model.TaskStatusPending}, nil
}

func (g *fakeGallery) Load(ctx context.Context) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.loads++
	return g.loadCount, g.loadErr
}

func (g *fakeGallery) Submitted() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.submitted...)
}

func (g *fakeGallery) Loads() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.loads
}

// newTestRoot builds a RootUI on a test app with English texts
func newTestRoot(t *testing.T) (*RootUI, *fakeGallery, fyne.App) {
	t.Helper()

	app := test.NewApp()
	settings := config.NewSettings(app)
	settings.SetLanguage("en")
	settings.SetStorageDirectory(t.TempDir())

	window := app.NewWindow("test")
	t.Cleanup(window.Close)

	gal := &fakeGallery{}
	return NewRootUI(window, app, settings, gal), gal, app
}
