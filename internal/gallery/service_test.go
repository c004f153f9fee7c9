package gallery

import (
	"context"
	"errors"
	"image"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ytget/image-saver/internal/compress"
	"github.com/ytget/image-saver/internal/fetch"
	"github.com/ytget/image-saver/internal/model"
	"github.com/ytget/image-saver/internal/store"
)

var _ Gallery = (*Service)(nil)

type fakeFetcher struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (*fetch.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	err := f.fail[url]
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return &fetch.Result{Image: image.NewRGBA(image.Rect(0, 0, 10, 5)), Format: "png", Size: 42}, nil
}

type memStore struct {
	mu      sync.Mutex
	saved   []*model.ImageRecord
	loadErr error
	saveErr error
}

func (m *memStore) Save(ctx context.Context, rec *model.ImageRecord) (*model.ImageRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	cp := *rec
	cp.ID = rec.SourceURL
	cp.Path = "/images/" + strings.TrimPrefix(rec.SourceURL, "https://example.com/")
	m.saved = append(m.saved, &cp)
	return &cp, nil
}

func (m *memStore) LoadAll(ctx context.Context) ([]*model.ImageRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make([]*model.ImageRecord, len(m.saved))
	copy(out, m.saved)
	return out, nil
}

func TestSubmit_EmptyURL(t *testing.T) {
	svc := NewService(&fakeFetcher{}, &memStore{})

	for _, url := range []string{"", "   ", "\n"} {
		_, err := svc.Submit(url)
		require.ErrorIs(t, err, ErrEmptyURL)
	}
	require.Empty(t, svc.GetAllTasks())
}

func TestSubmit_SuccessPrependsRecord(t *testing.T) {
	st := &memStore{}
	svc := NewService(&fakeFetcher{}, st)

	var mu sync.Mutex
	var statuses []model.TaskStatus
	svc.SetUpdateCallback(func(task *model.FetchTask) {
		mu.Lock()
		statuses = append(statuses, task.Status)
		mu.Unlock()
	})

	first, err := svc.Submit("https://example.com/1.png")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(first.ID, TaskIDPrefix))
	svc.Wait()

	_, err = svc.Submit("https://example.com/2.png")
	require.NoError(t, err)
	svc.Wait()

	records := svc.Records()
	require.Len(t, records, 2)
	require.Equal(t, "https://example.com/2.png", records[0].SourceURL)
	require.Equal(t, "https://example.com/1.png", records[1].SourceURL)
	require.Equal(t, 10, records[0].Width)
	require.Equal(t, "png", records[0].Format)

	task, ok := svc.GetTask(first.ID)
	require.True(t, ok)
	require.Equal(t, model.TaskStatusCompleted, task.Status)
	require.NotNil(t, task.Record)
	require.False(t, task.FinishedAt.IsZero())

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []model.TaskStatus{
		model.TaskStatusFetching, model.TaskStatusSaving, model.TaskStatusCompleted,
		model.TaskStatusFetching, model.TaskStatusSaving, model.TaskStatusCompleted,
	}, statuses)
}

func TestSubmit_DuplicatesAreNotDeduplicated(t *testing.T) {
	fetcher := &fakeFetcher{}
	svc := NewService(fetcher, &memStore{})

	for i := 0; i < 5; i++ {
		_, err := svc.Submit("https://example.com/same.png")
		require.NoError(t, err)
	}
	svc.Wait()

	require.Len(t, fetcher.calls, 5)
	require.Len(t, svc.Records(), 5)
	require.Len(t, svc.GetAllTasks(), 5)
}

func TestSubmit_FetchFailure(t *testing.T) {
	fetcher := &fakeFetcher{fail: map[string]error{"https://example.com/bad.png": errors.New("boom")}}
	st := &memStore{}
	svc := NewService(fetcher, st)

	recordsChanged := false
	svc.SetRecordsCallback(func([]*model.ImageRecord) { recordsChanged = true })

	task, err := svc.Submit("https://example.com/bad.png")
	require.NoError(t, err)
	svc.Wait()

	got, ok := svc.GetTask(task.ID)
	require.True(t, ok)
	require.Equal(t, model.TaskStatusError, got.Status)
	require.Contains(t, got.LastError, "boom")
	require.Nil(t, got.Record)
	require.Empty(t, svc.Records())
	require.Empty(t, st.saved)
	require.False(t, recordsChanged)
}

func TestSubmit_SaveFailure(t *testing.T) {
	svc := NewService(&fakeFetcher{}, &memStore{saveErr: errors.New("disk full")})

	task, err := svc.Submit("https://example.com/1.png")
	require.NoError(t, err)
	svc.Wait()

	got, _ := svc.GetTask(task.ID)
	require.Equal(t, model.TaskStatusError, got.Status)
	require.Contains(t, got.LastError, "disk full")
	require.Empty(t, svc.Records())
}

func TestLoad_NewestFirst(t *testing.T) {
	st := &memStore{saved: []*model.ImageRecord{
		{ID: "old", Path: "/images/old.jpg"},
		{ID: "mid", Path: "/images/mid.jpg"},
		{ID: "new", Path: "/images/new.jpg"},
	}}
	svc := NewService(&fakeFetcher{}, st)

	var snapshot []*model.ImageRecord
	svc.SetRecordsCallback(func(recs []*model.ImageRecord) { snapshot = recs })

	n, err := svc.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, n)

	records := svc.Records()
	require.Equal(t, "new", records[0].ID)
	require.Equal(t, "old", records[2].ID)
	require.Len(t, snapshot, 3)
}

func TestLoad_Empty(t *testing.T) {
	svc := NewService(&fakeFetcher{}, &memStore{})

	n, err := svc.Load(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)
	require.Empty(t, svc.Records())
}

func TestLoad_Error(t *testing.T) {
	svc := NewService(&fakeFetcher{}, &memStore{loadErr: errors.New("permission denied")})

	_, err := svc.Load(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load saved images")
}

func TestLoad_DoesNotDuplicateFreshRecords(t *testing.T) {
	st := &memStore{}
	svc := NewService(&fakeFetcher{}, st)

	_, err := svc.Submit("https://example.com/fresh.png")
	require.NoError(t, err)
	svc.Wait()

	_, err = svc.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, svc.Records(), 1)

	n, err := svc.Reload(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Len(t, svc.Records(), 1)
}

func TestReload_SameMillisecondFilesKeepNewestOnTop(t *testing.T) {
	at := time.UnixMilli(1700000000123)
	st := store.NewFileStore(t.TempDir(), compress.NewService(compress.DefaultQuality, 0),
		store.WithClock(func() time.Time { return at }))
	svc := NewService(&fakeFetcher{}, st)

	for i := 1; i <= 3; i++ {
		_, err := svc.Submit("https://example.com/" + string(rune('0'+i)) + ".png")
		require.NoError(t, err)
		svc.Wait()
	}

	n, err := svc.Reload(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, n)

	records := svc.Records()
	require.Equal(t, "image_1700000000123_02.jpg", filepath.Base(records[0].Path))
	require.Equal(t, "image_1700000000123_01.jpg", filepath.Base(records[1].Path))
	require.Equal(t, "image_1700000000123.jpg", filepath.Base(records[2].Path))
}

func TestGenerateTaskID(t *testing.T) {
	id1 := generateTaskID()
	id2 := generateTaskID()

	if id1 == id2 {
		t.Error("Expected different task IDs")
	}

	if !strings.HasPrefix(id1, TaskIDPrefix) {
		t.Errorf("Expected ID to start with '%s', got: %s", TaskIDPrefix, id1)
	}

	// Check UUID format (prefix + 36 chars for UUID)
	if len(id1) != len(TaskIDPrefix)+36 {
		t.Errorf("Expected ID length %d, got %d for ID: %s", len(TaskIDPrefix)+36, len(id1), id1)
	}
}
