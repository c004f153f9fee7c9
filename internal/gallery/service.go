package gallery

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"

	"github.com/ytget/image-saver/internal/fetch"
	"github.com/ytget/image-saver/internal/model"
	"github.com/ytget/image-saver/internal/store"
)

// Task ID prefix
const TaskIDPrefix = "fetch-"

// ErrEmptyURL is returned by Submit when there is nothing to fetch
var ErrEmptyURL = goerr.New("url is empty")

// Service runs fetch tasks and keeps the in-memory image list
type Service struct {
	fetcher fetch.Fetcher
	store   store.Store
	logger  *slog.Logger

	mu      sync.RWMutex
	tasks   map[string]*model.FetchTask
	records []*model.ImageRecord // newest first

	onUpdate  func(*model.FetchTask)      // callback for UI updates
	onRecords func([]*model.ImageRecord) // callback for list changes

	wg sync.WaitGroup
}

// Option configures the Service
type Option func(*Service)

// WithLogger sets the service logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a new gallery service
func NewService(fetcher fetch.Fetcher, st store.Store, opts ...Option) *Service {
	s := &Service{
		fetcher: fetcher,
		store:   st,
		logger:  slog.Default(),
		tasks:   make(map[string]*model.FetchTask),
		records: make([]*model.ImageRecord, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetUpdateCallback sets the callback function for task updates
func (s *Service) SetUpdateCallback(callback func(*model.FetchTask)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onUpdate = callback
}

// SetRecordsCallback sets the callback invoked with a snapshot whenever the
// image list changes
func (s *Service) SetRecordsCallback(callback func([]*model.ImageRecord)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRecords = callback
}

// Submit starts fetching url in the background. Every call starts a new task:
// repeated URLs are not deduplicated and there is no concurrency limit.
func (s *Service) Submit(url string) (*model.FetchTask, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, ErrEmptyURL
	}

	task := &model.FetchTask{
		ID:        generateTaskID(),
		URL:       url,
		Status:    model.TaskStatusPending,
		StartedAt: time.Now(),
	}

	s.mu.Lock()
	s.tasks[task.ID] = task
	s.mu.Unlock()

	s.wg.Add(1)
	go s.runTask(task)

	return s.snapshotTask(task), nil
}

// runTask performs fetch then save for one task
func (s *Service) runTask(task *model.FetchTask) {
	defer s.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic in fetch task", "task", task.ID, "recover", r, "stack", string(debug.Stack()))
			s.finish(task, nil, fmt.Errorf("panic: %v", r))
		}
	}()

	ctx := context.Background()
	logger := s.logger.With("task", task.ID, "url", task.URL)

	s.setStatus(task, model.TaskStatusFetching)

	res, err := s.fetcher.Fetch(ctx, task.URL)
	if err != nil {
		logger.Warn("download failed", "error", err)
		s.finish(task, nil, err)
		return
	}

	s.setStatus(task, model.TaskStatusSaving)

	rec := model.NewImageRecord(task.URL, res.Image)
	rec.Format = res.Format
	saved, err := s.store.Save(ctx, rec)
	if err != nil {
		logger.Warn("save failed", "error", err)
		s.finish(task, nil, err)
		return
	}

	logger.Info("image saved", "id", saved.ID, "path", saved.Path, "width", saved.Width, "height", saved.Height)
	s.finish(task, saved, nil)
}

// setStatus moves the task to status and notifies
func (s *Service) setStatus(task *model.FetchTask, status model.TaskStatus) {
	s.mu.Lock()
	task.Status = status
	s.mu.Unlock()

	s.notifyUpdate(task)
}

// finish records the outcome; a saved record goes to the top of the list
func (s *Service) finish(task *model.FetchTask, rec *model.ImageRecord, err error) {
	s.mu.Lock()
	if err != nil {
		task.Status = model.TaskStatusError
		task.LastError = err.Error()
	} else {
		task.Status = model.TaskStatusCompleted
		task.Record = rec
		s.records = append([]*model.ImageRecord{rec}, s.records...)
	}
	task.FinishedAt = time.Now()
	s.mu.Unlock()

	s.notifyUpdate(task)
	if err == nil {
		s.notifyRecords()
	}
}

// Load rehydrates the list from the store. Stored order is oldest first, so
// the list is reversed to keep the newest image on top. Records added by
// tasks that finished before Load stay above the loaded ones.
func (s *Service) Load(ctx context.Context) (int, error) {
	loaded, err := s.store.LoadAll(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to load saved images")
	}

	reversed := make([]*model.ImageRecord, len(loaded))
	for i, rec := range loaded {
		reversed[len(loaded)-1-i] = rec
	}

	s.mu.Lock()
	known := make(map[string]bool, len(s.records))
	for _, rec := range s.records {
		known[recordKey(rec)] = true
	}
	for _, rec := range reversed {
		if !known[recordKey(rec)] {
			s.records = append(s.records, rec)
		}
	}
	s.mu.Unlock()

	s.logger.Info("saved images loaded", "count", len(loaded))
	s.notifyRecords()
	return len(loaded), nil
}

// Reload drops the in-memory list and loads it again from the store
func (s *Service) Reload(ctx context.Context) (int, error) {
	s.mu.Lock()
	s.records = make([]*model.ImageRecord, 0)
	s.mu.Unlock()

	return s.Load(ctx)
}

// Records returns a snapshot of the image list, newest first
func (s *Service) Records() []*model.ImageRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.ImageRecord, len(s.records))
	copy(out, s.records)
	return out
}

// GetTask returns a copy of a task by ID
func (s *Service) GetTask(id string) (*model.FetchTask, bool) {
	s.mu.RLock()
	task, exists := s.tasks[id]
	s.mu.RUnlock()
	if !exists {
		return nil, false
	}
	return s.snapshotTask(task), true
}

// GetAllTasks returns copies of all tasks, oldest first
func (s *Service) GetAllTasks() []*model.FetchTask {
	s.mu.RLock()
	tasks := make([]*model.FetchTask, 0, len(s.tasks))
	for _, task := range s.tasks {
		cp := *task
		tasks = append(tasks, &cp)
	}
	s.mu.RUnlock()

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].StartedAt.Before(tasks[j].StartedAt)
	})
	return tasks
}

// Wait blocks until every submitted task has finished
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) snapshotTask(task *model.FetchTask) *model.FetchTask {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := *task
	return &cp
}

// notifyUpdate calls the update callback if set, outside the lock
func (s *Service) notifyUpdate(task *model.FetchTask) {
	s.mu.RLock()
	callback := s.onUpdate
	s.mu.RUnlock()

	if callback != nil {
		callback(s.snapshotTask(task))
	}
}

// notifyRecords calls the records callback if set, outside the lock
func (s *Service) notifyRecords() {
	s.mu.RLock()
	callback := s.onRecords
	s.mu.RUnlock()

	if callback != nil {
		callback(s.Records())
	}
}

// recordKey identifies a record across a Load: file path when there is one
func recordKey(rec *model.ImageRecord) string {
	if rec.Path != "" {
		return "path:" + rec.Path
	}
	return "id:" + rec.ID
}

// generateTaskID generates a unique task ID using UUID v7 for time ordering
func generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to timestamp if UUID generation fails
		return fmt.Sprintf(TaskIDPrefix+"%d", time.Now().UnixNano())
	}
	return TaskIDPrefix + id.String()
}
